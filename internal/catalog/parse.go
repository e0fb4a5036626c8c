package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"
	"careerxr/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrEmptyResource = errors.New("empty catalog resource")
	ErrMissingColumn = errors.New("missing catalog column")
)

// namespace for deterministic job ids derived from the source row.
var jobNamespace = uuid.MustParse("0f6a3c5e-8d0b-4c55-9d0e-5e6f7a8b9c10")

var columnAliases = map[string][]string{
	colTitle:    {"jobtitle", "title", "job_title", "job"},
	colIndustry: {"industrycluster", "industry", "industry_cluster", "cluster"},
	colSkills:   {"skills", "requiredskills", "required_skills"},
	colScore:    {"matchscore", "match_score", "score"},
	colEntry:    {"entrylevelwage", "entry_level_wage"},
	colAverage:  {"averagewage", "average_wage"},
}

const (
	colTitle    = "title"
	colIndustry = "industry"
	colSkills   = "skills"
	colScore    = "score"
	colEntry    = "entry"
	colAverage  = "average"
)

type Parser struct {
	Classifier industry.Classifier
}

func NewParser(classifier industry.Classifier) Parser {
	return Parser{Classifier: classifier}
}

// Parse reads a header-first CSV document into unique skills and job records.
// Rows without a title are skipped.
func (p Parser) Parse(data []byte) (skills []string, jobs []job.Job, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, ErrEmptyResource
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	idx := resolveColumns(header)
	if _, ok := idx[colTitle]; !ok {
		return nil, nil, fmt.Errorf("%w: job title", ErrMissingColumn)
	}
	if _, ok := idx[colSkills]; !ok {
		return nil, nil, fmt.Errorf("%w: skills", ErrMissingColumn)
	}

	set := skill.NewSet()
	jobs = make([]job.Job, 0)
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if blankRecord(rec) {
			continue
		}

		title := strings.TrimSpace(cell(rec, idx, colTitle))
		skillsCell := cell(rec, idx, colSkills)
		labels := skill.SplitCell(skillsCell)
		for _, l := range labels {
			set.Add(l)
		}
		if title == "" {
			continue
		}

		source := strings.TrimSpace(cell(rec, idx, colIndustry))
		jobs = append(jobs, job.Job{
			ID:             uuid.NewSHA1(jobNamespace, []byte(strconv.Itoa(line)+":"+title)),
			Title:          title,
			Industry:       p.Classifier.Classify(title, source),
			SourceIndustry: source,
			Skills:         labels,
			MatchScore:     parseNumber(cell(rec, idx, colScore)),
			EntryLevelWage: parseNumber(cell(rec, idx, colEntry)),
			AverageWage:    parseNumber(cell(rec, idx, colAverage)),
		})
	}

	return set.Items(), jobs, nil
}

func resolveColumns(header []string) map[string]int {
	out := make(map[string]int, len(columnAliases))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for col, aliases := range columnAliases {
			if _, done := out[col]; done {
				continue
			}
			for _, a := range aliases {
				if key == a {
					out[col] = i
					break
				}
			}
		}
	}
	return out
}

func cell(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
