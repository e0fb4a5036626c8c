package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"
	"careerxr/internal/domain/skill"
)

type Mode string

const (
	// ModeCount scores a job by the number of selected skills it requires.
	ModeCount Mode = "count"
	// ModeRatio scores a job by overlap / number of selected skills.
	ModeRatio Mode = "ratio"
)

var (
	ErrSelectionTooSmall = errors.New("too few skills selected")
	ErrSelectionTooLarge = errors.New("too many skills selected")
	ErrInvalidMode       = errors.New("invalid scoring mode")
	ErrInvalidThreshold  = errors.New("invalid threshold")
)

type Config struct {
	Mode             Mode
	Threshold        float64
	MinSelected      int
	MaxSelected      int
	CatchAllIndustry string
}

func DefaultConfig() Config {
	return Config{
		Mode:             ModeRatio,
		Threshold:        0.6,
		MinSelected:      1,
		MaxSelected:      5,
		CatchAllIndustry: industry.DefaultCatchAll,
	}
}

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCount:
		return ModeCount, nil
	case ModeRatio:
		return ModeRatio, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (c Config) Validate() error {
	if c.Mode != ModeCount && c.Mode != ModeRatio {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.Threshold)
	}
	if c.Mode == ModeRatio && c.Threshold > 1 {
		return fmt.Errorf("%w: ratio threshold %v above 1", ErrInvalidThreshold, c.Threshold)
	}
	return nil
}

type Recommendation struct {
	Job     job.Job
	Score   float64
	Overlap int
	Matched []string
	Missing []string
}

type IndustryGroup struct {
	Industry        string
	BestScore       float64
	Recommendations []Recommendation
}

// NormalizeSelection normalizes and de-duplicates the selection, keeping the
// first-seen order, and enforces the configured selection bounds.
func NormalizeSelection(cfg Config, selected []string) ([]string, error) {
	seen := make(map[string]struct{}, len(selected))
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		n := skill.Normalize(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	if cfg.MinSelected > 0 && len(out) < cfg.MinSelected {
		return nil, fmt.Errorf("%w: selected %d, minimum %d", ErrSelectionTooSmall, len(out), cfg.MinSelected)
	}
	if cfg.MaxSelected > 0 && len(out) > cfg.MaxSelected {
		return nil, fmt.Errorf("%w: selected %d, maximum %d", ErrSelectionTooLarge, len(out), cfg.MaxSelected)
	}
	return out, nil
}

// Score computes the match between a job's required skills and an already
// normalized selection.
func Score(mode Mode, jobSkills []string, selected map[string]struct{}) (score float64, overlap int, matched, missing []string) {
	matched = make([]string, 0)
	missing = make([]string, 0)
	counted := make(map[string]struct{}, len(jobSkills))
	for _, js := range jobSkills {
		n := skill.Normalize(js)
		if n == "" {
			continue
		}
		if _, dup := counted[n]; dup {
			continue
		}
		counted[n] = struct{}{}
		if _, ok := selected[n]; ok {
			matched = append(matched, js)
			overlap++
			continue
		}
		missing = append(missing, js)
	}

	switch mode {
	case ModeRatio:
		if len(selected) > 0 {
			score = float64(overlap) / float64(len(selected))
		}
	default:
		score = float64(overlap)
	}
	return score, overlap, matched, missing
}

// Rank scores every job against the selection, keeps those at or above the
// threshold with at least one overlapping skill, and sorts them by descending
// score. Ties keep title order.
func Rank(cfg Config, jobs []job.Job, selected []string) ([]Recommendation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	norm, err := NormalizeSelection(cfg, selected)
	if err != nil {
		return nil, err
	}
	sel := make(map[string]struct{}, len(norm))
	for _, s := range norm {
		sel[s] = struct{}{}
	}

	out := make([]Recommendation, 0)
	for _, j := range jobs {
		score, overlap, matched, missing := Score(cfg.Mode, j.Skills, sel)
		if overlap == 0 || score < cfg.Threshold {
			continue
		}
		out = append(out, Recommendation{
			Job:     j,
			Score:   score,
			Overlap: overlap,
			Matched: matched,
			Missing: missing,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Job.Title < out[j].Job.Title
	})
	return out, nil
}

// Group buckets ranked recommendations by industry, dropping the catch-all
// bucket. Groups are ordered by their best score, then by name.
func Group(cfg Config, recs []Recommendation) []IndustryGroup {
	classifier := industry.NewClassifier(cfg.CatchAllIndustry)

	byName := make(map[string]*IndustryGroup)
	order := make([]string, 0)
	for _, r := range recs {
		name := strings.TrimSpace(r.Job.Industry)
		if name == "" || classifier.IsCatchAll(name) {
			continue
		}
		g, ok := byName[name]
		if !ok {
			g = &IndustryGroup{Industry: name}
			byName[name] = g
			order = append(order, name)
		}
		if len(g.Recommendations) == 0 || r.Score > g.BestScore {
			g.BestScore = r.Score
		}
		g.Recommendations = append(g.Recommendations, r)
	}

	out := make([]IndustryGroup, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BestScore != out[j].BestScore {
			return out[i].BestScore > out[j].BestScore
		}
		return out[i].Industry < out[j].Industry
	})
	return out
}
