package catalog

import (
	"context"
	"log"
	"strings"
	"time"

	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"
)

type Loader struct {
	fetcher Fetcher
	parser  Parser
	source  string
	logger  *log.Logger
	now     func() time.Time
}

func NewLoader(fetcher Fetcher, classifier industry.Classifier, source string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		fetcher: fetcher,
		parser:  NewParser(classifier),
		source:  strings.TrimSpace(source),
		logger:  logger,
		now:     time.Now,
	}
}

func (l *Loader) Source() string {
	return l.source
}

// Load never fails: fetch and parse problems are logged and an empty catalog
// is returned so callers can keep serving.
func (l *Loader) Load(ctx context.Context) job.Catalog {
	cat, err := l.LoadStrict(ctx)
	if err != nil {
		l.logger.Printf("[Catalog] load failed | source=%s err=%v", l.source, err)
		return job.Catalog{Skills: []string{}, Jobs: []job.Job{}, Source: l.source, LoadedAt: l.now()}
	}
	return cat
}

func (l *Loader) LoadStrict(ctx context.Context) (job.Catalog, error) {
	start := l.now()
	data, err := l.fetcher.Fetch(ctx, l.source)
	if err != nil {
		return job.Catalog{}, err
	}

	skills, jobs, err := l.parser.Parse(data)
	if err != nil {
		return job.Catalog{}, err
	}

	l.logger.Printf("[Catalog] loaded | source=%s skills=%d jobs=%d took=%s", l.source, len(skills), len(jobs), l.now().Sub(start))
	return job.Catalog{Skills: skills, Jobs: jobs, Source: l.source, LoadedAt: l.now()}, nil
}
