package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"careerxr/internal/domain/job"
)

// Store holds the catalog snapshot served to readers.
type Store struct {
	mu  sync.RWMutex
	cat job.Catalog
	gen uint64
}

func NewStore(initial job.Catalog) *Store {
	s := &Store{}
	s.swap(initial)
	return s
}

func (s *Store) Snapshot() job.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

func (s *Store) Replace(cat job.Catalog) {
	s.swap(cat)
}

// swap installs cat under the next generation and returns it as stored.
func (s *Store) swap(cat job.Catalog) job.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	cat.Generation = s.gen
	s.cat = cat
	return cat
}

// Reload loads a fresh catalog and swaps it in. An empty result keeps the
// previous snapshot unless nothing was loaded before.
func (s *Store) Reload(ctx context.Context, l *Loader) (job.Catalog, bool) {
	cat := l.Load(ctx)
	if cat.Empty() && !s.Snapshot().Empty() {
		return s.Snapshot(), false
	}
	return s.swap(cat), true
}

func (s *Store) Skills() []string {
	cat := s.Snapshot()
	out := make([]string, len(cat.Skills))
	copy(out, cat.Skills)
	return out
}

// Jobs returns catalog jobs, filtered by industry when one is given.
func (s *Store) Jobs(industry string) []job.Job {
	cat := s.Snapshot()
	industry = strings.TrimSpace(industry)
	out := make([]job.Job, 0, len(cat.Jobs))
	for _, j := range cat.Jobs {
		if industry != "" && !strings.EqualFold(j.Industry, industry) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func (s *Store) Industries() []job.IndustryCount {
	return CountIndustries(s.Snapshot().Jobs)
}

// CountIndustries orders industries by job count desc, then name.
func CountIndustries(jobs []job.Job) []job.IndustryCount {
	counts := make(map[string]int)
	for _, j := range jobs {
		counts[j.Industry]++
	}
	out := make([]job.IndustryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, job.IndustryCount{Industry: name, Jobs: n})
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Jobs != out[k].Jobs {
			return out[i].Jobs > out[k].Jobs
		}
		return out[i].Industry < out[k].Industry
	})
	return out
}
