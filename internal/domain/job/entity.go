package job

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID             uuid.UUID
	Title          string
	Industry       string
	SourceIndustry string
	Skills         []string
	MatchScore     float64
	EntryLevelWage float64
	AverageWage    float64
}

// Catalog is one parse of the tabular job resource. Generation is stamped by
// the serving store on every swap and is zero until then.
type Catalog struct {
	Skills     []string
	Jobs       []Job
	Source     string
	LoadedAt   time.Time
	Generation uint64
}

func (c Catalog) Empty() bool {
	return len(c.Jobs) == 0 && len(c.Skills) == 0
}

// IndustryCount is a grouping of catalog jobs by industry label.
type IndustryCount struct {
	Industry string
	Jobs     int
}
