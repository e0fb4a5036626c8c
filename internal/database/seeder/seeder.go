// Package seeder loads reference data that migrations do not carry.
package seeder

import (
	"context"
	"fmt"
	"log"

	"careerxr/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

func Defaults() []Seeder {
	return []Seeder{ReferenceSkillsSeeder{}}
}

// Runner runs seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("[Seeder] done | name=%s", s.Name())
		}
	}
	return nil
}
