package seeder

import (
	"context"
	"sort"

	"careerxr/internal/database"
	"careerxr/internal/domain/industry"
)

// ReferenceSkillsSeeder loads the per-industry reference skill lists.
type ReferenceSkillsSeeder struct {
	Skills map[string][]string
}

func (ReferenceSkillsSeeder) Name() string { return "reference_skills" }

func (s ReferenceSkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "reference_skills", "industry", "name", "created_at"); err != nil {
		return err
	}

	src := s.Skills
	if src == nil {
		src = industry.ReferenceSkills
	}
	industries := make([]string, 0, len(src))
	for name := range src {
		industries = append(industries, name)
	}
	sort.Strings(industries)

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, ind := range industries {
			for _, skill := range src[ind] {
				if _, err := tx.Exec(
					ctx,
					`INSERT INTO reference_skills (industry, name) VALUES ($1, $2) ON CONFLICT (industry, name) DO NOTHING`,
					ind,
					skill,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
