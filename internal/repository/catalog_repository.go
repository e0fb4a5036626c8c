package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"careerxr/internal/database"
	"careerxr/internal/domain/job"
	"careerxr/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCatalogNotFound = errors.New("catalog not found")

// CatalogRepository persists the last imported catalog so a restart can serve
// it when the source is unreachable.
type CatalogRepository interface {
	SaveCatalog(ctx context.Context, cat job.Catalog) error
	LoadCatalog(ctx context.Context) (job.Catalog, error)
	ReferenceSkills(ctx context.Context, industry string) ([]string, error)
}

type PostgresCatalogRepository struct {
	db database.DB
}

func NewPostgresCatalogRepository(db database.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) SaveCatalog(ctx context.Context, cat job.Catalog) error {
	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		for _, q := range []string{`DELETE FROM job_skills`, `DELETE FROM jobs`, `DELETE FROM catalog_skills`} {
			if _, err := tx.Exec(ctx, q); err != nil {
				return err
			}
		}

		// Same uniqueness as the parser, so a restore serves exactly the
		// labels that were saved.
		set := skill.NewSet()
		for _, s := range cat.Skills {
			set.Add(s)
		}
		for pos, s := range set.Items() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO catalog_skills (position, name, normalized_name) VALUES ($1, $2, $3)`,
				pos, s, skill.Normalize(s),
			); err != nil {
				return err
			}
		}

		for i, j := range cat.Jobs {
			id := j.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (id, position, title, industry, source_industry, match_score, entry_level_wage, average_wage)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				id, i, j.Title, j.Industry, j.SourceIndustry, j.MatchScore, j.EntryLevelWage, j.AverageWage,
			); err != nil {
				return err
			}
			for k, s := range j.Skills {
				if _, err := tx.Exec(ctx,
					`INSERT INTO job_skills (job_id, position, skill) VALUES ($1, $2, $3)`,
					id, k, s,
				); err != nil {
					return err
				}
			}
		}

		loadedAt := cat.LoadedAt
		if loadedAt.IsZero() {
			loadedAt = time.Now()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO catalog_imports (id, source, skills_count, jobs_count, imported_at) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), cat.Source, set.Len(), len(cat.Jobs), loadedAt.UTC(),
		)
		return err
	})
}

func (r *PostgresCatalogRepository) LoadCatalog(ctx context.Context) (job.Catalog, error) {
	var cat job.Catalog
	row := r.db.QueryRow(ctx, `SELECT source, imported_at FROM catalog_imports ORDER BY imported_at DESC LIMIT 1`)
	if err := row.Scan(&cat.Source, &cat.LoadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return job.Catalog{}, ErrCatalogNotFound
		}
		return job.Catalog{}, err
	}

	skills, err := r.queryStrings(ctx, `SELECT name FROM catalog_skills ORDER BY position ASC`)
	if err != nil {
		return job.Catalog{}, err
	}
	cat.Skills = skills

	rows, err := r.db.Query(ctx,
		`SELECT id, title, industry, source_industry, match_score, entry_level_wage, average_wage
		 FROM jobs
		 ORDER BY position ASC`,
	)
	if err != nil {
		return job.Catalog{}, err
	}
	defer rows.Close()

	cat.Jobs = make([]job.Job, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Industry, &j.SourceIndustry, &j.MatchScore, &j.EntryLevelWage, &j.AverageWage); err != nil {
			return job.Catalog{}, err
		}
		j.Skills = []string{}
		index[j.ID] = len(cat.Jobs)
		cat.Jobs = append(cat.Jobs, j)
	}
	if err := rows.Err(); err != nil {
		return job.Catalog{}, err
	}

	srows, err := r.db.Query(ctx, `SELECT job_id, skill FROM job_skills ORDER BY job_id, position ASC`)
	if err != nil {
		return job.Catalog{}, err
	}
	defer srows.Close()
	for srows.Next() {
		var id uuid.UUID
		var s string
		if err := srows.Scan(&id, &s); err != nil {
			return job.Catalog{}, err
		}
		if i, ok := index[id]; ok {
			cat.Jobs[i].Skills = append(cat.Jobs[i].Skills, s)
		}
	}
	if err := srows.Err(); err != nil {
		return job.Catalog{}, err
	}

	return cat, nil
}

func (r *PostgresCatalogRepository) ReferenceSkills(ctx context.Context, industry string) ([]string, error) {
	return r.queryStrings(ctx, `SELECT name FROM reference_skills WHERE lower(industry) = lower($1) ORDER BY name ASC`, industry)
}

func (r *PostgresCatalogRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MemoryCatalogRepository keeps the catalog in process. It is used when no
// database is configured.
type MemoryCatalogRepository struct {
	mu        sync.RWMutex
	cat       job.Catalog
	saved     bool
	reference map[string][]string
}

func NewMemoryCatalogRepository(reference map[string][]string) *MemoryCatalogRepository {
	return &MemoryCatalogRepository{reference: reference}
}

func (r *MemoryCatalogRepository) SaveCatalog(_ context.Context, cat job.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cat = cat
	r.saved = true
	return nil
}

func (r *MemoryCatalogRepository) LoadCatalog(context.Context) (job.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.saved {
		return job.Catalog{}, ErrCatalogNotFound
	}
	return r.cat, nil
}

func (r *MemoryCatalogRepository) ReferenceSkills(_ context.Context, industry string) ([]string, error) {
	for name, skills := range r.reference {
		if strings.EqualFold(name, strings.TrimSpace(industry)) {
			out := make([]string, len(skills))
			copy(out, skills)
			sort.Strings(out)
			return out, nil
		}
	}
	return []string{}, nil
}
