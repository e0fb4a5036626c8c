package seeder

import (
	"context"
	"errors"
	"testing"

	"careerxr/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withColumns(db *dbtest.FakeDB, cols ...string) {
	rows := make([][]any, 0, len(cols))
	for _, c := range cols {
		rows = append(rows, []any{c})
	}
	db.Results["information_schema.columns"] = rows
}

func TestReferenceSkillsSeeder(t *testing.T) {
	db := dbtest.New()
	withColumns(db, "industry", "name", "created_at")

	s := ReferenceSkillsSeeder{Skills: map[string][]string{
		"Healthcare":             {"Patient Care"},
		"Information Technology": {"Java", "SQL"},
	}}
	require.NoError(t, Runner{Seeders: []Seeder{s}}.Run(context.Background(), db))

	calls := db.ExecsMatching("INSERT INTO reference_skills")
	require.Len(t, calls, 3)
	assert.Equal(t, []any{"Healthcare", "Patient Care"}, calls[0].Args)
	assert.Equal(t, []any{"Information Technology", "Java"}, calls[1].Args)
	assert.Equal(t, 1, db.Commits)
}

func TestReferenceSkillsSeeder_SchemaMismatch(t *testing.T) {
	db := dbtest.New()
	withColumns(db, "industry")

	err := Runner{Seeders: Defaults()}.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed reference_skills")
	assert.Contains(t, err.Error(), "missing column reference_skills.name")
}

func TestReferenceSkillsSeeder_RollsBackOnError(t *testing.T) {
	db := dbtest.New()
	withColumns(db, "industry", "name", "created_at")
	db.ExecErr["INSERT INTO reference_skills"] = errors.New("boom")

	err := ReferenceSkillsSeeder{}.Run(context.Background(), db)
	assert.EqualError(t, err, "boom")
	assert.Zero(t, db.Commits)
	assert.Equal(t, 1, db.Rollbacks)
}
