package migration

import (
	"bytes"
	"context"
	"log"
	"testing"
	"testing/fstest"

	"careerxr/internal/database"
	"careerxr/internal/database/dbtest"
	"careerxr/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql":  {Data: []byte("SELECT 10;")},
		"V2__second.sql":  {Data: []byte("  SELECT 2;\n")},
		"V1__first.sql":   {Data: []byte("SELECT 1;")},
		"README.md":       {Data: []byte("not a migration")},
		"V3_bad_name.sql": {Data: []byte("SELECT 3;")},
	}

	migs, err := Runner{FS: fsys}.Load()
	require.NoError(t, err)
	require.Len(t, migs, 3)
	assert.Equal(t, []int64{1, 2, 10}, []int64{migs[0].Version, migs[1].Version, migs[2].Version})
	assert.Equal(t, "second", migs[1].Name)
	assert.Equal(t, "SELECT 2;", migs[1].SQL)
	assert.Len(t, migs[0].Checksum, 64)
}

func TestLoad_Rejects(t *testing.T) {
	_, err := Runner{FS: fstest.MapFS{"V1__a.sql": {Data: []byte("  ")}}}.Load()
	assert.ErrorContains(t, err, "empty migration")

	_, err = Runner{FS: fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 1;")},
	}}.Load()
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestLoad_MissingDir(t *testing.T) {
	migs, err := Runner{Dir: t.TempDir() + "/nope"}.Load()
	require.NoError(t, err)
	assert.Empty(t, migs)
}

func TestPending(t *testing.T) {
	migs, err := Runner{FS: migrations.FS}.Load()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(migs), 2)

	pending := Pending(migs, map[int64]string{1: migs[0].Checksum})
	require.Len(t, pending, len(migs)-1)
	assert.Equal(t, int64(2), pending[0].Version)
}

func TestRun_AppliesPending(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__first.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"V2__second.sql": {Data: []byte("CREATE TABLE b (id INT);")},
	}
	migs, err := Runner{FS: fsys}.Load()
	require.NoError(t, err)

	db := dbtest.New()
	db.Results["SELECT version, checksum FROM schema_migrations"] = [][]any{{int64(1), migs[0].Checksum}}

	var buf bytes.Buffer
	require.NoError(t, Runner{FS: fsys, Logger: log.New(&buf, "", 0)}.Run(context.Background(), db))

	assert.Len(t, db.ExecsMatching("CREATE TABLE a"), 0)
	assert.Len(t, db.ExecsMatching("CREATE TABLE b"), 1)
	assert.Len(t, db.ExecsMatching("pg_advisory_xact_lock"), 1)
	rec := db.ExecsMatching("INSERT INTO schema_migrations")
	require.Len(t, rec, 1)
	assert.Equal(t, []any{int64(2), "second", migs[1].Checksum}, rec[0].Args)
	assert.Equal(t, 1, db.Commits)
	assert.Contains(t, buf.String(), "[Migration] applied | version=2 name=second")
}

func TestRun_ChecksumMismatch(t *testing.T) {
	fsys := fstest.MapFS{"V1__first.sql": {Data: []byte("CREATE TABLE a (id INT);")}}
	db := dbtest.New()
	db.Results["SELECT version, checksum FROM schema_migrations"] = [][]any{{int64(1), "edited"}}

	err := Runner{FS: fsys}.Run(context.Background(), db)
	require.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Empty(t, db.ExecsMatching("CREATE TABLE a"))
}

func TestRun_NilDB(t *testing.T) {
	assert.ErrorIs(t, Runner{FS: migrations.FS}.Run(context.Background(), nil), database.ErrNilDB)
}
