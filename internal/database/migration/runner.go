// Package migration applies versioned SQL files named V<version>__<name>.sql.
package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"careerxr/internal/database"

	"github.com/jackc/pgx/v5"
)

// lockKey serializes runners across instances for the length of one
// migration transaction.
const lockKey int64 = 746295114

var (
	ErrChecksumMismatch = errors.New("migration checksum mismatch")

	fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)
)

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// Runner reads migrations from FS, or from the directory Dir when FS is nil.
type Runner struct {
	FS     fs.FS
	Dir    string
	Logger *log.Logger
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// Run applies pending migrations, each in its own transaction. An edited
// migration that was already applied stops the run before anything changes.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	migs, err := r.Load()
	if err != nil || len(migs) == 0 {
		return err
	}

	if _, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedChecksums(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range migs {
		if sum, ok := applied[m.Version]; ok && sum != m.Checksum {
			return fmt.Errorf("%w: version=%d name=%s", ErrChecksumMismatch, m.Version, m.Name)
		}
	}

	for _, m := range Pending(migs, applied) {
		done, err := apply(ctx, db, m)
		if err != nil {
			return err
		}
		if done {
			r.logf("[Migration] applied | version=%d name=%s", m.Version, m.Name)
		}
	}
	return nil
}

// apply reports false when another instance applied m while this one waited
// for the lock.
func apply(ctx context.Context, db database.DB, m Migration) (bool, error) {
	applied := false
	err := database.InTx(ctx, db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
			return fmt.Errorf("lock: %w", err)
		}

		var sum string
		err := tx.QueryRow(ctx, `SELECT checksum FROM schema_migrations WHERE version = $1`, m.Version).Scan(&sum)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, pgx.ErrNoRows):
			return err
		}

		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply %s: %w", m.Filename, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
			m.Version, m.Name, m.Checksum,
		); err != nil {
			return fmt.Errorf("record %s: %w", m.Filename, err)
		}
		applied = true
		return nil
	})
	return applied, err
}

func appliedChecksums(ctx context.Context, db database.DB) (map[int64]string, error) {
	rows, err := db.Query(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var v int64
		var sum string
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		out[v] = sum
	}
	return out, rows.Err()
}

// Load reads and orders the migration files without touching the database. A
// missing directory yields no migrations.
func (r Runner) Load() ([]Migration, error) {
	fsys := r.FS
	if fsys == nil {
		if strings.TrimSpace(r.Dir) == "" {
			return nil, errors.New("migration: neither FS nor Dir set")
		}
		fsys = os.DirFS(r.Dir)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		m := fileRe.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		mig, err := readMigration(fsys, e.Name(), m[1], m[2])
		if err != nil {
			return nil, err
		}
		migs = append(migs, mig)
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version: %d", migs[i].Version)
		}
	}
	return migs, nil
}

func readMigration(fsys fs.FS, file, version, name string) (Migration, error) {
	v, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return Migration{}, fmt.Errorf("invalid migration version: %s", file)
	}
	b, err := fs.ReadFile(fsys, file)
	if err != nil {
		return Migration{}, err
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return Migration{}, fmt.Errorf("empty migration file: %s", file)
	}
	sum := sha256.Sum256([]byte(text))
	return Migration{Version: v, Name: name, Filename: file, SQL: text, Checksum: hex.EncodeToString(sum[:])}, nil
}

// Pending returns migrations not yet recorded, in order.
func Pending(migs []Migration, applied map[int64]string) []Migration {
	out := make([]Migration, 0, len(migs))
	for _, m := range migs {
		if _, ok := applied[m.Version]; !ok {
			out = append(out, m)
		}
	}
	return out
}
