package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careerxr/internal/config"
	"careerxr/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DSN builds a libpq keyword/value connection string. Values are quoted so
// passwords may contain spaces or quotes.
func DSN(cfg config.DatabaseConfig) string {
	parts := []struct{ k, v string }{
		{"host", strings.TrimSpace(cfg.DBHost)},
		{"port", strings.TrimSpace(cfg.DBPort)},
		{"user", strings.TrimSpace(cfg.DBUser)},
		{"password", cfg.DBPassword},
		{"dbname", strings.TrimSpace(cfg.DBName)},
		{"sslmode", strings.TrimSpace(cfg.DBSSLMode)},
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.v == "" {
			continue
		}
		out = append(out, p.k+"="+quoteDSNValue(p.v))
	}
	return strings.Join(out, " ")
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = cfg.PoolMaxConns
	}
	if cfg.PoolMinConns > 0 {
		pcfg.MinConns = cfg.PoolMinConns
	}
	for _, d := range []struct {
		v   time.Duration
		dst *time.Duration
	}{
		{cfg.PoolMaxConnLifetime, &pcfg.MaxConnLifetime},
		{cfg.PoolMaxConnIdleTime, &pcfg.MaxConnIdleTime},
		{cfg.PoolHealthCheckPeriod, &pcfg.HealthCheckPeriod},
	} {
		if d.v > 0 {
			*d.dst = d.v
		}
	}
	return pcfg, nil
}

// Connect opens a pool and pings it once. ctx bounds the ping; without a
// deadline the ping gets five seconds.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: DB_HOST not set", database.ErrNilDB)
	}
	pcfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", pcfg.ConnConfig.Host, err)
	}

	return &Pool{conn: conn{q: pool}, pool: pool}, nil
}

// querier is the subset of pgx shared by a pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type conn struct {
	q querier
}

func (c conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := c.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// pgx.Rows already satisfies database.Rows.
func (c conn) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return c.q.Query(ctx, query, args...)
}

func (c conn) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return c.q.QueryRow(ctx, query, args...)
}

type Pool struct {
	conn
	pool *pgxpool.Pool
}

func (p *Pool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Pool) Close() error {
	p.pool.Close()
	return nil
}

func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &poolTx{conn: conn{q: tx}, tx: tx}, nil
}

type poolTx struct {
	conn
	tx pgx.Tx
}

func (t *poolTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *poolTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
