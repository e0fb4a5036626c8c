package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Catalog   CatalogConfig
	Recommend RecommendConfig
	Scene     SceneConfig
	Auth      AuthConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

// Enabled reports whether a Postgres host was configured. Without it the
// service runs on the in-memory catalog only.
func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.DBHost) != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type CatalogConfig struct {
	Source           string
	UserAgent        string
	FetchTimeout     time.Duration
	MaxBodyBytes     int
	CatchAllIndustry string
}

type RecommendConfig struct {
	Mode          string
	Threshold     float64
	MinSelected   int
	MaxSelected   int
	AdvancedSkill string
}

type SceneConfig struct {
	LayoutDir       string
	TickRate        int
	SnapshotEvery   int
	MaxSessions     int
	IdleTimeout     time.Duration
	InputRatePerSec float64
	InputBurst      int
}

type AuthConfig struct {
	SessionSecret  string
	SessionTTL     time.Duration
	AdminKeyHash   string
	AllowedOrigins []string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

type envReader struct {
	missing []string
	invalid []string
}

func (e *envReader) req(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		e.missing = append(e.missing, key)
	}
	return v
}

func (e *envReader) opt(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (e *envReader) optDefault(key, def string) string {
	if v := e.opt(key); v != "" {
		return v
	}
	return def
}

func (e *envReader) optInt(key string, def int) int {
	raw := e.opt(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.invalid = append(e.invalid, key)
		return def
	}
	return v
}

func (e *envReader) optFloat(key string, def float64) float64 {
	raw := e.opt(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.invalid = append(e.invalid, key)
		return def
	}
	return v
}

func (e *envReader) optDuration(key string, def time.Duration) time.Duration {
	raw := e.opt(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.invalid = append(e.invalid, key)
		return def
	}
	return v
}

func (e *envReader) err() error {
	if len(e.missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(e.missing, ", "))
	}
	if len(e.invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(e.invalid, ", "))
	}
	return nil
}

func Load() (Config, error) {
	cfg := Config{}

	env := &envReader{}
	req, opt, optDefault := env.req, env.opt, env.optDefault
	optInt, optFloat, optDuration := env.optInt, env.optFloat, env.optDuration

	cfg.App = AppConfig{
		AppName:     optDefault("APP_NAME", "careerxr"),
		Environment: optDefault("APP_ENV", "development"),
		HTTPPort:    optDefault("HTTP_PORT", "8080"),
	}

	cfg.Database = loadDatabase(env)

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL", 10*time.Minute),
	}

	cfg.NATS = NATSConfig{
		URL:           opt("NATS_URL"),
		SubjectPrefix: optDefault("NATS_SUBJECT_PREFIX", "careerxr"),
	}

	cfg.Catalog = CatalogConfig{
		Source:           req("CATALOG_SOURCE"),
		UserAgent:        optDefault("CATALOG_USER_AGENT", "careerxr-catalog/1.0"),
		FetchTimeout:     optDuration("CATALOG_FETCH_TIMEOUT", 10*time.Second),
		MaxBodyBytes:     optInt("CATALOG_MAX_BODY_BYTES", 0),
		CatchAllIndustry: optDefault("CATALOG_CATCH_ALL_INDUSTRY", "Other"),
	}

	cfg.Recommend = RecommendConfig{
		Mode:          optDefault("RECOMMEND_MODE", "ratio"),
		Threshold:     optFloat("RECOMMEND_THRESHOLD", 0.6),
		MinSelected:   optInt("RECOMMEND_MIN_SELECTED", 1),
		MaxSelected:   optInt("RECOMMEND_MAX_SELECTED", 5),
		AdvancedSkill: optDefault("RECOMMEND_ADVANCED_SKILL", "Advanced Skills"),
	}

	cfg.Scene = SceneConfig{
		LayoutDir:       opt("SCENE_LAYOUT_DIR"),
		TickRate:        optInt("SCENE_TICK_RATE", 60),
		SnapshotEvery:   optInt("SCENE_SNAPSHOT_EVERY", 2),
		MaxSessions:     optInt("SCENE_MAX_SESSIONS", 64),
		IdleTimeout:     optDuration("SCENE_IDLE_TIMEOUT", 5*time.Minute),
		InputRatePerSec: optFloat("SCENE_INPUT_RATE", 240),
		InputBurst:      optInt("SCENE_INPUT_BURST", 60),
	}

	cfg.Auth = AuthConfig{
		SessionSecret:  req("SCENE_SESSION_SECRET"),
		SessionTTL:     optDuration("SCENE_SESSION_TTL", 30*time.Minute),
		AdminKeyHash:   opt("ADMIN_KEY_HASH"),
		AllowedOrigins: splitList(opt("WS_ALLOWED_ORIGINS")),
	}

	if err := env.err(); err != nil {
		return Config{}, err
	}

	if cfg.Scene.TickRate <= 0 {
		return Config{}, fmt.Errorf("%w: SCENE_TICK_RATE must be positive", errInvalidEnv)
	}
	if cfg.Catalog.MaxBodyBytes < 0 {
		return Config{}, fmt.Errorf("%w: CATALOG_MAX_BODY_BYTES must not be negative", errInvalidEnv)
	}
	if cfg.Recommend.MinSelected > cfg.Recommend.MaxSelected {
		return Config{}, fmt.Errorf("%w: RECOMMEND_MIN_SELECTED exceeds RECOMMEND_MAX_SELECTED", errInvalidEnv)
	}

	return cfg, nil
}

// LoadDatabase reads only the Postgres settings, for tools that need nothing
// else. DB_HOST is required here.
func LoadDatabase() (DatabaseConfig, error) {
	env := &envReader{}
	env.req("DB_HOST")
	cfg := loadDatabase(env)
	if err := env.err(); err != nil {
		return DatabaseConfig{}, err
	}
	return cfg, nil
}

func loadDatabase(env *envReader) DatabaseConfig {
	return DatabaseConfig{
		DBHost:                env.opt("DB_HOST"),
		DBPort:                env.optDefault("DB_PORT", "5432"),
		DBName:                env.opt("DB_NAME"),
		DBUser:                env.opt("DB_USER"),
		DBPassword:            env.opt("DB_PASSWORD"),
		DBSSLMode:             env.optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        env.optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(env.optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(env.optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   env.optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   env.optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: env.optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
