package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "POSIFY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "POSIFY_DB_DSN"
	EnvDBHost = "POSIFY_DB_HOST"
	EnvDBUser = "POSIFY_DB_USER"
	EnvDBName = "POSIFY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Promotions   PromotionsConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POSIFY_APP_ENV" required:"true"`
	Port         string `envconfig:"POSIFY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POSIFY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POSIFY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POSIFY_DB_DSN"`
	Driver string `envconfig:"POSIFY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POSIFY_DB_HOST"`
	LegacyPort     int    `envconfig:"POSIFY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POSIFY_DB_USER"`
	LegacyPassword string `envconfig:"POSIFY_DB_PASSWORD"`
	LegacyName     string `envconfig:"POSIFY_DB_NAME"`
	LegacySSLMode  string `envconfig:"POSIFY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POSIFY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POSIFY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POSIFY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POSIFY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POSIFY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POSIFY_REDIS_ADDR"`
	Password     string        `envconfig:"POSIFY_REDIS_PASSWORD"`
	DB           int           `envconfig:"POSIFY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POSIFY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POSIFY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POSIFY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POSIFY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POSIFY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"POSIFY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"POSIFY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"POSIFY_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PromotionsConfig struct {
	ActiveCacheTTL time.Duration `envconfig:"POSIFY_PROMOTIONS_ACTIVE_CACHE_TTL" default:"30s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"POSIFY_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"POSIFY_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"POSIFY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	var userInfo *url.Userinfo
	if db.LegacyPassword == "" {
		userInfo = url.User(db.LegacyUser)
	} else {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
