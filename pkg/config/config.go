package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "hireloop"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "HIRELOOP_DB_DSN"
	EnvDBHost = "HIRELOOP_DB_HOST"
	EnvDBUser = "HIRELOOP_DB_USER"
	EnvDBName = "HIRELOOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Ledger LedgerConfig
	Flags  FeatureFlagsConfig
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
	Env          string `envconfig:"HIRELOOP_APP_ENV" required:"true"`
	Port         string `envconfig:"HIRELOOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HIRELOOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HIRELOOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HIRELOOP_DB_DSN"`
	Driver string `envconfig:"HIRELOOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HIRELOOP_DB_HOST"`
	LegacyPort     int    `envconfig:"HIRELOOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HIRELOOP_DB_USER"`
	LegacyPassword string `envconfig:"HIRELOOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"HIRELOOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"HIRELOOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HIRELOOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HIRELOOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HIRELOOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HIRELOOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	TxTimeout       time.Duration `envconfig:"HIRELOOP_DB_TX_TIMEOUT" default:"5s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HIRELOOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HIRELOOP_REDIS_ADDR"`
	Password     string        `envconfig:"HIRELOOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"HIRELOOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HIRELOOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HIRELOOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HIRELOOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HIRELOOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HIRELOOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HIRELOOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HIRELOOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HIRELOOP_JWT_EXPIRATION_MINUTES" default:"60"`
}

// LedgerConfig tunes the entitlement ledger behavior.
type LedgerConfig struct {
	// RefundGraceWindow is measured from the batch expiration date.
	RefundGraceWindow time.Duration `envconfig:"HIRELOOP_LEDGER_REFUND_GRACE_WINDOW" default:"168h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HIRELOOP_AUTO_MIGRATE" default:"false"`
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

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
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
