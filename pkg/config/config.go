package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Inventory    InventoryConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"INVENTARIO_APP_ENV" required:"true"`
	Port         string `envconfig:"INVENTARIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"INVENTARIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INVENTARIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"INVENTARIO_DB_DSN"`
	Driver string `envconfig:"INVENTARIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INVENTARIO_DB_HOST"`
	LegacyPort     int    `envconfig:"INVENTARIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INVENTARIO_DB_USER"`
	LegacyPassword string `envconfig:"INVENTARIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"INVENTARIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"INVENTARIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INVENTARIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INVENTARIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENTARIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENTARIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"INVENTARIO_REDIS_URL"`
	Address      string        `envconfig:"INVENTARIO_REDIS_ADDR"`
	Password     string        `envconfig:"INVENTARIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"INVENTARIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INVENTARIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INVENTARIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INVENTARIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INVENTARIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INVENTARIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured at all; the replay
// guard middleware is skipped when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type InventoryConfig struct {
	LowStockThreshold int           `envconfig:"INVENTARIO_LOW_STOCK_THRESHOLD" default:"10"`
	IdempotencyTTL    time.Duration `envconfig:"INVENTARIO_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"INVENTARIO_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"INVENTARIO_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
