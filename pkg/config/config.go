package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BARBACK_DB_DSN"
	EnvDBHost = "BARBACK_DB_HOST"
	EnvDBUser = "BARBACK_DB_USER"
	EnvDBName = "BARBACK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Tax          TaxConfig
	Payments     PaymentsConfig
	Tickets      TicketConfig
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
	Env          string `envconfig:"BARBACK_APP_ENV" required:"true"`
	Port         string `envconfig:"BARBACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BARBACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BARBACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BARBACK_DB_DSN"`
	Driver string `envconfig:"BARBACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BARBACK_DB_HOST"`
	LegacyPort     int    `envconfig:"BARBACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BARBACK_DB_USER"`
	LegacyPassword string `envconfig:"BARBACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"BARBACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"BARBACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BARBACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BARBACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BARBACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BARBACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BARBACK_REDIS_URL"`
	Address      string        `envconfig:"BARBACK_REDIS_ADDR"`
	Password     string        `envconfig:"BARBACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"BARBACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BARBACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BARBACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BARBACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BARBACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BARBACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BARBACK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BARBACK_JWT_ISSUER" default:"barback-pos"`
	ExpirationMinutes int    `envconfig:"BARBACK_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TaxConfig holds the organization-wide default; locations may override it.
type TaxConfig struct {
	DefaultRate string `envconfig:"BARBACK_TAX_DEFAULT_RATE" default:"0.08875"`
}

// DefaultRateDecimal parses the configured rate, falling back to 8.875%.
func (t TaxConfig) DefaultRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(t.DefaultRate)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.RequireFromString("0.08875")
	}
	return rate
}

// PaymentsConfig tunes the simulated settlement processors.
type PaymentsConfig struct {
	SimulateLatency    bool          `envconfig:"BARBACK_PAYMENTS_SIMULATE_LATENCY" default:"true"`
	CardLatency        time.Duration `envconfig:"BARBACK_PAYMENTS_CARD_LATENCY" default:"2s"`
	ContactlessLatency time.Duration `envconfig:"BARBACK_PAYMENTS_CONTACTLESS_LATENCY" default:"1500ms"`
	MobileLatency      time.Duration `envconfig:"BARBACK_PAYMENTS_MOBILE_LATENCY" default:"1800ms"`
	SplitLegLatency    time.Duration `envconfig:"BARBACK_PAYMENTS_SPLIT_LEG_LATENCY" default:"1s"`
	RefundLatency      time.Duration `envconfig:"BARBACK_PAYMENTS_REFUND_LATENCY" default:"3s"`
	BusinessName       string        `envconfig:"BARBACK_RECEIPT_BUSINESS_NAME" default:"Barback Pro"`
	BusinessAddress    string        `envconfig:"BARBACK_RECEIPT_BUSINESS_ADDRESS" default:"123 Main Street, City, State 12345"`
}

// TicketConfig controls kitchen ticket routing at order creation.
type TicketConfig struct {
	Routing string `envconfig:"BARBACK_TICKET_ROUTING" default:"auto"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"BARBACK_CRON_INTERVAL" default:"1h"`
	LockKey  string        `envconfig:"BARBACK_CRON_LOCK_KEY" default:"barback:lock:cron"`
	LockTTL  time.Duration `envconfig:"BARBACK_CRON_LOCK_TTL" default:"65m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BARBACK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		db.DSN = "file:barback.db?_fk=1"
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
