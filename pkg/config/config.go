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
	JWT          JWTConfig
	Admin        AdminConfig
	Password     PasswordConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	Orders       OrdersConfig
	Stripe       StripeConfig
	Sendgrid     SendgridConfig
	KeepAlive    KeepAliveConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Orders.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SCHOOLLUNCH_APP_ENV" required:"true"`
	Port         string `envconfig:"SCHOOLLUNCH_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"SCHOOLLUNCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCHOOLLUNCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, AppEnvProduction)
}

type DBConfig struct {
	DSN    string `envconfig:"SCHOOLLUNCH_DB_DSN"`
	Driver string `envconfig:"SCHOOLLUNCH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCHOOLLUNCH_DB_HOST"`
	LegacyPort     int    `envconfig:"SCHOOLLUNCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCHOOLLUNCH_DB_USER"`
	LegacyPassword string `envconfig:"SCHOOLLUNCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCHOOLLUNCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCHOOLLUNCH_DB_SSLMODE" default:"require"`

	MaxOpenConns    int           `envconfig:"SCHOOLLUNCH_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SCHOOLLUNCH_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SCHOOLLUNCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCHOOLLUNCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCHOOLLUNCH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SCHOOLLUNCH_REDIS_ADDR"`
	Password     string        `envconfig:"SCHOOLLUNCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCHOOLLUNCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCHOOLLUNCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCHOOLLUNCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCHOOLLUNCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCHOOLLUNCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCHOOLLUNCH_REDIS_WRITE_TIMEOUT" default:"5s"`
	CartTTL      time.Duration `envconfig:"SCHOOLLUNCH_REDIS_CART_TTL" default:"720h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SCHOOLLUNCH_JWT_SECRET"`
	Issuer            string `envconfig:"SCHOOLLUNCH_JWT_ISSUER" default:"naru-sushi"`
	ExpirationMinutes int    `envconfig:"SCHOOLLUNCH_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AdminConfig holds the single admin credential guarding the order views.
type AdminConfig struct {
	Username     string `envconfig:"SCHOOLLUNCH_ADMIN_USERNAME" default:"admin"`
	PasswordHash string `envconfig:"SCHOOLLUNCH_ADMIN_PASSWORD_HASH"`
}

// AuthEnabled reports whether admin routes should require a bearer token.
func (c *Config) AuthEnabled() bool {
	return strings.TrimSpace(c.Admin.PasswordHash) != "" && strings.TrimSpace(c.JWT.Secret) != ""
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SCHOOLLUNCH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SCHOOLLUNCH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SCHOOLLUNCH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SCHOOLLUNCH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SCHOOLLUNCH_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SCHOOLLUNCH_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SCHOOLLUNCH_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	WebhookIdempotencyTTL time.Duration `envconfig:"SCHOOLLUNCH_WEBHOOK_IDEMPOTENCY_TTL" default:"72h"`
}

// OrdersConfig controls order numbering and the delivery cutoff.
type OrdersConfig struct {
	NumberPrefix  string `envconfig:"SCHOOLLUNCH_ORDER_NUMBER_PREFIX" default:"NS"`
	Timezone      string `envconfig:"SCHOOLLUNCH_ORDER_TIMEZONE" default:"Pacific/Auckland"`
	CutoffHour    int    `envconfig:"SCHOOLLUNCH_ORDER_CUTOFF_HOUR" default:"9"`
	EnforceCutoff bool   `envconfig:"SCHOOLLUNCH_ORDER_ENFORCE_CUTOFF" default:"true"`
}

// Location resolves the configured order timezone.
func (o OrdersConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(o.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading order timezone %q: %w", name, err)
	}
	return loc, nil
}

type StripeConfig struct {
	APIKey   string `envconfig:"SCHOOLLUNCH_STRIPE_API_KEY"`
	Secret   string `envconfig:"SCHOOLLUNCH_STRIPE_WEBHOOK_SECRET"`
	Env      string `envconfig:"SCHOOLLUNCH_STRIPE_ENV" default:"test"`
	Currency string `envconfig:"SCHOOLLUNCH_STRIPE_CURRENCY" default:"nzd"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type SendgridConfig struct {
	APIKey      string `envconfig:"SCHOOLLUNCH_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"SCHOOLLUNCH_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"SCHOOLLUNCH_SENDGRID_FROM_NAME" default:"Naru Sushi"`
}

// Enabled reports whether both the API key and sender address are present.
func (s SendgridConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != "" && strings.TrimSpace(s.DefaultFrom) != ""
}

type KeepAliveConfig struct {
	BackendURL string        `envconfig:"SCHOOLLUNCH_BACKEND_URL"`
	Interval   time.Duration `envconfig:"SCHOOLLUNCH_KEEPALIVE_INTERVAL" default:"14m"`
	Timeout    time.Duration `envconfig:"SCHOOLLUNCH_KEEPALIVE_TIMEOUT" default:"10s"`
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
