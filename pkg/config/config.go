package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RECIPEAPP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "RECIPEAPP_APP_ENV"
	EnvAppPort   = "RECIPEAPP_APP_PORT"
	EnvAppURL    = "RECIPEAPP_APP_URL"
	EnvDBDSN     = "RECIPEAPP_DB_DSN"
	EnvDBHost    = "RECIPEAPP_DB_HOST"
	EnvDBUser    = "RECIPEAPP_DB_USER"
	EnvDBName    = "RECIPEAPP_DB_NAME"
	EnvJWTSecret = "RECIPEAPP_JWT_SECRET"
	EnvJWTIssuer = "RECIPEAPP_JWT_ISSUER"
	EnvJWTExp    = "RECIPEAPP_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"RECIPEAPP_APP_ENV" required:"true"`
	Port         string `envconfig:"RECIPEAPP_APP_PORT" required:"true"`
	URL          string `envconfig:"RECIPEAPP_APP_URL" default:""`
	LogLevel     string `envconfig:"RECIPEAPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RECIPEAPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BaseURL returns the public URL used to build absolute upload links,
// without a trailing slash.
func (a AppConfig) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(a.URL), "/")
}

type DBConfig struct {
	DSN    string `envconfig:"RECIPEAPP_DB_DSN"`
	Driver string `envconfig:"RECIPEAPP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RECIPEAPP_DB_HOST"`
	LegacyPort     int    `envconfig:"RECIPEAPP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RECIPEAPP_DB_USER"`
	LegacyPassword string `envconfig:"RECIPEAPP_DB_PASSWORD"`
	LegacyName     string `envconfig:"RECIPEAPP_DB_NAME"`
	LegacySSLMode  string `envconfig:"RECIPEAPP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RECIPEAPP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RECIPEAPP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RECIPEAPP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RECIPEAPP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RECIPEAPP_REDIS_URL"`
	Address      string        `envconfig:"RECIPEAPP_REDIS_ADDR"`
	Password     string        `envconfig:"RECIPEAPP_REDIS_PASSWORD"`
	DB           int           `envconfig:"RECIPEAPP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RECIPEAPP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RECIPEAPP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RECIPEAPP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RECIPEAPP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RECIPEAPP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"RECIPEAPP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RECIPEAPP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RECIPEAPP_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RECIPEAPP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RECIPEAPP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RECIPEAPP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RECIPEAPP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RECIPEAPP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RECIPEAPP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RECIPEAPP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RECIPEAPP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RECIPEAPP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RECIPEAPP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RECIPEAPP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	Dir string `envconfig:"RECIPEAPP_UPLOADS_DIR" default:"public/uploads"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RECIPEAPP_AUTO_MIGRATE" default:"false"`
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
