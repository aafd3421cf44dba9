package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"PEERLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"PEERLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PEERLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEERLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PEERLINK_DB_DSN"`
	Driver string `envconfig:"PEERLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PEERLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"PEERLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PEERLINK_DB_USER"`
	LegacyPassword string `envconfig:"PEERLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"PEERLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"PEERLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PEERLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PEERLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PEERLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PEERLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a postgres DSN from the discrete legacy variables when no
// DSN was provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" || strings.EqualFold(d.Driver, "sqlite") {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either PEERLINK_DB_DSN or PEERLINK_DB_HOST/USER/NAME must be set")
	}

	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     d.LegacyName,
		RawQuery: "sslmode=" + d.LegacySSLMode,
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PEERLINK_REDIS_URL"`
	Address      string        `envconfig:"PEERLINK_REDIS_ADDR"`
	Password     string        `envconfig:"PEERLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEERLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEERLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEERLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEERLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEERLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEERLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PEERLINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PEERLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PEERLINK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PEERLINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PEERLINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PEERLINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PEERLINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PEERLINK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PEERLINK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"PEERLINK_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PEERLINK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow       time.Duration `envconfig:"PEERLINK_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupIPLimit      int           `envconfig:"PEERLINK_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PEERLINK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PEERLINK_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"PEERLINK_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"PEERLINK_GCP_CREDENTIALS_JSON"`
}

type GCSConfig struct {
	BucketName string `envconfig:"PEERLINK_GCS_BUCKET"`
	PublicHost string `envconfig:"PEERLINK_GCS_PUBLIC_HOST" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `envconfig:"PEERLINK_MEDIA_MAX_UPLOAD_BYTES" default:"5242880"`
}
