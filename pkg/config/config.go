package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "NUVANA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "NUVANA_APP_ENV"
	EnvPort       = "NUVANA_APP_PORT"
	EnvDBDSN      = "NUVANA_DB_DSN"
	EnvDBHost     = "NUVANA_DB_HOST"
	EnvDBUser     = "NUVANA_DB_USER"
	EnvDBName     = "NUVANA_DB_NAME"
	EnvRedisURL   = "NUVANA_REDIS_URL"
	EnvJWTSecret  = "NUVANA_JWT_SECRET"
	EnvJWTIssuer  = "NUVANA_JWT_ISSUER"
	EnvJWTExpMins = "NUVANA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Pin           PinConfig
	AuthRateLimit AuthRateLimitConfig
	Lottery       LotteryConfig
	Sync          SyncConfig
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
	Env          string `envconfig:"NUVANA_APP_ENV" required:"true"`
	Port         string `envconfig:"NUVANA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NUVANA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NUVANA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NUVANA_DB_DSN"`
	Driver string `envconfig:"NUVANA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NUVANA_DB_HOST"`
	LegacyPort     int    `envconfig:"NUVANA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NUVANA_DB_USER"`
	LegacyPassword string `envconfig:"NUVANA_DB_PASSWORD"`
	LegacyName     string `envconfig:"NUVANA_DB_NAME"`
	LegacySSLMode  string `envconfig:"NUVANA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NUVANA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NUVANA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NUVANA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NUVANA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NUVANA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NUVANA_REDIS_ADDR"`
	Password     string        `envconfig:"NUVANA_REDIS_PASSWORD"`
	DB           int           `envconfig:"NUVANA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NUVANA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NUVANA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NUVANA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NUVANA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NUVANA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"NUVANA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"NUVANA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"NUVANA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"NUVANA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NUVANA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NUVANA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"NUVANA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"NUVANA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NUVANA_ARGON_KEY_LEN" default:"32"`
}

// PinConfig governs cashier PIN policy and hashing cost.
type PinConfig struct {
	MinLength  int `envconfig:"NUVANA_PIN_MIN_LENGTH" default:"4"`
	MaxLength  int `envconfig:"NUVANA_PIN_MAX_LENGTH" default:"6"`
	BcryptCost int `envconfig:"NUVANA_PIN_BCRYPT_COST" default:"10"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"NUVANA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"NUVANA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"NUVANA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	PinWindow       time.Duration `envconfig:"NUVANA_AUTH_RATE_LIMIT_PIN_WINDOW" default:"1m"`
	PinLimit        int           `envconfig:"NUVANA_AUTH_RATE_LIMIT_PIN_LIMIT" default:"10"`
}

// LotteryConfig bounds the bin reconciliation engine.
type LotteryConfig struct {
	MaxBinCount int           `envconfig:"NUVANA_LOTTERY_MAX_BIN_COUNT" default:"200"`
	TxTimeout   time.Duration `envconfig:"NUVANA_LOTTERY_TX_TIMEOUT" default:"30s"`
}

// SyncConfig tunes the terminal sync surface.
type SyncConfig struct {
	MaxBatchSize  int           `envconfig:"NUVANA_SYNC_MAX_BATCH_SIZE" default:"500"`
	APIKeyTTL     time.Duration `envconfig:"NUVANA_SYNC_API_KEY_TTL" default:"8760h"`
	CursorMaxSkew time.Duration `envconfig:"NUVANA_SYNC_CURSOR_MAX_SKEW" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NUVANA_AUTO_MIGRATE" default:"false"`
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
