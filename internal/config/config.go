package config

import (
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`      // サーバーポート
	GoEnv    string `envconfig:"GO_ENV" default:"dev"`     // dev/prod
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug/info/warn/error

	//postgres（backendのDB）。DATABASE_URLがあれば最優先
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"postgres"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	JWTSecret string `envconfig:"JWT_SECRET"` // backendのaccess token署名シークレット

	BackendDriver  string `envconfig:"BACKEND_DRIVER" default:"postgres"`  // postgres/memory
	RealtimeDriver string `envconfig:"REALTIME_DRIVER" default:"postgres"` // postgres/redis/memory（redis,memoryはmemory backendのみ）

	RealtimeChannel    string `envconfig:"REALTIME_CHANNEL" default:"shipment_changes"` // LISTENするチャンネル
	RedisAddr          string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword      string `envconfig:"REDIS_PASSWORD"`
	RedisChannelPrefix string `envconfig:"REDIS_CHANNEL_PREFIX" default:"shipment:"`

	FEURL        string `envconfig:"FE_URL" default:"http://localhost:5173"` // CORS
	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"true"`

	//memory backendで管理者にするuser id（devのみ）
	DevAdminUserID string `envconfig:"DEV_ADMIN_USER_ID"`
}

// Loadは環境変数から読む（.envはmainで先に読み込む）
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	//必須チェック
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.BackendDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("BACKEND_DRIVER must be postgres or memory: %q", c.BackendDriver)
	}
	switch c.RealtimeDriver {
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("REALTIME_DRIVER must be postgres, redis or memory: %q", c.RealtimeDriver)
	}
	//memoryのbackendにpostgresの通知は届かない
	if c.BackendDriver == DriverMemory && c.RealtimeDriver == DriverPostgres {
		return fmt.Errorf("REALTIME_DRIVER=postgres needs BACKEND_DRIVER=postgres")
	}
	//postgres backendの変更はLISTENでしか受け取れない（redisへ流すものがない）
	if c.BackendDriver == DriverPostgres && c.RealtimeDriver != DriverPostgres {
		return fmt.Errorf("REALTIME_DRIVER=%s needs BACKEND_DRIVER=memory", c.RealtimeDriver)
	}
	if c.PostgresPort <= 0 {
		return fmt.Errorf("POSTGRES_PORT must be positive")
	}
	return nil
}

func (c Config) IsDev() bool { return c.GoEnv == "dev" }

// gormとpgxの両方で使える接続文字列
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: url.Values{"sslmode": []string{c.PostgresSSLMode}}.Encode(),
	}
	return u.String()
}
