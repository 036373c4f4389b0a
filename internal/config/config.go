package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Gateway   GatewayConfig
	RateLimit RateLimitConfig
	Renderer  RendererConfig
	Fetch     FetchConfig
	Storage   StorageConfig
	Mail      MailConfig
	Batch     BatchConfig
	Jobs      JobsConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	LogLevel  string
	ApiDomain string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

// GatewayConfig controls whether the API trusts identity headers set
// by a reverse proxy running ForwardAuth instead of checking tokens
// itself.
type GatewayConfig struct {
	Enabled bool
}

type RateLimitConfig struct {
	ConvertPerHour int
}

type RendererConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        int // seconds, per conversion call
	DelayMs        int // wait after page load before printing
	ViewportWidth  int
	ViewportHeight int
}

type FetchConfig struct {
	Timeout int // seconds, total transfer time per artifact
}

type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	LinkExpiryHours int
}

type MailConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	MaxAttachmentMB int
}

type BatchConfig struct {
	Size         int
	PauseSeconds int
}

type JobsConfig struct {
	StagingDir     string
	RetentionHours int
	SweepMinutes   int
}

func Load() (*Config, error) {
	// Local development convenience; real deployments set env vars directly
	_ = godotenv.Load()

	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")
	readSecret("RENDERER_API_KEY")
	readSecret("S3_ACCESS_KEY_ID")
	readSecret("S3_SECRET_ACCESS_KEY")
	readSecret("SMTP_PASSWORD")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("server.api_domain", "API_DOMAIN")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("gateway.enabled", "GATEWAY_ENABLED")
	_ = viper.BindEnv("ratelimit.convert_per_hour", "RATELIMIT_CONVERT_PER_HOUR")
	_ = viper.BindEnv("renderer.base_url", "RENDERER_BASE_URL")
	_ = viper.BindEnv("renderer.api_key", "RENDERER_API_KEY")
	_ = viper.BindEnv("renderer.timeout", "RENDERER_TIMEOUT")
	_ = viper.BindEnv("renderer.delay_ms", "RENDERER_DELAY_MS")
	_ = viper.BindEnv("renderer.viewport_width", "RENDERER_VIEWPORT_WIDTH")
	_ = viper.BindEnv("renderer.viewport_height", "RENDERER_VIEWPORT_HEIGHT")
	_ = viper.BindEnv("fetch.timeout", "FETCH_TIMEOUT")
	_ = viper.BindEnv("storage.endpoint", "S3_ENDPOINT")
	_ = viper.BindEnv("storage.region", "S3_REGION")
	_ = viper.BindEnv("storage.access_key_id", "S3_ACCESS_KEY_ID")
	_ = viper.BindEnv("storage.secret_access_key", "S3_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("storage.bucket_name", "S3_BUCKET_NAME")
	_ = viper.BindEnv("storage.public_url", "S3_PUBLIC_URL")
	_ = viper.BindEnv("storage.link_expiry_hours", "SHARE_LINK_EXPIRY_HOURS")
	_ = viper.BindEnv("mail.host", "SMTP_HOST")
	_ = viper.BindEnv("mail.port", "SMTP_PORT")
	_ = viper.BindEnv("mail.username", "SMTP_USERNAME")
	_ = viper.BindEnv("mail.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("mail.from", "MAIL_FROM")
	_ = viper.BindEnv("mail.max_attachment_mb", "MAIL_MAX_ATTACHMENT_MB")
	_ = viper.BindEnv("batch.size", "BATCH_SIZE")
	_ = viper.BindEnv("batch.pause_seconds", "BATCH_PAUSE_SECONDS")
	_ = viper.BindEnv("jobs.staging_dir", "STAGING_DIR")
	_ = viper.BindEnv("jobs.retention_hours", "JOB_RETENTION_HOURS")
	_ = viper.BindEnv("jobs.sweep_minutes", "JOB_SWEEP_MINUTES")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("gateway.enabled", false)
	viper.SetDefault("ratelimit.convert_per_hour", 20)

	// Renderer defaults
	viper.SetDefault("renderer.base_url", "http://localhost:3000")
	viper.SetDefault("renderer.timeout", 60)
	viper.SetDefault("renderer.delay_ms", 3000)
	viper.SetDefault("renderer.viewport_width", 1920)
	viper.SetDefault("renderer.viewport_height", 1080)

	// Fetch defaults
	viper.SetDefault("fetch.timeout", 120)

	// Storage defaults
	viper.SetDefault("storage.region", "auto")
	viper.SetDefault("storage.link_expiry_hours", 72)

	// Mail defaults
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("mail.max_attachment_mb", 25)

	// Pipeline defaults
	viper.SetDefault("batch.size", 5)
	viper.SetDefault("batch.pause_seconds", 2)
	viper.SetDefault("jobs.staging_dir", "staging")
	viper.SetDefault("jobs.retention_hours", 24)
	viper.SetDefault("jobs.sweep_minutes", 10)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetString("server.port"),
			Env:       viper.GetString("server.env"),
			LogLevel:  viper.GetString("server.log_level"),
			ApiDomain: viper.GetString("server.api_domain"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		Gateway: GatewayConfig{
			Enabled: viper.GetBool("gateway.enabled"),
		},
		RateLimit: RateLimitConfig{
			ConvertPerHour: viper.GetInt("ratelimit.convert_per_hour"),
		},
		Renderer: RendererConfig{
			BaseURL:        viper.GetString("renderer.base_url"),
			APIKey:         viper.GetString("renderer.api_key"),
			Timeout:        viper.GetInt("renderer.timeout"),
			DelayMs:        viper.GetInt("renderer.delay_ms"),
			ViewportWidth:  viper.GetInt("renderer.viewport_width"),
			ViewportHeight: viper.GetInt("renderer.viewport_height"),
		},
		Fetch: FetchConfig{
			Timeout: viper.GetInt("fetch.timeout"),
		},
		Storage: StorageConfig{
			Endpoint:        viper.GetString("storage.endpoint"),
			Region:          viper.GetString("storage.region"),
			AccessKeyID:     viper.GetString("storage.access_key_id"),
			SecretAccessKey: viper.GetString("storage.secret_access_key"),
			BucketName:      viper.GetString("storage.bucket_name"),
			PublicURL:       viper.GetString("storage.public_url"),
			LinkExpiryHours: viper.GetInt("storage.link_expiry_hours"),
		},
		Mail: MailConfig{
			Host:            viper.GetString("mail.host"),
			Port:            viper.GetInt("mail.port"),
			Username:        viper.GetString("mail.username"),
			Password:        viper.GetString("mail.password"),
			From:            viper.GetString("mail.from"),
			MaxAttachmentMB: viper.GetInt("mail.max_attachment_mb"),
		},
		Batch: BatchConfig{
			Size:         viper.GetInt("batch.size"),
			PauseSeconds: viper.GetInt("batch.pause_seconds"),
		},
		Jobs: JobsConfig{
			StagingDir:     viper.GetString("jobs.staging_dir"),
			RetentionHours: viper.GetInt("jobs.retention_hours"),
			SweepMinutes:   viper.GetInt("jobs.sweep_minutes"),
		},
	}

	return cfg, nil
}
