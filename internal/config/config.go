package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string
}

type StorageConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	BucketVideos   string
	UseSSL         bool
	Region         string
	PublicBaseURL  string
	MaxUploadBytes int64
}

type SecurityConfig struct {
	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration
	AuthRateLimit    float64
	AuthRateBurst    int
}

type CacheConfig struct {
	CourseTTL time.Duration
}

type JobsConfig struct {
	CleanupSpec   string
	ClaimInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Cache            CacheConfig
	Jobs             JobsConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

// Load reads config.yaml (optional), a .env file (optional) and LMS_*
// environment variables, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("LMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate reports settings the API cannot run without.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres.dsn is required"))
	}
	if c.Security.JWTAccessSecret == "" {
		errs = append(errs, errors.New("security.jwtaccesssecret is required"))
	}
	if c.Security.JWTRefreshSecret == "" {
		errs = append(errs, errors.New("security.jwtrefreshsecret is required"))
	}
	if c.Security.JWTAccessSecret != "" && c.Security.JWTAccessSecret == c.Security.JWTRefreshSecret {
		errs = append(errs, errors.New("access and refresh secrets must differ"))
	}
	if c.Security.JWTAccessTTL <= 0 || c.Security.JWTRefreshTTL <= 0 {
		errs = append(errs, errors.New("token ttls must be positive"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "60s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")
	v.SetDefault("postgres.automigrate", true)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "lms:tasks")
	v.SetDefault("redis.group", "lms-workers")
	v.SetDefault("redis.consumer", "worker-1")

	v.SetDefault("storage.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucketvideos", "lms-lesson-videos")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("storage.maxuploadbytes", 512<<20)

	v.SetDefault("security.jwtaccesssecret", "")
	v.SetDefault("security.jwtrefreshsecret", "")
	v.SetDefault("security.jwtaccessttl", "15m")
	v.SetDefault("security.jwtrefreshttl", "168h") // 7 days
	v.SetDefault("security.authratelimit", 5.0)
	v.SetDefault("security.authrateburst", 20)

	v.SetDefault("cache.coursettl", "5m")

	v.SetDefault("jobs.cleanupspec", "0 0 3 * * *")
	v.SetDefault("jobs.claiminterval", "30s")

	v.SetDefault("logging.level", "")
	v.SetDefault("allowcorsorigins", []string{})
}
