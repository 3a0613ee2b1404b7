package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer HTTPServer `yaml:"http_server"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Database   Database   `yaml:"database"`
	Assets     Assets     `yaml:"assets"`
	S3         S3         `yaml:"s3"`
	MinIO      MinIO      `yaml:"minio"`
	Media      Media      `yaml:"media"`
	Redis      Redis      `yaml:"redis"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Sweeper    Sweeper    `yaml:"sweeper"`
}

type HTTPServer struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8091"`
	// PublicBaseURL prefixes URLs of assets served by this process (memory and fs sinks).
	PublicBaseURL string `yaml:"public_base_url" env:"PUBLIC_BASE_URL" env-default:"http://localhost:8091"`
}

type Database struct {
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"tubely.db"`
	PGSQL      PGSQL  `yaml:"pgsql"`
}

type PGSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"tubely"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

type Assets struct {
	// Sink is one of memory, fs, s3, minio.
	Sink string `yaml:"sink" env:"ASSETS_SINK" env-default:"fs"`
	Root string `yaml:"root" env:"ASSETS_ROOT" env-default:"./assets"`
}

type S3 struct {
	Bucket  string `yaml:"bucket" env:"S3_BUCKET"`
	Region  string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	CDNBase string `yaml:"cdn_base" env:"S3_CDN_BASE"`
	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	Endpoint string `yaml:"endpoint" env:"S3_ENDPOINT"`
	// Static keys; when empty the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"tubely"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type Media struct {
	FFprobePath string        `yaml:"ffprobe_path" env:"FFPROBE_PATH" env-default:"ffprobe"`
	FFmpegPath  string        `yaml:"ffmpeg_path" env:"FFMPEG_PATH" env-default:"ffmpeg"`
	Timeout     time.Duration `yaml:"timeout" env:"MEDIA_TIMEOUT" env-default:"10m"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type RateLimit struct {
	// UploadsPerMinute applies per user and per upload action. Zero disables limiting.
	UploadsPerMinute int64 `yaml:"uploads_per_minute" env:"RATE_LIMIT_UPLOADS" env-default:"10"`
}

type Sweeper struct {
	// InProcess runs the sweeper inside the API server.
	InProcess bool          `yaml:"in_process" env:"SWEEPER_IN_PROCESS" env-default:"true"`
	Interval  time.Duration `yaml:"interval" env:"SWEEPER_INTERVAL" env-default:"5m"`
	// MaxAge must exceed a full probe plus repackage (2 * media.timeout).
	MaxAge time.Duration `yaml:"max_age" env:"SWEEPER_MAX_AGE" env-default:"1h"`
	// MetricsAddress is where the standalone sweeper serves /metrics; empty disables it.
	MetricsAddress string `yaml:"metrics_address" env:"SWEEPER_METRICS_ADDRESS"`
}

// StagingDir is where raw video uploads are written before probing. It sits
// under the assets root but apart from stored assets so the sweeper can
// clear it wholesale.
func (c *Config) StagingDir() string {
	return filepath.Join(c.Assets.Root, ".staging")
}

// Load reads the YAML file at path and applies env overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist at path: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch cfg.Assets.Sink {
	case "memory", "fs", "s3", "minio":
	default:
		return nil, fmt.Errorf("unknown assets sink %q", cfg.Assets.Sink)
	}

	if cfg.Assets.Sink == "s3" && cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 sink requires s3.bucket")
	}

	if cfg.Sweeper.MaxAge <= 2*cfg.Media.Timeout {
		return nil, fmt.Errorf("sweeper.max_age (%s) must exceed twice media.timeout (%s)", cfg.Sweeper.MaxAge, cfg.Media.Timeout)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	// .env is optional
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
