package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	// DefaultMultipartThreshold is the size at or above which uploads switch
	// to multipart transfer.
	DefaultMultipartThreshold = 100 * 1024 * 1024

	// DefaultPartSize is the fixed part size for multipart transfers; the
	// final part may be shorter.
	DefaultPartSize = 100 * 1024 * 1024

	// DefaultPresignTTL is how long presigned download URLs stay valid.
	DefaultPresignTTL = time.Hour

	// DefaultRecentLimit caps recent-file and search listings.
	DefaultRecentLimit = 50
)

// Config is the complete service configuration, loaded from a yaml file
// with environment variable overrides for deployment secrets.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	S3 struct {
		Endpoint       string `yaml:"endpoint"`
		Region         string `yaml:"region"`
		AccessKey      string `yaml:"access_key"`
		SecretKey      string `yaml:"secret_key"`
		Bucket         string `yaml:"bucket"`
		PublicBaseURL  string `yaml:"public_base_url"`
		ForcePathStyle bool   `yaml:"force_path_style"`
	} `yaml:"s3"`
	Upload struct {
		MultipartThreshold int64 `yaml:"multipart_threshold"`
		PartSize           int64 `yaml:"part_size"`
	} `yaml:"upload"`
	Presign struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"presign"`
	AI struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
		Model    string `yaml:"model"`
	} `yaml:"ai"`
}

// ResolvePath returns the config file location: CONFIG_PATH if set,
// otherwise "config.yaml" in the working directory.
func ResolvePath() string {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return envPath
	}
	return "config.yaml"
}

// Load reads the yaml config at path (empty path means ResolvePath()),
// applies environment overrides and defaults, and validates the result.
// Missing object-store settings are a hard error: the service must fail
// startup loudly rather than degrade.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ResolvePath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		// No file is fine as long as the environment carries everything.
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Server.Port, "PORT")
	overrideString(&c.Database.Path, "DATABASE_PATH")
	overrideString(&c.S3.Endpoint, "S3_ENDPOINT")
	overrideString(&c.S3.Region, "S3_REGION")
	overrideString(&c.S3.AccessKey, "S3_ACCESS_KEY")
	overrideString(&c.S3.SecretKey, "S3_SECRET_KEY")
	overrideString(&c.S3.Bucket, "S3_BUCKET")
	overrideString(&c.S3.PublicBaseURL, "S3_PUBLIC_BASE_URL")
	overrideInt64(&c.Upload.MultipartThreshold, "UPLOAD_MULTIPART_THRESHOLD")
	overrideInt64(&c.Upload.PartSize, "UPLOAD_PART_SIZE")
	overrideString(&c.AI.Endpoint, "AI_ENDPOINT")
	overrideString(&c.AI.APIKey, "AI_API_KEY")
	overrideString(&c.AI.Model, "AI_MODEL")
	if v := os.Getenv("AI_ENABLED"); v != "" {
		c.AI.Enabled = v == "true" || v == "1"
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./metadata.db"
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
	if c.Upload.MultipartThreshold <= 0 {
		c.Upload.MultipartThreshold = DefaultMultipartThreshold
	}
	if c.Upload.PartSize <= 0 {
		c.Upload.PartSize = DefaultPartSize
	}
	if c.Presign.TTL <= 0 {
		c.Presign.TTL = DefaultPresignTTL
	}
}

func (c *Config) validate() error {
	missing := []string{}
	if c.S3.Endpoint == "" {
		missing = append(missing, "s3.endpoint / S3_ENDPOINT")
	}
	if c.S3.AccessKey == "" {
		missing = append(missing, "s3.access_key / S3_ACCESS_KEY")
	}
	if c.S3.SecretKey == "" {
		missing = append(missing, "s3.secret_key / S3_SECRET_KEY")
	}
	if c.S3.Bucket == "" {
		missing = append(missing, "s3.bucket / S3_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required object store configuration: %v", missing)
	}
	if c.AI.Enabled && c.AI.Endpoint == "" {
		return fmt.Errorf("ai.enabled is set but ai.endpoint is empty")
	}
	return nil
}

func overrideString(target *string, env string) {
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}

func overrideInt64(target *int64, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*target = n
		}
	}
}
