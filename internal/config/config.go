package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		PublicURL      string   `yaml:"publicURL"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		APIKey         string   `yaml:"apiKey"`
		RateLimit      struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Analyzer struct {
		Endpoint string        `yaml:"endpoint"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"analyzer"`

	Slot struct {
		Driver string `yaml:"driver"` // memory | mysql | postgres
		Key    string `yaml:"key"`
	} `yaml:"slot"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	View struct {
		Width         int      `yaml:"width"`
		Height        int      `yaml:"height"`
		OpenOnFailure bool     `yaml:"openOnFailure"`
		Command       []string `yaml:"command"`
		MaxSessions   int      `yaml:"maxSessions"`
	} `yaml:"view"`

	Scan struct {
		DiscardStale bool `yaml:"discardStale"`
	} `yaml:"scan"`

	Classifier struct {
		SuspiciousKeywords []string `yaml:"suspiciousKeywords"`
		SafeKeywords       []string `yaml:"safeKeywords"`
	} `yaml:"classifier"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.AllowedOrigins = []string{"chrome-extension://*", "moz-extension://*"}
	c.Server.RateLimit.RPS = 5
	c.Server.RateLimit.Burst = 10
	c.Analyzer.Endpoint = "http://localhost:8000/analyze_link"
	c.Slot.Driver = "memory"
	c.Slot.Key = "lastScanResult"
	c.Database.Host = "localhost"
	c.Database.SSLMode = "disable"
	c.Minio.BucketName = "scan-results"
	c.View.Width = 400
	c.View.Height = 250
	c.View.MaxSessions = 32
	return &c
}

// Load baca file config.yaml di atas default, lalu override dari .env / environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Analyzer.Endpoint, "SAFELINK_ANALYZER_URL")
	setString(&c.Slot.Driver, "SAFELINK_SLOT_DRIVER")
	setString(&c.Slot.Key, "SAFELINK_SLOT_KEY")
	setString(&c.Server.APIKey, "SAFELINK_API_KEY")
	setString(&c.Server.PublicURL, "SAFELINK_PUBLIC_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.Database.Port = p
	}
	if v := os.Getenv("SAFELINK_ANALYZER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SAFELINK_ANALYZER_TIMEOUT: %w", err)
		}
		c.Analyzer.Timeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	switch c.Slot.Driver {
	case "memory", "mysql", "postgres":
	default:
		return fmt.Errorf("slot.driver: unsupported %q (memory, mysql, postgres)", c.Slot.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: out of range: %d", c.Server.Port)
	}
	if c.Analyzer.Timeout < 0 {
		return errors.New("analyzer.timeout: must not be negative")
	}
	if c.Minio.Enabled && c.Minio.Endpoint == "" {
		return errors.New("minio.endpoint: required when minio is enabled")
	}
	return nil
}

// BaseURL is where view sessions are served
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string
func (c *Config) PostgresDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
