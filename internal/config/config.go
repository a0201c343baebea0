// Package config loads and validates the drivefs configuration from a
// YAML file, with environment overrides for credentials so secrets stay
// out of the file.
package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// MaxUploadExpiry is the hard ceiling on presigned upload URL lifetime.
// Configured values above it are clamped at load time.
const MaxUploadExpiry = 15 * time.Minute

// Duration is a time.Duration that unmarshals from YAML strings such as
// "30s" or "5m". Bare integers are taken as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("config: invalid duration value")
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration for the drivefs server.
type Config struct {
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
	Storage Storage `yaml:"storage"`
	Cache   Cache   `yaml:"cache"`
	Limits  Limits  `yaml:"limits"`
	Presign Presign `yaml:"presign"`
}

// Server holds the HTTP listener settings.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown on SIGTERM.
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Storage holds object-store connection settings.
type Storage struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`

	// PageSize caps keys per listing page. 0 uses the store default.
	PageSize int `yaml:"page_size"`

	// RetryMaxTries bounds attempts against the store for transient
	// failures, including the first. 0 uses the built-in default.
	RetryMaxTries uint `yaml:"retry_max_tries"`
}

// Cache holds TTL settings for the process-local cache.
type Cache struct {
	// TTL applies to listing and search entries.
	TTL Duration `yaml:"ttl"`

	// StatTTL applies to existence-check entries; kept short because a
	// stale positive hands out download URLs for deleted objects.
	StatTTL Duration `yaml:"stat_ttl"`
}

// Limits bounds caller-controlled sizes.
type Limits struct {
	// MaxUploadBytes is the largest accepted upload size.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// MaxListPages caps how many listing pages one operation aggregates
	// before reporting a truncated upstream error.
	MaxListPages int `yaml:"max_list_pages"`

	// SearchMaxResults is the default result cap for searches that do
	// not specify their own.
	SearchMaxResults int `yaml:"search_max_results"`
}

// Presign holds presigned URL lifetimes.
type Presign struct {
	// UploadExpiry is the PUT URL lifetime, clamped to MaxUploadExpiry.
	UploadExpiry Duration `yaml:"upload_expiry"`

	// DownloadExpiry is the GET URL lifetime. Longer than uploads since
	// downloads are user-initiated and may be deferred.
	DownloadExpiry Duration `yaml:"download_expiry"`
}

// Default returns the configuration used when a field is absent from the
// file. Credentials intentionally have no default.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		Storage: Storage{
			Endpoint:      "localhost:9000",
			Bucket:        "drivefs",
			RetryMaxTries: 3,
		},
		Cache: Cache{
			TTL:     Duration(5 * time.Minute),
			StatTTL: Duration(30 * time.Second),
		},
		Limits: Limits{
			MaxUploadBytes:   5 << 30, // 5 GiB, the S3 single-PUT ceiling
			MaxListPages:     100,
			SearchMaxResults: 50,
		},
		Presign: Presign{
			UploadExpiry:   Duration(MaxUploadExpiry),
			DownloadExpiry: Duration(time.Hour),
		},
	}
}

// Load reads the YAML file at path over Default values, applies
// environment overrides, and validates the result. An empty path
// returns Default plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets credentials come from the environment instead of the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DRIVEFS_STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("DRIVEFS_STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("DRIVEFS_STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
}

// Validate normalizes and checks the configuration. Invalid durations
// and sizes are errors; an over-limit upload expiry is clamped rather
// than rejected.
func (c *Config) Validate() error {
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("config: storage.endpoint is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("config: storage.bucket is required")
	}
	if c.Limits.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: limits.max_upload_bytes must be positive")
	}
	if c.Limits.MaxListPages <= 0 {
		return fmt.Errorf("config: limits.max_list_pages must be positive")
	}
	if c.Limits.SearchMaxResults <= 0 {
		return fmt.Errorf("config: limits.search_max_results must be positive")
	}
	if c.Cache.TTL <= 0 || c.Cache.StatTTL <= 0 {
		return fmt.Errorf("config: cache TTLs must be positive")
	}
	if c.Presign.UploadExpiry <= 0 || c.Presign.DownloadExpiry <= 0 {
		return fmt.Errorf("config: presign expiries must be positive")
	}
	if c.Presign.UploadExpiry.Std() > MaxUploadExpiry {
		c.Presign.UploadExpiry = Duration(MaxUploadExpiry)
	}
	return nil
}
