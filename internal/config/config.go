package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/photosphere/internal/explorer"
	"github.com/lehigh-university-libraries/photosphere/internal/offline"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedProvider = errors.New("unsupported provider")

// Config captures everything needed to run the explorer
type Config struct {
	DataURL            string        `yaml:"data_url"`
	StorageRoot        string        `yaml:"storage_root"`
	Provider           string        `yaml:"provider"`
	Model              string        `yaml:"model"`
	Temperature        float64       `yaml:"temperature"`
	BackendTimeout     time.Duration `yaml:"backend_timeout"`
	UploadConcurrency  int           `yaml:"upload_concurrency"`
	CacheDir           string        `yaml:"cache_dir"`
	CacheGeneration    string        `yaml:"cache_generation"`
	Addr               string        `yaml:"addr"`
	SurfaceParseErrors bool          `yaml:"surface_parse_errors"`
}

const (
	defaultDataURL     = "./data"
	defaultProvider    = "gemini"
	defaultTemperature = 0.2
	defaultTimeout     = 2 * time.Minute
	defaultAddr        = ":8888"
)

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		DataURL:         defaultDataURL,
		StorageRoot:     explorer.DefaultStorageRoot,
		Provider:        defaultProvider,
		Temperature:     defaultTemperature,
		BackendTimeout:  defaultTimeout,
		CacheDir:        defaultCacheDir(),
		CacheGeneration: offline.DefaultGeneration,
		Addr:            defaultAddr,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks fields that cannot be defaulted
func (c Config) Validate() error {
	switch c.Provider {
	case "ollama", "openai", "gemini":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, c.Provider)
	}
	if c.UploadConcurrency < 0 {
		return fmt.Errorf("upload_concurrency must not be negative, got %d", c.UploadConcurrency)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("backend_timeout must not be negative, got %s", c.BackendTimeout)
	}
	return nil
}

// ExplorerOptions maps the config onto explorer options
func (c Config) ExplorerOptions() explorer.Options {
	return explorer.Options{
		StorageRoot:        c.StorageRoot,
		BackendTimeout:     c.BackendTimeout,
		UploadConcurrency:  c.UploadConcurrency,
		SurfaceParseErrors: c.SurfaceParseErrors,
	}
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"PHOTOSPHERE_DATA_URL":     &cfg.DataURL,
		"PHOTOSPHERE_STORAGE_ROOT": &cfg.StorageRoot,
		"PHOTOSPHERE_PROVIDER":     &cfg.Provider,
		"PHOTOSPHERE_MODEL":        &cfg.Model,
		"PHOTOSPHERE_CACHE_DIR":    &cfg.CacheDir,
	}
	for key, field := range overrides {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*field = v
		}
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".photosphere-cache"
	}
	return dir + string(os.PathSeparator) + "photosphere"
}
