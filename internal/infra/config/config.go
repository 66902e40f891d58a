package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nyoka-pmml/nyoka-cli/internal/infra/paths"
)

const (
	EnvRepository = "NYOKA_REPOSITORY"

	DefaultRepository = "http://localhost:5000/api"
	DefaultTimeout    = 30 * time.Second
)

// Config holds the remote repository settings for a root.
type Config struct {
	Repository string
	Timeout    time.Duration
}

type fileConfig struct {
	Repository string `yaml:"repository"`
	Timeout    string `yaml:"timeout"`
}

func Default() Config {
	return Config{Repository: DefaultRepository, Timeout: DefaultTimeout}
}

// Load reads nyoka.yaml from rootDir. A missing file yields the defaults.
// NYOKA_REPOSITORY takes precedence over the file.
func Load(rootDir string) (Config, error) {
	cfg := Default()
	path := paths.ConfigPath(rootDir)
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", paths.ConfigFileName, err)
		}
		if strings.TrimSpace(file.Repository) != "" {
			cfg.Repository = strings.TrimSpace(file.Repository)
		}
		if strings.TrimSpace(file.Timeout) != "" {
			timeout, err := time.ParseDuration(strings.TrimSpace(file.Timeout))
			if err != nil {
				return Config{}, fmt.Errorf("parse %s: timeout: %w", paths.ConfigFileName, err)
			}
			if timeout <= 0 {
				return Config{}, fmt.Errorf("parse %s: timeout must be positive", paths.ConfigFileName)
			}
			cfg.Timeout = timeout
		}
	}
	if env := strings.TrimSpace(os.Getenv(EnvRepository)); env != "" {
		cfg.Repository = env
	}
	if err := validateRepository(cfg.Repository); err != nil {
		return Config{}, err
	}
	cfg.Repository = strings.TrimRight(cfg.Repository, "/")
	return cfg, nil
}

func validateRepository(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid repository url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid repository url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid repository url %q: host is required", raw)
	}
	return nil
}
