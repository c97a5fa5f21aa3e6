package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
)

// Config represents the top-level errboard configuration
type Config struct {
	API      APIConfig    `yaml:"api"`
	Snapshot string       `yaml:"snapshot" env:"ERRBOARD_SNAPSHOT"`
	EnvFile  string       `yaml:"env_file"`
	Log      LogConfig    `yaml:"log"`
	Table    TableConfig  `yaml:"table"`
	Filter   FilterConfig `yaml:"filter"`

	// path is the file the config was loaded from, empty for Parse
	path string
}

// APIConfig defines the HTTP API configuration
type APIConfig struct {
	Port int    `yaml:"port" env:"ERRBOARD_API_PORT"`
	Host string `yaml:"host" env:"ERRBOARD_API_HOST"`
	Auth *bool  `yaml:"auth,omitempty"` // nil = auto-determine based on host
}

// LogConfig defines logging output
type LogConfig struct {
	Level  string `yaml:"level" env:"ERRBOARD_LOG_LEVEL"`
	Format string `yaml:"format" env:"ERRBOARD_LOG_FORMAT"`
}

// TableConfig defines calls table presentation
type TableConfig struct {
	TemplateRows int `yaml:"template_rows" env:"ERRBOARD_TABLE_TEMPLATE_ROWS"`
}

// FilterConfig defines how the path filter interprets its text
type FilterConfig struct {
	Mode string `yaml:"mode" env:"ERRBOARD_FILTER_MODE"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a configuration file. The global env_file, if any,
// is loaded into the process environment before ERRBOARD_* overrides apply.
// A relative snapshot path is resolved against the config file's directory.
func Load(path string) (*Config, error) {
	// First check if file exists
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	// Check file permissions for security
	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	cfg.path = path

	configDir := filepath.Dir(path)
	if cfg.EnvFile != "" {
		if err := ApplyEnvFile(resolvePath(cfg.EnvFile, configDir)); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}

	if cfg.Snapshot != "" {
		cfg.Snapshot = resolvePath(cfg.Snapshot, configDir)
	}

	return cfg, nil
}

// Parse parses configuration from YAML bytes, applying environment
// overrides, defaults and validation
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from
func (c *Config) Path() string {
	return c.path
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return &cfg, nil
}

func finish(cfg *Config) error {
	if err := ApplyEnvOverrides(cfg); err != nil {
		return err
	}
	applyDefaults(cfg)
	return Validate(cfg)
}

// ApplyEnvOverrides copies ERRBOARD_* environment variables over the
// matching config fields
func ApplyEnvOverrides(cfg *Config) error {
	if err := cleanenv.UpdateEnv(cfg); err != nil {
		return fmt.Errorf("%w: environment: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.Port == 0 {
		cfg.API.Port = constants.DefaultAPIPort
	}
	if cfg.API.Host == "" {
		cfg.API.Host = constants.DefaultAPIHost
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = constants.DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = constants.DefaultLogFormat
	}
	if cfg.Table.TemplateRows == 0 {
		cfg.Table.TemplateRows = constants.DefaultTemplateRows
	}
	if cfg.Filter.Mode == "" {
		cfg.Filter.Mode = constants.FilterModePattern
	}
}
