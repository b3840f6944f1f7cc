package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Report persistence
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Extraction cache keyed by git blob
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Extraction, normalization and classification settings
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	// Report rendering
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "sqlite", "postgres", "none"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
	LocalPath   string `yaml:"local_path" mapstructure:"local_path"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type AnalysisConfig struct {
	TabWidth         int    `yaml:"tab_width" mapstructure:"tab_width"`
	ScopePolicy      string `yaml:"scope_policy" mapstructure:"scope_policy"` // "open", "close", "any"
	AddedParamsBreak bool   `yaml:"added_params_break" mapstructure:"added_params_break"`
	Workers          int    `yaml:"workers" mapstructure:"workers"`
}

type OutputConfig struct {
	Directory  string `yaml:"directory" mapstructure:"directory"`
	Format     string `yaml:"format" mapstructure:"format"` // "text", "json", "yaml"
	WriteDiffs bool   `yaml:"write_diffs" mapstructure:"write_diffs"`
}

type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Type:      "sqlite",
			LocalPath: filepath.Join(".funcrisk", "reports.db"),
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(".funcrisk", "cache.db"),
		},
		Analysis: AnalysisConfig{
			TabWidth:         4,
			ScopePolicy:      "open",
			AddedParamsBreak: true,
			Workers:          8,
		},
		Output: OutputConfig{
			Directory:  "funcrisk-out",
			Format:     "text",
			WriteDiffs: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from file, environment and .env files. An empty
// path searches .funcrisk/config.yaml and ./config.yaml.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	// FUNCRISK_ANALYSIS_TAB_WIDTH overrides analysis.tab_width
	v.SetEnvPrefix("FUNCRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".funcrisk")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical, "failed to read config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical, "failed to unmarshal config")
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// keyValues flattens cfg into viper keys.
func keyValues(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"storage.type":                cfg.Storage.Type,
		"storage.postgres_dsn":        cfg.Storage.PostgresDSN,
		"storage.local_path":          cfg.Storage.LocalPath,
		"cache.enabled":               cfg.Cache.Enabled,
		"cache.path":                  cfg.Cache.Path,
		"analysis.tab_width":          cfg.Analysis.TabWidth,
		"analysis.scope_policy":       cfg.Analysis.ScopePolicy,
		"analysis.added_params_break": cfg.Analysis.AddedParamsBreak,
		"analysis.workers":            cfg.Analysis.Workers,
		"output.directory":            cfg.Output.Directory,
		"output.format":               cfg.Output.Format,
		"output.write_diffs":          cfg.Output.WriteDiffs,
		"logging.level":               cfg.Logging.Level,
		"logging.file":                cfg.Logging.File,
		"logging.json":                cfg.Logging.JSON,
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range keyValues(cfg) {
		v.SetDefault(key, value)
	}
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file) // existing variables win
		}
	}
}

// applyEnvOverrides applies the unprefixed variables shared with other tools
func applyEnvOverrides(cfg *Config) {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" && cfg.Storage.PostgresDSN == "" {
		cfg.Storage.PostgresDSN = dsn
	}
	cfg.Storage.LocalPath = expandPath(cfg.Storage.LocalPath)
	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Output.Directory = expandPath(cfg.Output.Directory)
	cfg.Logging.File = expandPath(cfg.Logging.File)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range keyValues(c) {
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.FileSystemErrorf(err, "failed to create config directory")
	}

	if err := v.WriteConfigAs(path); err != nil {
		return errors.FileSystemErrorf(err, "failed to write config")
	}
	return nil
}
