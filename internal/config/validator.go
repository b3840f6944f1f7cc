package config

import (
	"fmt"
	"strings"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/normalize"
	"github.com/sirupsen/logrus"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range vr.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err)
	}
	if len(vr.Warnings) > 0 {
		sb.WriteString("warnings:\n")
		for _, warn := range vr.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", warn)
		}
	}
	return sb.String()
}

// Err converts a failed result into a typed config error.
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return errors.ConfigErrorf("%s", strings.TrimRight(vr.Error(), "\n"))
}

// Validate checks every section.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.LocalPath == "" {
			result.AddError("storage.local_path is required for sqlite storage")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			result.AddError("storage.postgres_dsn (or POSTGRES_DSN) is required for postgres storage")
		}
	case "none", "":
	default:
		result.AddError("storage.type must be sqlite, postgres or none, got %q", c.Storage.Type)
	}

	if c.Cache.Enabled && c.Cache.Path == "" {
		result.AddError("cache.path is required when the cache is enabled")
	}

	if c.Analysis.TabWidth <= 0 {
		result.AddError("analysis.tab_width must be positive, got %d", c.Analysis.TabWidth)
	}
	if _, err := normalize.ParseScopePolicy(c.Analysis.ScopePolicy); err != nil {
		result.AddError("analysis.scope_policy: %v", err)
	}
	if c.Analysis.Workers <= 0 {
		result.AddError("analysis.workers must be positive, got %d", c.Analysis.Workers)
	} else if c.Analysis.Workers > 64 {
		result.AddWarning("analysis.workers=%d spawns many git processes", c.Analysis.Workers)
	}

	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		result.AddError("output.format must be text, json or yaml, got %q", c.Output.Format)
	}
	if c.Output.WriteDiffs && c.Output.Directory == "" {
		result.AddError("output.directory is required when output.write_diffs is set")
	}

	if c.Logging.Level != "" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			result.AddError("logging.level: %v", err)
		}
	}

	return result
}
