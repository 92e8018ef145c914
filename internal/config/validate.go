package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Validate checks config values and returns a list of issues.
func Validate(cfg *Config) []ConfigIssue {
	var issues []ConfigIssue

	if err := cfg.FontSpec().Validate(); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "font",
			Severity: "error",
			Message:  err.Error(),
			Fix:      "fontkit run --font \"Times New Roman\" --size 12\nOr: export FONTKIT_FONT_NAME=... FONTKIT_FONT_SIZE=...",
		})
	}

	policies := []struct{ key, value string }{
		{"policy.word", cfg.Policy.Word},
		{"policy.excel", cfg.Policy.Excel},
	}
	for _, p := range policies {
		key, value := p.key, p.value
		if v := strings.ToLower(strings.TrimSpace(value)); v != "abort" && v != "continue" {
			issues = append(issues, ConfigIssue{
				Key:      key,
				Severity: "error",
				Message:  fmt.Sprintf("%s must be 'abort' or 'continue', got %q", key, value),
				Fix:      fmt.Sprintf("set %s: continue in %s", key, ConfigPath()),
			})
		}
	}

	if cfg.Concurrency < 1 {
		issues = append(issues, ConfigIssue{
			Key:      "concurrency",
			Severity: "error",
			Message:  fmt.Sprintf("concurrency must be at least 1, got %d", cfg.Concurrency),
		})
	}

	if sameDir(cfg.InputDir, cfg.OutputDir) {
		issues = append(issues, ConfigIssue{
			Key:      "output_dir",
			Severity: "warning",
			Message:  "input_dir and output_dir are the same — rewritten copies will be picked up again on the next run",
			Fix:      "fontkit run --output output",
		})
	}

	if _, err := os.Stat(cfg.InputDir); os.IsNotExist(err) {
		issues = append(issues, ConfigIssue{
			Key:      "input_dir",
			Severity: "info",
			Message:  fmt.Sprintf("input directory %s does not exist yet — it will be created on the first run", cfg.InputDir),
		})
	}

	if path := cfg.JournalPath(); path != "" {
		issues = append(issues, ConfigIssue{
			Key:      "audit.file",
			Severity: "info",
			Message:  fmt.Sprintf("run journal enabled at %s", path),
		})
	}

	return issues
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// ShowConfig renders the effective configuration as YAML.
func ShowConfig(cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("could not render config: %w", err)
	}
	return fmt.Sprintf("# Config: %s\n%s", ConfigPath(), data), nil
}
