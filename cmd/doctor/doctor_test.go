package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/fontkit/internal/config"
)

func findCheck(t *testing.T, checks []Check, name string) Check {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found in %+v", name, checks)
	return Check{}
}

func TestRunChecksHealthy(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()

	cfg := config.Defaults()
	cfg.InputDir = filepath.Join(base, "in")
	cfg.OutputDir = filepath.Join(base, "out")
	if err := os.MkdirAll(cfg.InputDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.docx", "b.txt"} {
		if err := os.WriteFile(filepath.Join(cfg.InputDir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	checks := RunChecks(cfg)
	for _, c := range checks {
		if c.Status == "error" {
			t.Errorf("unexpected error check: %+v", c)
		}
	}

	in := findCheck(t, checks, "Input Directory")
	if in.Status != "ok" || in.Message != cfg.InputDir+" (1 of 2 files are .docx or .xlsx)" {
		t.Errorf("unexpected input check: %+v", in)
	}
	if _, err := os.Stat(cfg.OutputDir); err != nil {
		t.Error("output directory should be created by the writable check")
	}
	entries, _ := os.ReadDir(cfg.OutputDir)
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
	if findCheck(t, checks, "Config File").Status != "warning" {
		t.Error("missing config file should be a warning")
	}
}

func TestRunChecksMissingInputAndBadFont(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Defaults()
	cfg.InputDir = filepath.Join(t.TempDir(), "missing")
	cfg.OutputDir = t.TempDir()
	cfg.Font.Name = ""

	checks := RunChecks(cfg)
	if findCheck(t, checks, "Input Directory").Status != "warning" {
		t.Error("missing input directory should be a warning")
	}
	if findCheck(t, checks, "Font").Status != "error" {
		t.Error("empty font name should be an error")
	}
}

func TestRunChecksOutputNotWritable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Defaults()
	cfg.InputDir = t.TempDir()
	cfg.OutputDir = filepath.Join(blocker, "out")

	if c := findCheck(t, RunChecks(cfg), "Output Directory"); c.Status != "error" {
		t.Errorf("expected error, got %+v", c)
	}
}
