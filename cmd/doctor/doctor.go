// Package doctor provides the "fontkit doctor" command for checking that a
// batch can run.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/internal/config"
	"github.com/klytics/fontkit/internal/fs"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and directories",
		Long:  "Run diagnostic checks to verify fontkit can read the input directory and write the output directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			checks := RunChecks(cfg)

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Fprintln(out, "fontkit doctor")
			fmt.Fprintln(out, "==============")
			fmt.Fprintln(out)

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Fprintf(out, "  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

// RunChecks inspects the runtime, the config file and the directories cfg names.
func RunChecks(cfg *config.Config) []Check {
	checks := []Check{{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}}

	configFile := config.ConfigPath()
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: configFile})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found — using defaults and FONTKIT_* variables", configFile),
		})
	}

	if err := cfg.FontSpec().Validate(); err != nil {
		checks = append(checks, Check{Name: "Font", Status: "error", Message: err.Error()})
	} else {
		checks = append(checks, Check{Name: "Font", Status: "ok", Message: cfg.FontSpec().String()})
	}

	checks = append(checks, inputCheck(cfg.InputDir))
	checks = append(checks, writableCheck("Output Directory", cfg.OutputDir))

	if path := cfg.JournalPath(); path != "" {
		checks = append(checks, writableCheck("Journal", filepath.Dir(path)))
	}

	return checks
}

func inputCheck(dir string) Check {
	files, err := fs.ListDir(dir)
	if err != nil {
		return Check{
			Name:    "Input Directory",
			Status:  "warning",
			Message: fmt.Sprintf("%s — it will be created on the first run", err),
		}
	}

	supported := 0
	for _, f := range files {
		if f.Supported() {
			supported++
		}
	}
	return Check{
		Name:    "Input Directory",
		Status:  "ok",
		Message: fmt.Sprintf("%s (%d of %d files are .docx or .xlsx)", dir, supported, len(files)),
	}
}

// writableCheck creates and removes a probe file in dir, creating dir first
// when it is missing.
func writableCheck(name, dir string) Check {
	if err := fs.EnsureDir(dir); err != nil {
		return Check{Name: name, Status: "error", Message: err.Error()}
	}
	probe, err := os.CreateTemp(dir, ".fontkit-doctor-*")
	if err != nil {
		return Check{Name: name, Status: "error", Message: fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	probe.Close()
	os.Remove(probe.Name())
	return Check{Name: name, Status: "ok", Message: dir + " (writable)"}
}
