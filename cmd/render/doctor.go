package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-render/internal/config"
)

// doctorTimeout bounds each remote check.
const doctorTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo  `json:"config"`
	Service  serviceInfo `json:"service"`
	Cache    cacheInfo   `json:"cache"`
	Views    viewsInfo   `json:"views"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

type configInfo struct {
	Loaded bool   `json:"loaded"`
	Source string `json:"source"`
}

type serviceInfo struct {
	BaseURL   string `json:"base_url"`
	Reachable bool   `json:"reachable"`
	Chromium  string `json:"chromium,omitempty"`
	Auth      bool   `json:"auth"`
}

type cacheInfo struct {
	Driver    string `json:"driver"`
	Reachable bool   `json:"reachable"`
}

type viewsInfo struct {
	Dir    string `json:"dir,omitempty"`
	Exists bool   `json:"exists"`
}

// runDoctorCmd runs the checks and returns an exit code: 0 when ready,
// including warnings, 1 when errors were found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	var jsonOutput bool
	addCommonFlags(fs, &common)
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	result := runDoctor(ctx, &common, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, common *commonFlags, env *Environment) *doctorResult {
	result := &doctorResult{Status: "ready"}

	cfg, err := loadConfig(common)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		result.Status = "errors"
		return result
	}
	result.Config.Loaded = true
	result.Config.Source = "defaults and environment"
	if common.config != "" {
		result.Config.Source = common.config
	}

	checkService(ctx, cfg, env, result)
	checkViews(cfg, result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkService builds the client, which also dials the cache, then asks
// the service for its version.
func checkService(ctx context.Context, cfg *config.Config, env *Environment, result *doctorResult) {
	result.Service.BaseURL = cfg.Service.BaseURL
	result.Service.Auth = cfg.Service.User != ""
	result.Cache.Driver = cfg.Cache.Driver

	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	client, closeClient, err := newClient(ctx, cfg, zap.NewNop(), env)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Client: %v", err))
		return
	}
	defer closeClient()
	result.Cache.Reachable = cfg.Cache.Driver != config.CacheNone

	chromium, err := client.Version(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Render service: %v%s", err, hintFor(err, cfg)))
		return
	}
	result.Service.Reachable = true
	result.Service.Chromium = chromium

	if cfg.Cache.Driver == config.CacheNone {
		result.Warnings = append(result.Warnings, "Render cache disabled (cache.driver: none)")
	}
}

func checkViews(cfg *config.Config, result *doctorResult) {
	result.Views.Dir = cfg.App.ViewsDir
	if cfg.App.ViewsDir == "" {
		return
	}
	info, err := os.Stat(cfg.App.ViewsDir)
	if err != nil || !info.IsDir() {
		result.Errors = append(result.Errors, fmt.Sprintf("Views directory not found: %s", cfg.App.ViewsDir))
		return
	}
	result.Views.Exists = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "render doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	if r.Config.Loaded {
		fmt.Fprintf(w, "  [OK] Loaded from %s\n", r.Config.Source)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not loaded")
	}
	fmt.Fprintln(w)

	if r.Config.Loaded {
		fmt.Fprintln(w, "Render service")
		if r.Service.Reachable {
			fmt.Fprintf(w, "  [OK] Reachable at %s\n", r.Service.BaseURL)
			fmt.Fprintf(w, "  [OK] Chromium: %s\n", r.Service.Chromium)
		} else {
			fmt.Fprintf(w, "  [ERROR] Unreachable at %s\n", r.Service.BaseURL)
		}
		if r.Service.Auth {
			fmt.Fprintln(w, "  [OK] Basic auth: configured")
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "Cache")
		if r.Cache.Reachable {
			fmt.Fprintf(w, "  [OK] Driver: %s\n", r.Cache.Driver)
		} else {
			fmt.Fprintf(w, "  [--] Driver: %s\n", r.Cache.Driver)
		}
		fmt.Fprintln(w)

		if r.Views.Dir != "" {
			fmt.Fprintln(w, "Views")
			if r.Views.Exists {
				fmt.Fprintf(w, "  [OK] %s\n", r.Views.Dir)
			} else {
				fmt.Fprintf(w, "  [ERROR] %s\n", r.Views.Dir)
			}
			fmt.Fprintln(w)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
