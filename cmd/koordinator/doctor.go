package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"koordinator/internal/adapter/agent"
	"koordinator/internal/domain"
	"koordinator/internal/infra/config"
	"koordinator/internal/usecase/dispatch"
)

// geminiEndpoint is probed when no base_url is configured.
const geminiEndpoint = "https://generativelanguage.googleapis.com/"

// CheckStatus represents the result of a health check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// CheckResult holds the outcome of a single health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string
}

// Check is a named health check function.
type Check struct {
	Name string
	Fn   func(ctx context.Context, cfg *config.Config) CheckResult
}

func newDoctorCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run health checks on the configuration and the classifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cfgErr := loadConfig(opts)
			checks := []Check{
				{Name: "Config file", Fn: checkConfigFile(opts.ConfigPath, cfgErr)},
				{Name: "Classifier API key", Fn: checkAPIKey},
				{Name: "Classifier connectivity", Fn: checkConnectivity(http.DefaultClient)},
				{Name: "Agent handlers", Fn: checkHandlers},
				{Name: "Argument schemas", Fn: checkSchemas},
			}
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), cfg, checks)
		},
	}
}

// runDoctor executes checks in order and reports results. It fails when any
// check fails.
func runDoctor(ctx context.Context, w io.Writer, cfg *config.Config, checks []Check) error {
	fmt.Fprintln(w, "koordinator doctor")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)

	var pass, warn, fail int
	for _, check := range checks {
		result := check.Fn(ctx, cfg)
		result.Name = check.Name

		fmt.Fprintf(w, "  %s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
		if result.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", result.Fix)
		}
		switch result.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)
	if fail > 0 {
		return fmt.Errorf("%d check(s) failed", fail)
	}
	return nil
}

func statusIcon(s CheckStatus) string {
	switch s {
	case StatusPass:
		return "[PASS]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[????]"
	}
}

// checkConfigFile reports whether the config file exists and loaded. A
// missing file is only a warning: the defaults apply.
func checkConfigFile(path string, cfgErr error) func(context.Context, *config.Config) CheckResult {
	return func(context.Context, *config.Config) CheckResult {
		if cfgErr != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("config error: %v", cfgErr),
				Fix:     "Check the YAML syntax and file permissions (0600)",
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusWarn,
				Message: fmt.Sprintf("no config file at %s; using defaults", path),
			}
		}
		return CheckResult{Status: StatusPass, Message: fmt.Sprintf("config loaded from %s", path)}
	}
}

func checkAPIKey(_ context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "cannot check: config not loaded"}
	}
	if cfg.Coordinator.Provider == config.ProviderKeyword {
		return CheckResult{Status: StatusPass, Message: "keyword classifier needs no key"}
	}
	if cfg.Coordinator.APIKey == "" {
		return CheckResult{
			Status:  StatusFail,
			Message: "no Gemini API key configured",
			Fix:     fmt.Sprintf("Set %s (or %s), or pass --api-key", config.EnvGeminiKey, config.EnvLegacyKey),
		}
	}
	return CheckResult{Status: StatusPass, Message: "API key configured"}
}

// checkConnectivity probes the classifier endpoint with client.
func checkConnectivity(client *http.Client) func(context.Context, *config.Config) CheckResult {
	return func(ctx context.Context, cfg *config.Config) CheckResult {
		if cfg == nil {
			return CheckResult{Status: StatusFail, Message: "cannot check: config not loaded"}
		}
		if cfg.Coordinator.Provider == config.ProviderKeyword {
			return CheckResult{Status: StatusPass, Message: "skipped: keyword classifier runs offline"}
		}

		endpoint := geminiEndpoint
		if cfg.Coordinator.BaseURL != "" {
			endpoint = strings.TrimRight(cfg.Coordinator.BaseURL, "/") + "/"
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("bad endpoint: %v", err)}
		}
		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("cannot reach %s: %v", endpoint, err),
				Fix:     "Check your internet connection and firewall settings",
			}
		}
		resp.Body.Close()
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("%s reachable (latency: %dms)", endpoint, time.Since(start).Milliseconds()),
		}
	}
}

func checkHandlers(context.Context, *config.Config) CheckResult {
	reg := dispatch.NewRegistry(nil)
	if err := agent.RegisterSimulated(reg); err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	var missing []string
	for _, id := range domain.Agents() {
		if _, err := reg.Get(id); err != nil {
			missing = append(missing, string(id))
		}
	}
	if len(missing) > 0 {
		return CheckResult{Status: StatusFail, Message: "no handler for " + strings.Join(missing, ", ")}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d handlers registered", len(reg.Registered()))}
}

func checkSchemas(context.Context, *config.Config) CheckResult {
	if _, err := dispatch.NewSchemaChecker(); err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d schemas compiled", len(domain.Catalog()))}
}
