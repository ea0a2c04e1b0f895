package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"koordinator/internal/domain"
	"koordinator/internal/infra/config"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"KOORDINATOR_API_KEY", "KOORDINATOR_PROVIDER", "KOORDINATOR_MODEL", config.EnvGeminiKey, config.EnvLegacyKey, config.EnvConfigKey} {
		t.Setenv(k, "")
	}
}

func testOptions(t *testing.T) *globalOptions {
	t.Helper()
	clearKeys(t)
	return &globalOptions{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Provider:   config.ProviderKeyword,
	}
}

func testApp(t *testing.T) *app {
	t.Helper()
	cfg, err := loadConfig(testOptions(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.Dispatch.Delay = time.Millisecond
	cfg.Logger.Output = "discard"

	a, err := bootstrap(context.Background(), cfg, bootOptions{synchronous: true})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Defaults()
	applyFlags(cfg, &globalOptions{Provider: "keyword", Model: "m", APIKey: "k"})
	if cfg.Coordinator.Provider != "keyword" || cfg.Coordinator.Model != "m" || cfg.Coordinator.APIKey != "k" {
		t.Errorf("flags not applied: %+v", cfg.Coordinator)
	}

	cfg = config.Defaults()
	applyFlags(cfg, &globalOptions{})
	if cfg.Coordinator.Provider != config.Defaults().Coordinator.Provider {
		t.Error("empty flags must not override")
	}
}

func TestLoadConfigRejectsBadProvider(t *testing.T) {
	opts := testOptions(t)
	opts.Provider = "openai"
	if _, err := loadConfig(opts); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}

func TestRunAskRoutesDocument(t *testing.T) {
	a := testApp(t)
	var out bytes.Buffer

	if err := runAsk(context.Background(), a, "Buat surat cuti sakit untuk Budi", &out, false); err != nil {
		t.Fatalf("runAsk: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Anda: Buat surat cuti sakit untuk Budi",
		"Koordinator -> Pembuat Dokumen",
		`"document_type": "surat"`,
		"Pembuat Dokumen:\n[Sub-Agen Dokumen] Membuat dokumen tipe: surat.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunAskUnroutedJSON(t *testing.T) {
	a := testApp(t)
	var out bytes.Buffer

	if err := runAsk(context.Background(), a, "halo apa kabar", &out, true); err != nil {
		t.Fatalf("runAsk: %v", err)
	}
	var entries []domain.Entry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Kind != domain.EntryUser || entries[1].Kind != domain.EntrySystem {
		t.Errorf("kinds = %s, %s", entries[0].Kind, entries[1].Kind)
	}
	if entries[1].IsError {
		t.Error("clarification must not be flagged as an error")
	}
}

func TestRunAskBlank(t *testing.T) {
	a := testApp(t)
	err := runAsk(context.Background(), a, "   ", &bytes.Buffer{}, false)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if n := len(a.orchestrator.Snapshot().Entries); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestRunAskUnconfiguredFails(t *testing.T) {
	opts := testOptions(t)
	opts.Provider = config.ProviderGemini
	cfg, err := loadConfig(opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.Logger.Output = "discard"
	a, err := bootstrap(context.Background(), cfg, bootOptions{synchronous: true})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	if got := startupWarning(a); got == "" {
		t.Error("expected missing key warning")
	}

	var out bytes.Buffer
	err = runAsk(context.Background(), a, "jadwal dokter", &out, false)
	if !errors.Is(err, errRequestFailed) {
		t.Fatalf("err = %v, want errRequestFailed", err)
	}
	if !strings.Contains(out.String(), "Koordinator [error]: Maaf, terjadi kesalahan pada koneksi server API.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestPrintAgents(t *testing.T) {
	var out bytes.Buffer
	if err := printAgents(&out, true); err != nil {
		t.Fatalf("printAgents: %v", err)
	}
	got := out.String()
	for _, ident := range domain.Catalog() {
		if !strings.Contains(got, ident.Name+" ("+string(ident.ID)+")") {
			t.Errorf("missing %s", ident.ID)
		}
	}
	if !strings.Contains(got, "optional: start_date, end_date, study_type") {
		t.Errorf("medical optional fields missing:\n%s", got)
	}
	if !strings.Contains(got, `"required"`) {
		t.Error("schema not printed")
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"chat", "ask", "agents", "doctor"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
	for _, flag := range []string{"config", "api-key", "model", "provider"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing flag --%s", flag)
		}
	}
}

func TestAgentsCommandOutput(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"agents"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "Manajer Pasien (manage_patient_info)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
