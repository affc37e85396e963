package cmd

import (
	"testing"

	"github.com/hal/pulse/config"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "pulse" {
		t.Errorf("expected Use to be 'pulse', got %q", cmd.Use)
	}
}

func TestNewCmdHealth(t *testing.T) {
	cmd := NewCmdHealth(&Options{})
	if cmd == nil {
		t.Fatal("NewCmdHealth() returned nil")
	}
	if cmd.Use != "health" {
		t.Errorf("expected Use to be 'health', got %q", cmd.Use)
	}
}

func TestNewCmdVelocity(t *testing.T) {
	cmd := NewCmdVelocity(&Options{})
	if cmd == nil {
		t.Fatal("NewCmdVelocity() returned nil")
	}
	if cmd.Use != "velocity" {
		t.Errorf("expected Use to be 'velocity', got %q", cmd.Use)
	}
}

func TestNewCmdSnapshot(t *testing.T) {
	cmd := NewCmdSnapshot(&Options{})
	if cmd == nil {
		t.Fatal("NewCmdSnapshot() returned nil")
	}
	if cmd.Use != "snapshot" {
		t.Errorf("expected Use to be 'snapshot', got %q", cmd.Use)
	}
}

func TestNewCmdConfig(t *testing.T) {
	cmd := NewCmdConfig()
	if cmd == nil {
		t.Fatal("NewCmdConfig() returned nil")
	}
	if cmd.Use != "config" {
		t.Errorf("expected Use to be 'config', got %q", cmd.Use)
	}
}

func TestNewCmdVersion(t *testing.T) {
	cmd := NewCmdVersion()
	if cmd == nil {
		t.Fatal("NewCmdVersion() returned nil")
	}
	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", cmd.Use)
	}
}

func TestVersionString(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "dev", "", ""
	if got := versionString(); got != "pulse dev" {
		t.Errorf("versionString() = %q, want %q", got, "pulse dev")
	}

	SetVersionInfo("1.2.0", "abc123", "2026-01-01")
	want := "pulse 1.2.0 (abc123, built 2026-01-01)"
	if got := versionString(); got != want {
		t.Errorf("versionString() = %q, want %q", got, want)
	}
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(WithFormat("json"), WithCycles(6))
	if opts.Format != "json" {
		t.Errorf("Format = %q, want json", opts.Format)
	}
	if opts.Cycles != 6 {
		t.Errorf("Cycles = %d, want 6", opts.Cycles)
	}
	if opts.CycleLength != 7 {
		t.Errorf("CycleLength = %d, want default 7", opts.CycleLength)
	}
	if opts.Label != "default" {
		t.Errorf("Label = %q, want default", opts.Label)
	}
}

func TestResolveRepos(t *testing.T) {
	cfg := &config.Config{
		Repositories: []config.Repository{{Owner: "acme", Name: "api"}},
	}

	repos, err := resolveRepos(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repos) != 1 || repos[0].FullName() != "acme/api" {
		t.Errorf("expected configured repos, got %v", repos)
	}

	repos, err = resolveRepos(cfg, []string{"other/tool", "acme/web"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repos) != 2 || repos[0].FullName() != "other/tool" {
		t.Errorf("expected override repos, got %v", repos)
	}

	if _, err := resolveRepos(cfg, []string{"missing-slash"}); err == nil {
		t.Error("expected error for malformed owner/name")
	}
	if _, err := resolveRepos(&config.Config{}, nil); err == nil {
		t.Error("expected error when nothing is configured")
	}
}
