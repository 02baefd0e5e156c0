package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	ResetForTest(t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Store.Backend != "file" {
		t.Errorf("expected default store backend 'file', got %q", c.Store.Backend)
	}
	if c.Remote.Backend != "none" {
		t.Errorf("expected default remote backend 'none', got %q", c.Remote.Backend)
	}
	if c.Server.Reconcile != "@every 1h" {
		t.Errorf("unexpected reconcile schedule %q", c.Server.Reconcile)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSetAndGet(t *testing.T) {
	dir := t.TempDir()
	ResetForTest(dir)

	if err := Set("goal", "staff data engineer"); err != nil {
		t.Fatalf("Set goal error: %v", err)
	}
	if err := Set("remote.backend", "github"); err == nil {
		t.Fatal("expected github backend without repo to fail")
	}
	if err := Set("remote.repo", "me/job-search"); err != nil {
		t.Fatalf("Set remote.repo error: %v", err)
	}
	if err := Set("remote.backend", "github"); err != nil {
		t.Fatalf("Set remote.backend error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".careerflow.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "staff data engineer") {
		t.Errorf("config file missing goal:\n%s", data)
	}

	// Reload from disk
	ResetForTest(dir)

	goal, err := Get("goal")
	if err != nil {
		t.Fatalf("Get goal error: %v", err)
	}
	if goal != "staff data engineer" {
		t.Errorf("expected goal to persist, got %q", goal)
	}
	backend, _ := Get("remote.backend")
	if backend != "github" {
		t.Errorf("expected remote.backend 'github', got %q", backend)
	}
}

func TestSetRejectsInvalidValue(t *testing.T) {
	ResetForTest(t.TempDir())

	if err := Set("store.backend", "sqlite"); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
	got, _ := Get("store.backend")
	if got != "file" {
		t.Errorf("invalid Set should keep previous value, got %q", got)
	}

	if err := Set("server.reconcile", "every now and then"); err == nil {
		t.Error("expected error for malformed cron expression")
	}
	if err := Set("server.reconcile", "*/15 * * * *"); err != nil {
		t.Errorf("valid cron expression rejected: %v", err)
	}
}

func TestUnknownKey(t *testing.T) {
	ResetForTest(t.TempDir())

	if _, err := Get("nope"); err == nil {
		t.Error("expected error for unknown key on Get")
	}
	if err := Set("nope", "x"); err == nil {
		t.Error("expected error for unknown key on Set")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CAREERFLOW_GOAL", "product manager")
	t.Setenv("CAREERFLOW_STORE_BACKEND", "memory")
	ResetForTest(t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Goal != "product manager" {
		t.Errorf("expected goal from env, got %q", c.Goal)
	}
	if c.Store.Backend != "memory" {
		t.Errorf("expected store backend from env, got %q", c.Store.Backend)
	}
}

func TestAllAndKeys(t *testing.T) {
	ResetForTest(t.TempDir())

	all, err := All()
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	keys := Keys()
	if len(all) != len(keys) {
		t.Fatalf("All() has %d entries, Keys() has %d", len(all), len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted: %v", keys)
		}
	}
	if all["server.addr"] != "localhost:8080" {
		t.Errorf("unexpected server.addr %q", all["server.addr"])
	}
}

func TestAgentCLI(t *testing.T) {
	c := &Config{Agent: "gemini-cli"}
	if c.AgentCLI() != "gemini" {
		t.Errorf("expected gemini, got %s", c.AgentCLI())
	}
	c.Agent = "claude-sonnet-4-5"
	if c.AgentCLI() != "claude" {
		t.Errorf("expected claude, got %s", c.AgentCLI())
	}
}
