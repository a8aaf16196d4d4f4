package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Optimizer.GroupPrefix != "p" {
		t.Fatalf("want default group prefix \"p\", got %q", cfg.Optimizer.GroupPrefix)
	}
	if cfg.Dispatch.DecodeBatchSize != 10000 {
		t.Fatalf("want default decode batch size 10000, got %d", cfg.Dispatch.DecodeBatchSize)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("optimizer:\n  group_prefix: q\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Optimizer.GroupPrefix != "q" {
		t.Fatalf("want group prefix \"q\" from file, got %q", cfg.Optimizer.GroupPrefix)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("BESMARTS_GROUP_PREFIX", "env_p")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Optimizer.GroupPrefix != "env_p" {
		t.Fatalf("want env override, got %q", cfg.Optimizer.GroupPrefix)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg, _ := Load("")
	cfg.Dispatch.Backend = "carrier-pigeon"
	if err := Validate(cfg); err == nil {
		t.Fatal("want an error for an unknown dispatch backend")
	}
}

func TestValidateRequiresNATSAddress(t *testing.T) {
	cfg, _ := Load("")
	cfg.Dispatch.Backend = "nats"
	if err := Validate(cfg); err == nil {
		t.Fatal("want an error when nats backend has no server address")
	}
}
