package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error for a missing config file: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysPartialFileOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte("server_port = 9000\nview_distance = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != 9000 {
		t.Errorf("expected overridden server_port 9000, got %d", cfg.ServerPort)
	}
	if cfg.ViewDistance != 8 {
		t.Errorf("expected overridden view_distance 8, got %d", cfg.ViewDistance)
	}
	if cfg.TickRate != Default().TickRate {
		t.Errorf("expected tick_rate to keep its default %v, got %v", Default().TickRate, cfg.TickRate)
	}
}
