package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateStructRejectsMissingStorageMode(t *testing.T) {
	c := &Config{Server: Server{ListenAddr: "localhost:8080"}}
	if err := validateStruct(c); err == nil {
		t.Fatalf("expected a validation error for an empty storage mode")
	}
}

func TestValidateStructRejectsUnknownStorageMode(t *testing.T) {
	c := &Config{
		Server:  Server{ListenAddr: "localhost:8080"},
		Storage: Storage{Mode: "s3"},
	}
	if err := validateStruct(c); err == nil {
		t.Fatalf("expected a validation error for an unrecognized storage mode")
	}
}

func TestValidateStructAcceptsWellFormedConfig(t *testing.T) {
	c := &Config{
		Server:  Server{ListenAddr: "localhost:8080"},
		Storage: Storage{Mode: StorageLocal, Local: Local{Root: "/data"}},
	}
	if err := validateStruct(c); err != nil {
		t.Fatalf("validateStruct: %v", err)
	}
}

func TestLoadReadsYAMLAndAppliesEnvOverride(t *testing.T) {
	root := t.TempDir()
	confDir := filepath.Join(root, "conf")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	yaml := "server:\n  listen_addr: localhost:8080\nstorage:\n  mode: local\n  local:\n    root: /data\n"
	if err := os.WriteFile(filepath.Join(confDir, "global.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("KONF_ROOT", root)
	t.Setenv("KONF_STORAGE__LOCAL__ROOT", "/override")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Mode != StorageLocal {
		t.Fatalf("got mode %q, want local", cfg.Storage.Mode)
	}
	if cfg.Storage.Local.Root != "/override" {
		t.Fatalf("got root %q, want env override /override", cfg.Storage.Local.Root)
	}
	if cfg.Paths.Root != root {
		t.Fatalf("got Paths.Root %q, want %q", cfg.Paths.Root, root)
	}
}

func TestLoadFailsValidationForMissingServerAddr(t *testing.T) {
	root := t.TempDir()
	confDir := filepath.Join(root, "conf")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	yaml := "storage:\n  mode: local\n"
	if err := os.WriteFile(filepath.Join(confDir, "global.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("KONF_ROOT", root)
	if _, err := Load(); err == nil {
		t.Fatalf("expected a validation error for a missing listen_addr")
	}
}
