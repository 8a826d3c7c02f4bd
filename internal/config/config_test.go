package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.IndexFilename != "asset-index.json" {
		t.Errorf("IndexFilename = %q, want asset-index.json", cfg.IndexFilename)
	}
	if cfg.StorageBackend != "local" {
		t.Errorf("StorageBackend = %q, want local", cfg.StorageBackend)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ASSET_ROOT", "/srv/assets")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssetRoot != "/srv/assets" {
		t.Errorf("AssetRoot = %q, want /srv/assets", cfg.AssetRoot)
	}
	if !cfg.S3UseSSL {
		t.Error("S3UseSSL should be true")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "ftp")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
