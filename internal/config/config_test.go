package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("port: %q", cfg.Port)
		}
		if cfg.Currency != "GBP" {
			t.Errorf("currency: %q", cfg.Currency)
		}
		if cfg.UpstreamTimeout != 10*time.Second {
			t.Errorf("upstream timeout: %s", cfg.UpstreamTimeout)
		}
		if cfg.SweepInterval != time.Minute {
			t.Errorf("sweep interval: %s", cfg.SweepInterval)
		}
		if cfg.SweepCutoff != 5*time.Minute {
			t.Errorf("sweep cutoff: %s", cfg.SweepCutoff)
		}
		if len(cfg.CORSOrigins) != 2 {
			t.Errorf("cors origins: %v", cfg.CORSOrigins)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("CURRENCY", "EUR")
		t.Setenv("RESTAURANT_SERVICE_URL", "http://catalog.test")
		t.Setenv("KITCHEN_SERVICE_URL", "http://kitchen.test")
		t.Setenv("UPSTREAM_TIMEOUT", "2s")
		t.Setenv("SWEEP_INTERVAL", "30s")
		t.Setenv("SWEEP_CUTOFF", "90s")
		t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staff.example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Port != "9090" || cfg.Currency != "EUR" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.CatalogURL != "http://catalog.test" || cfg.KitchenURL != "http://kitchen.test" {
			t.Errorf("unexpected upstream urls: %+v", cfg)
		}
		if cfg.UpstreamTimeout != 2*time.Second || cfg.SweepInterval != 30*time.Second || cfg.SweepCutoff != 90*time.Second {
			t.Errorf("unexpected durations: %+v", cfg)
		}
		want := []string{"https://app.example.com", "https://staff.example.com"}
		if len(cfg.CORSOrigins) != len(want) || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
			t.Errorf("cors origins: %v", cfg.CORSOrigins)
		}
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("UPSTREAM_TIMEOUT", "soon")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("env file with a byte order mark", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("\ufeffENV_FILE_BOM_KEY=from-file\n"), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		file, err := os.Open(path)
		if err != nil {
			t.Fatalf("open env file: %v", err)
		}
		defer file.Close()
		defer os.Unsetenv("ENV_FILE_BOM_KEY")

		parseEnvFile(file)

		if got := os.Getenv("ENV_FILE_BOM_KEY"); got != "from-file" {
			t.Fatalf("expected from-file, got %q", got)
		}
	})

	t.Run("cutoff must exceed upstream timeout", func(t *testing.T) {
		t.Setenv("UPSTREAM_TIMEOUT", "1m")
		t.Setenv("SWEEP_CUTOFF", "30s")
		_, err := Load()
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "SWEEP_CUTOFF") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
