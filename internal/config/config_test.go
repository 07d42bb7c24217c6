package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foyer.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "upstream:\n  base_url: http://api.internal:8000/api/v1\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Upstream.ConnectTimeout != 10*time.Second {
		t.Errorf("connect_timeout = %v, want 10s", cfg.Upstream.ConnectTimeout)
	}
	if cfg.Upstream.CallTimeout != 180*time.Second {
		t.Errorf("call_timeout = %v, want 180s", cfg.Upstream.CallTimeout)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("session ttl = %v, want 24h", cfg.Session.TTL)
	}
	if cfg.Session.CookieName != "foyer_session" {
		t.Errorf("cookie_name = %q", cfg.Session.CookieName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
server:
  addr: ":9090"
upstream:
  base_url: http://localhost:8000/api/v1
  call_timeout: 30s
session:
  ttl: 1h
  cookie_secure: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Upstream.CallTimeout != 30*time.Second {
		t.Errorf("call_timeout = %v, want 30s", cfg.Upstream.CallTimeout)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("session ttl = %v, want 1h", cfg.Session.TTL)
	}
	if !cfg.Session.CookieSecure {
		t.Error("cookie_secure should be true")
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("FOYER_TEST_UPSTREAM", "http://expanded:8000/api/v1")
	path := writeConfig(t, "upstream:\n  base_url: ${FOYER_TEST_UPSTREAM}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://expanded:8000/api/v1" {
		t.Errorf("base_url = %q", cfg.Upstream.BaseURL)
	}
}

func TestLoadUnsetEnvLeftVerbatim(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "upstream:\n  base_url: http://host/api\ndatabase:\n  dsn: ${FOYER_NO_SUCH_VAR}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.DSN != "${FOYER_NO_SUCH_VAR}" {
		t.Errorf("dsn = %q, want verbatim placeholder", cfg.Database.DSN)
	}
}

func TestValidateRequiresBaseURL(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "server:\n  addr: \":8080\"\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load should fail without upstream.base_url")
	}
}

func TestValidateRejectsNonHTTPBaseURL(t *testing.T) {
	t.Parallel()
	cfg := Defaults()
	cfg.Upstream.BaseURL = "ftp://api.internal"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate should reject non-http scheme")
	}
}
