package config

import (
	"os"
	"testing"
	"time"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
)

func TestLoad_EmbeddedMimeTypes(t *testing.T) {
	cfg := Load()

	if len(cfg.MimeTypes.Options) == 0 {
		t.Fatal("expected embedded mime types to be loaded")
	}

	first := cfg.MimeTypes.Options[0]
	if first.Value != "image/jpeg" {
		t.Errorf("expected first mime type image/jpeg, got '%s'", first.Value)
	}
	if first.Label == "" {
		t.Error("expected first mime type to have a label")
	}
}

func TestMimeTypeLabel_Known(t *testing.T) {
	cfg := Load()

	if got := cfg.MimeTypeLabel("application/pdf"); got != "PDF Documents (.pdf)" {
		t.Errorf("expected PDF label, got '%s'", got)
	}
}

func TestMimeTypeLabel_Unknown(t *testing.T) {
	cfg := Load()

	if got := cfg.MimeTypeLabel("application/x-unknown"); got != "application/x-unknown" {
		t.Errorf("expected unknown type to be returned as-is, got '%s'", got)
	}
}

func TestLoad_BackendURLTrailingSlash(t *testing.T) {
	t.Setenv("FILEFLOW_BACKEND_URL", "http://localhost:8190/v1/")

	cfg := Load()

	if cfg.Backend.URL != "http://localhost:8190/v1" {
		t.Errorf("expected trailing slash to be trimmed, got '%s'", cfg.Backend.URL)
	}
}

func TestLoad_DefaultBackendTimeout(t *testing.T) {
	os.Unsetenv("BACKEND_TIMEOUT_SECONDS")

	cfg := Load()

	if cfg.Backend.Timeout != constants.DefaultBackendTimeout {
		t.Errorf("expected default timeout %v, got %v", constants.DefaultBackendTimeout, cfg.Backend.Timeout)
	}
}

func TestLoad_CustomBackendTimeout(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "3")

	cfg := Load()

	if cfg.Backend.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", cfg.Backend.Timeout)
	}
}

func TestLoad_DatabaseDefaults(t *testing.T) {
	os.Unsetenv("DATABASE_MAX_OPEN_CONNS")
	t.Setenv("DATABASE_MAX_IDLE_CONNS", "invalid")

	cfg := Load()

	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("expected default max open conns 10, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 2 {
		t.Errorf("expected default max idle conns 2 for invalid input, got %d", cfg.Database.MaxIdleConns)
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg := Load()

	if len(cfg.Web.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %d: %v", len(cfg.Web.AllowedOrigins), cfg.Web.AllowedOrigins)
	}
	if cfg.Web.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected second origin '%s'", cfg.Web.AllowedOrigins[1])
	}
}

func TestLoad_AllowLocalhost(t *testing.T) {
	t.Setenv("WEB_ALLOW_LOCALHOST_ORIGINS", "")
	if Load().Web.AllowLocalhost {
		t.Error("expected localhost origins to be rejected by default")
	}

	t.Setenv("WEB_ALLOW_LOCALHOST_ORIGINS", "true")
	if !Load().Web.AllowLocalhost {
		t.Error("expected WEB_ALLOW_LOCALHOST_ORIGINS=true to allow localhost origins")
	}
}

func TestLoad_SecureCookies(t *testing.T) {
	t.Setenv("WEB_SECURE_COOKIES", "true")

	cfg := Load()

	if !cfg.Web.SecureCookies {
		t.Error("expected secure cookies to be enabled")
	}
}
