package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/habits/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
	if cfg.User != DefaultUser {
		t.Errorf("user = %q, want %q", cfg.User, DefaultUser)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestApplicationConfig_Timezone(t *testing.T) {
	cfg := NewDefaultConfig().App
	cfg.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown zone should fail")
	}

	cfg.Timezone = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty zone should default to UTC: %v", err)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", cfg.Location())
	}
}

func TestDisplayConfig_Window(t *testing.T) {
	cfg := NewDefaultConfig().Display
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default display should pass: %v", err)
	}

	cfg.StartTime = "7:10 AM"
	if err := cfg.Validate(); err == nil {
		t.Fatal("off-grid start should fail")
	}

	cfg.StartTime, cfg.EndTime = "10:00 PM", "7:00 AM"
	if err := cfg.Validate(); err == nil {
		t.Fatal("reversed window should fail")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("HABITS_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `app:
  log_level: debug
  http:
    port: 9090
  timezone: Europe/Berlin
auth:
  mode: token
  token: ${HABITS_TEST_TOKEN}
display:
  start_time: "6:00 AM"
  end_time: "11:59 PM"
sse:
  stats_throttle: 5s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		if strings.Contains(err.Error(), "unknown time zone") {
			t.Skipf("tzdata unavailable: %v", err)
		}
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.Auth.Token != "s3cret" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.SSE.StatsThrottle != 5*time.Second {
		t.Errorf("stats throttle = %v", cfg.SSE.StatsThrottle)
	}
	if cfg.App.Location().String() != "Europe/Berlin" {
		t.Errorf("location = %v", cfg.App.Location())
	}
	if cfg.SQLite.Path != "./habits.db" || cfg.Auth.User != DefaultUser {
		t.Errorf("defaults lost: %+v %+v", cfg.SQLite, cfg.Auth)
	}
}
