package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/garnizeh/offerdesk/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "offerdesk.db",
		TokenDuration: 1 * time.Hour,
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	os.Setenv("OFFERDESK_ENV", "production")
	defer os.Unsetenv("OFFERDESK_ENV")

	cfg := baseConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	os.Setenv("OFFERDESK_ENV", "development")
	defer os.Unsetenv("OFFERDESK_ENV")

	cfg := baseConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_DefaultsPopulated(t *testing.T) {
	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}

	if cfg.Company.Name != "AI Planet" {
		t.Fatalf("expected default company name, got %q", cfg.Company.Name)
	}
	if cfg.Workflow.NotificationEmail == "" {
		t.Fatalf("expected notification email default")
	}
	if cfg.Workflow.DefaultContractMonths != 6 {
		t.Fatalf("expected 6 default contract months, got %d", cfg.Workflow.DefaultContractMonths)
	}
	if cfg.Notifier.Driver != "log" {
		t.Fatalf("expected log driver by default, got %q", cfg.Notifier.Driver)
	}
	if cfg.Notifier.Timeout <= 0 || cfg.Notifier.Retries == 0 {
		t.Fatalf("expected notifier defaults, got %+v", cfg.Notifier)
	}
	if cfg.Jobs.Workers <= 0 || cfg.Jobs.MaxAttempts <= 0 {
		t.Fatalf("expected jobs defaults, got %+v", cfg.Jobs)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location())
	}
}

func TestValidate_HTTPNotifierRequiresBaseURL(t *testing.T) {
	cfg := baseConfig()
	cfg.Notifier.Driver = "http"
	cfg.Notifier.From = "offers@aiplanet.com"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail without notifier.base_url")
	}

	cfg.Notifier.BaseURL = "http://localhost:9000"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed, got %v", err)
	}
}

func TestValidate_UnknownDriverAndTimezone(t *testing.T) {
	cfg := baseConfig()
	cfg.Notifier.Driver = "pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}

	cfg = baseConfig()
	cfg.Workflow.Timezone = "Not/AZone"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid timezone to fail")
	}
}

func TestClock_UsesWorkflowTimezone(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Kolkata"); err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cfg := baseConfig()
	cfg.Workflow.Timezone = "Asia/Kolkata"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := cfg.Clock()().Location().String(); got != "Asia/Kolkata" {
		t.Fatalf("expected Asia/Kolkata clock, got %s", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Ensure environment does not interfere
	_ = os.Unsetenv("OFFERDESK_ADDR")
	_ = os.Unsetenv("OFFERDESK_JWT_SECRET")
	_ = os.Unsetenv("OFFERDESK_DATABASE_PATH")
	_ = os.Unsetenv("OFFERDESK_NOTIFIER")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.DatabasePath != "offerdesk.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "offerdesk.db")
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 8*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 8*time.Hour)
	}
	if cfg.Notifier.Driver != "log" {
		t.Fatalf("unexpected notifier driver: %q", cfg.Notifier.Driver)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	f, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	f.Close()

	content := []byte(`addr: ":9090"
jwt_secret: "filekey"
database_path: "test.db"
timeout: 30s
token_duration: 2h
company:
  name: "Acme"
  legal_name: "Acme Pvt Ltd"
workflow:
  notification_email: "people@acme.test"
  default_contract_months: 3
notifier:
  driver: http
  base_url: "http://mail.local"
  from: "offers@acme.test"
  retries: 4
jobs:
  workers: 3
`)
	if err := os.WriteFile(f.Name(), content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" || cfg.JWTSecret != "filekey" || cfg.DatabasePath != "test.db" {
		t.Fatalf("unexpected top-level values: %+v", cfg)
	}
	if cfg.APITimeout != 30*time.Second || cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected durations: %v %v", cfg.APITimeout, cfg.TokenDuration)
	}
	if cfg.Company.Name != "Acme" || cfg.Workflow.DefaultContractMonths != 3 {
		t.Fatalf("unexpected nested values: %+v %+v", cfg.Company, cfg.Workflow)
	}
	if cfg.Notifier.Driver != "http" || cfg.Notifier.Retries != 4 || cfg.Jobs.Workers != 3 {
		t.Fatalf("unexpected notifier/jobs values: %+v %+v", cfg.Notifier, cfg.Jobs)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate on file config: %v", err)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	f, err := os.CreateTemp("", "bad-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	f.Close()

	if err := os.WriteFile(f.Name(), []byte("::: not yaml :::"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(f.Name()); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}
