package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr          string         `yaml:"addr"`
	JWTSecret     string         `yaml:"jwt_secret"`
	APITimeout    time.Duration  `yaml:"timeout"`
	DatabasePath  string         `yaml:"database_path"`
	TokenDuration time.Duration  `yaml:"token_duration"`
	Company       CompanyConfig  `yaml:"company"`
	Workflow      WorkflowConfig `yaml:"workflow"`
	Notifier      NotifierConfig `yaml:"notifier"`
	Jobs          JobsConfig     `yaml:"jobs"`
}

// CompanyConfig is the identity printed on letters and notification envelopes.
type CompanyConfig struct {
	Name           string `yaml:"name"`
	LegalName      string `yaml:"legal_name"`
	Address        string `yaml:"address"`
	Website        string `yaml:"website"`
	SignatoryTitle string `yaml:"signatory_title"`
	LogoPath       string `yaml:"logo_path"`
}

type WorkflowConfig struct {
	// NotificationEmail receives escalation and offer-sent notices.
	NotificationEmail     string `yaml:"notification_email"`
	DefaultContractMonths int    `yaml:"default_contract_months"`
	DefaultHRName         string `yaml:"default_hr_name"`
	// Timezone decides what "today" is for escalation and sent dates.
	Timezone string `yaml:"timezone"`
}

type NotifierConfig struct {
	// Driver is "log" or "http".
	Driver                  string        `yaml:"driver"`
	BaseURL                 string        `yaml:"base_url"`
	SendPath                string        `yaml:"send_path"`
	APIKey                  string        `yaml:"api_key"`
	From                    string        `yaml:"from"`
	FromName                string        `yaml:"from_name"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
	RatePerSecond           float64       `yaml:"rate_per_second"`
	Burst                   int           `yaml:"burst"`
}

// JobsConfig controls the notification redelivery workers.
type JobsConfig struct {
	Workers     int `yaml:"workers"`
	MaxAttempts int `yaml:"max_attempts"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 8 * time.Hour

	cfg := &Config{
		Addr:          getEnv("OFFERDESK_ADDR", ":8080"),
		JWTSecret:     getEnv("OFFERDESK_JWT_SECRET", insecureJWTSecret),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("OFFERDESK_DATABASE_PATH", "offerdesk.db"),
		TokenDuration: tokenDuration,
		Notifier: NotifierConfig{
			Driver: getEnv("OFFERDESK_NOTIFIER", "log"),
			APIKey: os.Getenv("OFFERDESK_NOTIFIER_API_KEY"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks required settings and fills defaults for optional ones.
func (c *Config) Validate() error {
	env := getEnv("OFFERDESK_ENV", "development")
	if c.JWTSecret == "" {
		return fmt.Errorf("config: jwt_secret is required")
	}
	if c.JWTSecret == insecureJWTSecret && env != "development" {
		return fmt.Errorf("config: insecure jwt_secret in %s environment", env)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database_path is required")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = 8 * time.Hour
	}

	if c.Company.Name == "" {
		c.Company.Name = "AI Planet"
	}
	if c.Company.LegalName == "" {
		c.Company.LegalName = "DPhi Tech Private Limited"
	}
	if c.Company.Address == "" {
		c.Company.Address = "CIE IIIT Hyderabad, Vindhya C4, IIIT-H Campus, Gachibowli, Telangana 500032"
	}
	if c.Company.SignatoryTitle == "" {
		c.Company.SignatoryTitle = "Founder, " + c.Company.Name
	}

	if c.Workflow.NotificationEmail == "" {
		c.Workflow.NotificationEmail = "hr@aiplanet.com"
	}
	if c.Workflow.DefaultContractMonths <= 0 {
		c.Workflow.DefaultContractMonths = 6
	}
	if c.Workflow.Timezone == "" {
		c.Workflow.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.Workflow.Timezone); err != nil {
		return fmt.Errorf("config: workflow.timezone: %w", err)
	}

	c.Notifier.Driver = strings.ToLower(c.Notifier.Driver)
	switch c.Notifier.Driver {
	case "":
		c.Notifier.Driver = "log"
	case "log":
	case "http":
		if c.Notifier.BaseURL == "" {
			return fmt.Errorf("config: notifier.base_url is required for the http driver")
		}
		if c.Notifier.From == "" {
			return fmt.Errorf("config: notifier.from is required for the http driver")
		}
	default:
		return fmt.Errorf("config: unknown notifier driver %q", c.Notifier.Driver)
	}
	if c.Notifier.Timeout <= 0 {
		c.Notifier.Timeout = 10 * time.Second
	}
	if c.Notifier.Retries == 0 {
		c.Notifier.Retries = 2
	}
	if c.Notifier.Backoff <= 0 {
		c.Notifier.Backoff = 500 * time.Millisecond
	}
	if c.Notifier.CircuitFailureThreshold == 0 {
		c.Notifier.CircuitFailureThreshold = 5
	}
	if c.Notifier.CircuitReset <= 0 {
		c.Notifier.CircuitReset = 30 * time.Second
	}

	if c.Jobs.Workers <= 0 {
		c.Jobs.Workers = 2
	}
	if c.Jobs.MaxAttempts <= 0 {
		c.Jobs.MaxAttempts = 5
	}

	return nil
}

// Location returns the configured workflow timezone, UTC when unset or invalid.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Workflow.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock returns the current time in the workflow timezone.
func (c *Config) Clock() func() time.Time {
	loc := c.Location()
	return func() time.Time { return time.Now().In(loc) }
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
