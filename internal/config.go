package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/habits/internal/layout"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// DefaultUser owns every record when auth.user is not configured.
const DefaultUser = "local"

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Display DisplayConfig     `yaml:"display"`
	SSE     SSEConfig         `yaml:"sse"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Display.Validate(); err != nil {
		return err
	}
	return c.SSE.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	// Timezone is the IANA zone used to read stored timestamps.
	Timezone string `yaml:"timezone"`

	loc *time.Location
}

// Validate validates the application configuration and resolves Timezone.
func (c *ApplicationConfig) Validate() error {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("app: timezone: %w", err)
	}
	c.loc = loc
	return c.HTTP.Validate()
}

// Location returns the resolved zone, UTC before Validate runs.
func (c *ApplicationConfig) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
//
// User is the id every request acts as.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
	User  string `yaml:"user"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if c.User == "" {
		c.User = DefaultUser
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
		validation.Field(&c.User, validation.Length(1, 64)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// DisplayConfig holds the default display window and where per-user
// windows are saved.
type DisplayConfig struct {
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
	PrefsPath string `yaml:"prefs_path"`
}

// Validate checks that the default window lies on the slot grid.
func (c *DisplayConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.StartTime, validation.Required),
		validation.Field(&c.EndTime, validation.Required),
		validation.Field(&c.PrefsPath, validation.Required),
	); err != nil {
		return err
	}
	if _, err := c.Window(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// Window parses the configured default window.
func (c *DisplayConfig) Window() (layout.Window, error) {
	return layout.ParseWindow(c.StartTime, c.EndTime)
}

// SSEConfig holds event stream configuration.
type SSEConfig struct {
	StatsThrottle time.Duration `yaml:"stats_throttle"`
	KeepAlive     time.Duration `yaml:"keep_alive"`
}

// Validate validates the SSE configuration.
func (c *SSEConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.StatsThrottle, validation.Min(time.Duration(0))),
		validation.Field(&c.KeepAlive, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
			Timezone: "UTC",
		},
		SQLite: SQLiteConfig{
			Path: "./habits.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
			User: DefaultUser,
		},
		Display: DisplayConfig{
			StartTime: layout.DefaultStartLabel,
			EndTime:   layout.DefaultEndLabel,
			PrefsPath: "./prefs.yaml",
		},
		SSE: SSEConfig{
			StatsThrottle: 2 * time.Second,
			KeepAlive:     15 * time.Second,
		},
	}
}
