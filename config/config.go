// Package config loads run settings from defaults, an optional YAML file,
// SAUCECHECK_* environment variables and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/networkteam/saucecheck/report"
	"github.com/networkteam/saucecheck/session"
	"github.com/networkteam/saucecheck/suites"
)

const EnvPrefix = "SAUCECHECK"

type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	Browser       string        `mapstructure:"browser"`
	Headless      bool          `mapstructure:"headless"`
	SlowMo        time.Duration `mapstructure:"slow_mo"`
	ActionTimeout time.Duration `mapstructure:"action_timeout"`
	WaitTimeout   time.Duration `mapstructure:"wait_timeout"`
	PopupTimeout  time.Duration `mapstructure:"popup_timeout"`

	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	StopOnFailure bool   `mapstructure:"stop_on_failure"`
	Parallel      int    `mapstructure:"parallel"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`

	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`
}

type ReportConfig struct {
	// Format is one of report.Formats.
	Format string `mapstructure:"format"`
	// Output is a file path, "-" writes to stdout.
	Output string `mapstructure:"output"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"base-url":        "base_url",
	"browser":         "browser",
	"headless":        "headless",
	"slow-mo":         "slow_mo",
	"action-timeout":  "action_timeout",
	"wait-timeout":    "wait_timeout",
	"popup-timeout":   "popup_timeout",
	"username":        "username",
	"password":        "password",
	"stop-on-failure": "stop_on_failure",
	"parallel":        "parallel",
	"screenshot-dir":  "screenshot_dir",
	"report":          "report.format",
	"output":          "report.output",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

func setDefaults(v *viper.Viper) {
	defaultCredentials := suites.DefaultCredentials()

	v.SetDefault("base_url", session.DefaultBaseURL)
	v.SetDefault("browser", session.BrowserChromium)
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", time.Duration(0))
	v.SetDefault("action_timeout", session.DefaultActionTimeout)
	v.SetDefault("wait_timeout", session.DefaultWaitTimeout)
	v.SetDefault("popup_timeout", session.DefaultPopupTimeout)
	v.SetDefault("username", defaultCredentials.Username)
	v.SetDefault("password", defaultCredentials.Password)
	v.SetDefault("stop_on_failure", false)
	v.SetDefault("parallel", 1)
	v.SetDefault("screenshot_dir", "")
	v.SetDefault("report.format", report.FormatText)
	v.SetDefault("report.output", "-")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// RegisterFlags adds the run flags to fs. Flags only override other sources when set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("base-url", session.DefaultBaseURL, "storefront URL")
	fs.String("browser", session.BrowserChromium, "browser engine: chromium, firefox or webkit")
	fs.Bool("headless", true, "run the browser without a window")
	fs.Duration("slow-mo", 0, "delay every browser operation")
	fs.Duration("action-timeout", session.DefaultActionTimeout, "implicit wait of element interactions")
	fs.Duration("wait-timeout", session.DefaultWaitTimeout, "default bound of explicit waits")
	fs.Duration("popup-timeout", session.DefaultPopupTimeout, "how long to wait for the popup after login")
	fs.String("username", suites.DefaultCredentials().Username, "login user")
	fs.String("password", suites.DefaultCredentials().Password, "login password")
	fs.Bool("stop-on-failure", false, "skip the remaining steps of a suite after a failed step")
	fs.Int("parallel", 1, "number of suites running at the same time")
	fs.String("screenshot-dir", "", "directory for screenshots of failed steps")
	fs.String("report", report.FormatText, "report format: "+strings.Join(report.Formats, ", "))
	fs.StringP("output", "o", "-", "report file, - for stdout")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-format", "text", "log format: text or json")
}

// Load reads the configuration. configFile is optional; flags may be nil or a set
// prepared with RegisterFlags.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have a fixed set of choices or a valid range.
func (c *Config) Validate() error {
	var errs []error
	if c.SlowMo < 0 {
		errs = append(errs, fmt.Errorf("slow_mo must not be negative, got %s", c.SlowMo))
	}
	for _, timeout := range []struct {
		key   string
		value time.Duration
	}{
		{"action_timeout", c.ActionTimeout},
		{"wait_timeout", c.WaitTimeout},
		{"popup_timeout", c.PopupTimeout},
	} {
		if timeout.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", timeout.key, timeout.value))
		}
	}
	if !slices.Contains([]string{session.BrowserChromium, session.BrowserFirefox, session.BrowserWebKit}, c.Browser) {
		errs = append(errs, fmt.Errorf("unknown browser %q", c.Browser))
	}
	if !slices.Contains(report.Formats, c.Report.Format) {
		errs = append(errs, fmt.Errorf("unknown report format %q", c.Report.Format))
	}
	if c.Parallel < 1 {
		errs = append(errs, fmt.Errorf("parallel must be at least 1, got %d", c.Parallel))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Credentials returns the login used by the suites.
func (c *Config) Credentials() suites.Credentials {
	return suites.Credentials{Username: c.Username, Password: c.Password}
}

// SessionOptions maps the configuration onto browser session options.
func (c *Config) SessionOptions(logger *slog.Logger) session.Options {
	return session.Options{
		BaseURL:       c.BaseURL,
		Browser:       c.Browser,
		Headless:      c.Headless,
		SlowMo:        c.SlowMo,
		ActionTimeout: c.ActionTimeout,
		WaitTimeout:   c.WaitTimeout,
		PopupTimeout:  c.PopupTimeout,
		Logger:        logger,
	}
}

// NewLogger creates the logger configured by the log settings.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.level()
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}
