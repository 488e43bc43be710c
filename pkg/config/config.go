// Package config resolves environment-style settings into the immutable
// run configuration consumed by the driver factory and test suite. The
// configuration is built once at process start and passed by reference;
// nothing in this package reads ambient state after resolution.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Setting keys accepted by Resolve. These mirror the environment variables
// of the same name.
const (
	KeyBrowser         = "BROWSER"
	KeyHeadless        = "HEADLESS"
	KeyUseRemote       = "USE_REMOTE"
	KeyRemoteURL       = "REMOTE_URL"
	KeyManagedDriver   = "USE_WEBDRIVER_MANAGER"
	KeyEnvironment     = "TEST_ENV"
	KeyBaseURL         = "BASE_URL"
	KeyDefaultTimeout  = "DEFAULT_TIMEOUT"
	KeyPageLoadTimeout = "PAGE_LOAD_TIMEOUT"
	KeyImplicitWait    = "IMPLICIT_WAIT"
)

// Browser identifies the browser family a session runs against.
type Browser string

const (
	Chrome  Browser = "chrome"
	Firefox Browser = "firefox"
	Edge    Browser = "edge"
	Safari  Browser = "safari"
)

// Environment names the deployment environment tests run against.
type Environment string

const (
	Dev     Environment = "dev"
	Staging Environment = "staging"
	Prod    Environment = "prod"
)

// Defaults applied when a setting is absent or empty.
const (
	DefaultBrowser         = Chrome
	DefaultEnvironment     = Dev
	DefaultTimeout         = 10 * time.Second
	DefaultPageLoadTimeout = 30 * time.Second
	DefaultImplicitWait    = 5 * time.Second
)

// defaultBaseURLs maps environments to their base URLs. The table can be
// replaced for a run via LoadEnvironments.
var defaultBaseURLs = map[Environment]string{
	Dev:     "https://dev.example.com",
	Staging: "https://staging.example.com",
	Prod:    "https://www.example.com",
}

// Config is the resolved, immutable run configuration.
type Config struct {
	Browser          Browser
	Headless         bool
	UseRemote        bool
	RemoteURL        string
	UseManagedDriver bool
	Environment      Environment
	BaseURL          string
	DefaultTimeout   time.Duration
	PageLoadTimeout  time.Duration
	ImplicitWait     time.Duration
}

// Resolve builds a Config from raw key/value settings. Unknown keys are
// ignored; missing keys fall back to documented defaults. Resolve is pure:
// it never reads the process environment.
func Resolve(raw map[string]string) (*Config, error) {
	return ResolveWith(raw, defaultBaseURLs)
}

// ResolveWith is Resolve with an explicit environment→URL table, used when
// an environments file overrides the built-in defaults.
func ResolveWith(raw map[string]string, baseURLs map[Environment]string) (*Config, error) {
	cfg := &Config{
		Browser:         DefaultBrowser,
		Environment:     DefaultEnvironment,
		DefaultTimeout:  DefaultTimeout,
		PageLoadTimeout: DefaultPageLoadTimeout,
		ImplicitWait:    DefaultImplicitWait,
	}

	if v := strings.ToLower(strings.TrimSpace(raw[KeyBrowser])); v != "" {
		switch Browser(v) {
		case Chrome, Firefox, Edge, Safari:
			cfg.Browser = Browser(v)
		default:
			return nil, &Error{Reason: ReasonInvalidValue, Key: KeyBrowser, Value: raw[KeyBrowser]}
		}
	}

	if v := strings.ToLower(strings.TrimSpace(raw[KeyEnvironment])); v != "" {
		cfg.Environment = Environment(v)
	}

	var err error
	if cfg.Headless, err = parseBool(raw, KeyHeadless); err != nil {
		return nil, err
	}
	if cfg.UseRemote, err = parseBool(raw, KeyUseRemote); err != nil {
		return nil, err
	}
	if cfg.UseManagedDriver, err = parseBool(raw, KeyManagedDriver); err != nil {
		return nil, err
	}

	cfg.RemoteURL = strings.TrimSpace(raw[KeyRemoteURL])
	if cfg.UseRemote && cfg.RemoteURL == "" {
		return nil, &Error{Reason: ReasonMissingRemoteURL, Key: KeyRemoteURL}
	}

	if cfg.DefaultTimeout, err = parseSeconds(raw, KeyDefaultTimeout, DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.PageLoadTimeout, err = parseSeconds(raw, KeyPageLoadTimeout, DefaultPageLoadTimeout); err != nil {
		return nil, err
	}
	if cfg.ImplicitWait, err = parseSeconds(raw, KeyImplicitWait, DefaultImplicitWait); err != nil {
		return nil, err
	}

	// Base URL precedence: an explicit non-empty override wins, otherwise
	// the environment table must know the environment.
	if override := strings.TrimSpace(raw[KeyBaseURL]); override != "" {
		cfg.BaseURL = override
	} else {
		url, ok := baseURLs[cfg.Environment]
		if !ok {
			return nil, &Error{Reason: ReasonUnknownEnvironment, Key: KeyEnvironment, Value: string(cfg.Environment)}
		}
		cfg.BaseURL = url
	}

	return cfg, nil
}

// FromEnv snapshots the relevant process environment variables and resolves
// them. This is the only function in the package that touches ambient state.
func FromEnv() (*Config, error) {
	raw := make(map[string]string)
	for _, key := range []string{
		KeyBrowser, KeyHeadless, KeyUseRemote, KeyRemoteURL, KeyManagedDriver,
		KeyEnvironment, KeyBaseURL, KeyDefaultTimeout, KeyPageLoadTimeout, KeyImplicitWait,
	} {
		if v, ok := os.LookupEnv(key); ok {
			raw[key] = v
		}
	}
	return Resolve(raw)
}

// Snapshot returns the configuration as key/value pairs for inclusion in
// error context and run reports. The remote URL is included verbatim; it is
// expected to carry no credentials.
func (c *Config) Snapshot() map[string]string {
	return map[string]string{
		KeyBrowser:         string(c.Browser),
		KeyHeadless:        strconv.FormatBool(c.Headless),
		KeyUseRemote:       strconv.FormatBool(c.UseRemote),
		KeyRemoteURL:       c.RemoteURL,
		KeyManagedDriver:   strconv.FormatBool(c.UseManagedDriver),
		KeyEnvironment:     string(c.Environment),
		KeyBaseURL:         c.BaseURL,
		KeyDefaultTimeout:  fmt.Sprintf("%d", int(c.DefaultTimeout.Seconds())),
		KeyPageLoadTimeout: fmt.Sprintf("%d", int(c.PageLoadTimeout.Seconds())),
		KeyImplicitWait:    fmt.Sprintf("%d", int(c.ImplicitWait.Seconds())),
	}
}

func parseBool(raw map[string]string, key string) (bool, error) {
	v := strings.TrimSpace(raw[key])
	if v == "" {
		return false, nil
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, &Error{Reason: ReasonInvalidValue, Key: key, Value: v}
}

func parseSeconds(raw map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(raw[key])
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, &Error{Reason: ReasonInvalidValue, Key: key, Value: v}
	}
	return time.Duration(n) * time.Second, nil
}
