package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(map[string]string{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.Browser != Chrome {
		t.Errorf("expected default browser chrome, got %q", cfg.Browser)
	}
	if cfg.Headless || cfg.UseRemote || cfg.UseManagedDriver {
		t.Error("boolean settings should default to false")
	}
	if cfg.Environment != Dev {
		t.Errorf("expected default environment dev, got %q", cfg.Environment)
	}
	if cfg.BaseURL != defaultBaseURLs[Dev] {
		t.Errorf("expected dev base URL, got %q", cfg.BaseURL)
	}
	if cfg.DefaultTimeout != 10*time.Second || cfg.PageLoadTimeout != 30*time.Second || cfg.ImplicitWait != 5*time.Second {
		t.Errorf("unexpected timeout defaults: %v/%v/%v", cfg.DefaultTimeout, cfg.PageLoadTimeout, cfg.ImplicitWait)
	}
}

func TestResolveBrowserNormalization(t *testing.T) {
	tests := []struct {
		input string
		want  Browser
	}{
		{"chrome", Chrome},
		{"CHROME", Chrome},
		{"Firefox", Firefox},
		{"EDGE", Edge},
		{"Safari", Safari},
		{"  firefox  ", Firefox},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg, err := Resolve(map[string]string{KeyBrowser: tt.input})
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if cfg.Browser != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cfg.Browser)
			}
		})
	}

	t.Run("rejects unsupported browser", func(t *testing.T) {
		_, err := Resolve(map[string]string{KeyBrowser: "opera"})
		var cfgErr *Error
		if !errors.As(err, &cfgErr) || cfgErr.Reason != ReasonInvalidValue {
			t.Fatalf("expected InvalidValue error, got %v", err)
		}
	})
}

func TestResolveBaseURLPrecedence(t *testing.T) {
	t.Run("empty override falls back to environment table", func(t *testing.T) {
		cfg, err := Resolve(map[string]string{KeyBaseURL: "", KeyEnvironment: "dev"})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.BaseURL != defaultBaseURLs[Dev] {
			t.Errorf("expected dev default URL, got %q", cfg.BaseURL)
		}
	})

	t.Run("explicit override wins", func(t *testing.T) {
		cfg, err := Resolve(map[string]string{KeyBaseURL: "https://x", KeyEnvironment: "prod"})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.BaseURL != "https://x" {
			t.Errorf("expected override URL, got %q", cfg.BaseURL)
		}
		if cfg.Environment != Prod {
			t.Errorf("environment should still be recorded, got %q", cfg.Environment)
		}
	})

	t.Run("unknown environment without override fails", func(t *testing.T) {
		_, err := Resolve(map[string]string{KeyEnvironment: "bogus", KeyBaseURL: ""})
		var cfgErr *Error
		if !errors.As(err, &cfgErr) || cfgErr.Reason != ReasonUnknownEnvironment {
			t.Fatalf("expected UnknownEnvironment error, got %v", err)
		}
	})

	t.Run("unknown environment with override succeeds", func(t *testing.T) {
		cfg, err := Resolve(map[string]string{KeyEnvironment: "sandbox", KeyBaseURL: "https://sandbox.example.com"})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.BaseURL != "https://sandbox.example.com" {
			t.Errorf("unexpected base URL %q", cfg.BaseURL)
		}
	})
}

func TestResolveRemote(t *testing.T) {
	t.Run("remote without URL fails", func(t *testing.T) {
		_, err := Resolve(map[string]string{KeyUseRemote: "True", KeyRemoteURL: ""})
		var cfgErr *Error
		if !errors.As(err, &cfgErr) || cfgErr.Reason != ReasonMissingRemoteURL {
			t.Fatalf("expected MissingRemoteURL error, got %v", err)
		}
	})

	t.Run("remote with URL succeeds", func(t *testing.T) {
		cfg, err := Resolve(map[string]string{
			KeyUseRemote: "true",
			KeyRemoteURL: "ws://localhost:4444",
		})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !cfg.UseRemote || cfg.RemoteURL != "ws://localhost:4444" {
			t.Errorf("unexpected remote settings: %+v", cfg)
		}
	})
}

func TestResolveBooleans(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"True", true, false},
		{"1", true, false},
		{"yes", true, false},
		{"false", false, false},
		{"0", false, false},
		{"", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run("HEADLESS="+tt.value, func(t *testing.T) {
			cfg, err := Resolve(map[string]string{KeyHeadless: tt.value})
			if tt.wantErr {
				var cfgErr *Error
				if !errors.As(err, &cfgErr) || cfgErr.Reason != ReasonInvalidValue {
					t.Fatalf("expected InvalidValue error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if cfg.Headless != tt.want {
				t.Errorf("expected headless=%v, got %v", tt.want, cfg.Headless)
			}
		})
	}
}

func TestResolveTimeouts(t *testing.T) {
	t.Run("parses positive integers as seconds", func(t *testing.T) {
		cfg, err := Resolve(map[string]string{
			KeyDefaultTimeout:  "3",
			KeyPageLoadTimeout: "45",
			KeyImplicitWait:    "1",
		})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.DefaultTimeout != 3*time.Second || cfg.PageLoadTimeout != 45*time.Second || cfg.ImplicitWait != time.Second {
			t.Errorf("unexpected timeouts: %v/%v/%v", cfg.DefaultTimeout, cfg.PageLoadTimeout, cfg.ImplicitWait)
		}
	})

	for _, bad := range []string{"0", "-5", "ten", "1.5"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := Resolve(map[string]string{KeyDefaultTimeout: bad})
			var cfgErr *Error
			if !errors.As(err, &cfgErr) || cfgErr.Reason != ReasonInvalidValue {
				t.Fatalf("expected InvalidValue error, got %v", err)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	cfg, err := Resolve(map[string]string{
		KeyBrowser:  "firefox",
		KeyHeadless: "true",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	snap := cfg.Snapshot()
	if snap[KeyBrowser] != "firefox" {
		t.Errorf("snapshot browser = %q", snap[KeyBrowser])
	}
	if snap[KeyHeadless] != "true" {
		t.Errorf("snapshot headless = %q", snap[KeyHeadless])
	}
	if snap[KeyDefaultTimeout] != "10" {
		t.Errorf("snapshot default timeout = %q", snap[KeyDefaultTimeout])
	}
}

func TestLoadEnvironments(t *testing.T) {
	t.Run("overrides named environments only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "environments.yaml")
		content := "environments:\n  dev: https://dev.internal.example.com\n  qa: https://qa.internal.example.com\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		table, err := LoadEnvironments(path)
		if err != nil {
			t.Fatalf("LoadEnvironments failed: %v", err)
		}
		if table[Dev] != "https://dev.internal.example.com" {
			t.Errorf("dev not overridden: %q", table[Dev])
		}
		if table[Environment("qa")] != "https://qa.internal.example.com" {
			t.Errorf("qa not added: %q", table[Environment("qa")])
		}
		if table[Prod] != defaultBaseURLs[Prod] {
			t.Errorf("prod should keep default: %q", table[Prod])
		}

		cfg, err := ResolveWith(map[string]string{KeyEnvironment: "qa"}, table)
		if err != nil {
			t.Fatalf("ResolveWith failed: %v", err)
		}
		if cfg.BaseURL != "https://qa.internal.example.com" {
			t.Errorf("unexpected base URL %q", cfg.BaseURL)
		}
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "environments.yaml")
		if err := os.WriteFile(path, []byte("environments:\n  dev: \"\"\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadEnvironments(path); err == nil {
			t.Fatal("expected error for empty URL")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadEnvironments(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
