package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spaceout.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "partial_keeps_defaults",
			body: "[simulation]\nseed = 7\n\n[prefabs]\nwatch = true\n",
			check: func(t *testing.T, c *Config) {
				if c.Simulation.Seed != 7 || !c.Prefabs.Watch {
					t.Fatalf("file values not applied: %+v", c)
				}
				if c.Simulation.TickRate != 60 || c.Window.Width != 1280 || c.Sandbox.Script != "sandbox.tengo" {
					t.Fatalf("defaults lost: %+v", c)
				}
			},
		},
		{
			name: "json_logging",
			body: "[logging]\nlevel = \"debug\"\nformat = \"json\"\n",
			check: func(t *testing.T, c *Config) {
				if c.Logging.Level != "debug" || c.Logging.Format != "json" {
					t.Fatalf("logging not applied: %+v", c.Logging)
				}
			},
		},
		{name: "bad_tick_rate", body: "[simulation]\ntick_rate = 0\n", wantErr: "tick_rate"},
		{name: "bad_window", body: "[window]\nwidth = -1\n", wantErr: "window size"},
		{name: "bad_format", body: "[logging]\nformat = \"xml\"\n", wantErr: "logging.format"},
		{name: "bad_toml", body: "[simulation\n", wantErr: "parse config"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, c.body))
			if c.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), c.wantErr) {
					t.Fatalf("expected error containing %q, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			c.check(t, cfg)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatal(err)
		}
		if *cfg != *Default() {
			t.Fatalf("missing file should yield defaults")
		}
	})

	t.Run("env_path", func(t *testing.T) {
		path := writeConfig(t, "[window]\ntitle = \"from env\"\n")
		t.Setenv(EnvPath, path)
		cfg, err := LoadOrDefault("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Window.Title != "from env" {
			t.Fatalf("expected the env config, got title %q", cfg.Window.Title)
		}
	})

	t.Run("invalid_file_errors", func(t *testing.T) {
		if _, err := LoadOrDefault(writeConfig(t, "[simulation]\ntick_rate = -5\n")); err == nil {
			t.Fatalf("invalid config should not fall back to defaults")
		}
	})
}

func TestTickSeconds(t *testing.T) {
	cases := []struct {
		rate int
		want float32
	}{
		{60, 1.0 / 60},
		{30, 1.0 / 30},
		{0, 1.0 / 60},
	}
	for _, c := range cases {
		if got := (SimulationConfig{TickRate: c.rate}).TickSeconds(); got != c.want {
			t.Fatalf("TickSeconds(%d) = %v, want %v", c.rate, got, c.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []LoggingConfig{
		{Level: "debug", Format: "console"},
		{Level: "warn", Format: "json"},
		{Level: "nonsense"},
	} {
		log, err := NewLogger(cfg)
		if err != nil {
			t.Fatalf("NewLogger(%+v): %v", cfg, err)
		}
		if cfg.Level == "nonsense" && !log.Core().Enabled(0) {
			t.Fatalf("unknown level should fall back to info")
		}
	}
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load("spaceout.toml")
	if err != nil {
		t.Fatalf("shipped config: %v", err)
	}
	if cfg.Sandbox.Script == "" {
		t.Fatalf("shipped config should name a sandbox script")
	}
}
