package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SPACEOUT_CONFIG"

const DefaultPath = "config/spaceout.toml"

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Window     WindowConfig     `toml:"window"`
	Logging    LoggingConfig    `toml:"logging"`
	Prefabs    PrefabsConfig    `toml:"prefabs"`
	Sandbox    SandboxConfig    `toml:"sandbox"`
}

type SimulationConfig struct {
	TickRate          int     `toml:"tick_rate"` // ticks per second
	Seed              uint64  `toml:"seed"`
	PhysicsIterations int     `toml:"physics_iterations"`
	StatsInterval     float32 `toml:"stats_interval"` // seconds between stats log lines
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

type PrefabsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

type SandboxConfig struct {
	Script string `toml:"script"`
}

// TickSeconds is the fixed simulation step.
func (c SimulationConfig) TickSeconds() float32 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float32(c.TickRate)
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or the path in SPACEOUT_CONFIG when path is
// empty. A missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:          60,
			Seed:              420133742,
			PhysicsIterations: 10,
			StatsInterval:     10,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "spaceout",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Prefabs: PrefabsConfig{
			Dir:   "prefabs",
			Watch: false,
		},
		Sandbox: SandboxConfig{
			Script: "sandbox.tengo",
		},
	}
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
