// Package config provides YAML-based configuration loading for the game,
// its storage backends and the SSH and HTTP servers.
package config

import (
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Config is the complete application configuration.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	History  HistoryConfig  `yaml:"history"`
	AutoPlay AutoPlayConfig `yaml:"autoplay"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	Storage  StorageConfig  `yaml:"storage"`
	SSH      SSHConfig      `yaml:"ssh"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// GameConfig defines rule parameters.
type GameConfig struct {
	FourProbability float64 `yaml:"four_probability"`
}

// HistoryConfig defines undo behaviour.
type HistoryConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// AutoPlayConfig defines how the auto-player evaluates and paces moves.
type AutoPlayConfig struct {
	Policy    string        `yaml:"policy"`
	StepTicks int           `yaml:"step_ticks"`
	Delay     time.Duration `yaml:"delay"`
}

// RuntimeConfig defines the simulation loop.
type RuntimeConfig struct {
	TickRate int   `yaml:"tick_rate"`
	Seed     int64 `yaml:"seed"`
}

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// StorageConfig selects and configures the score and save-game store.
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	DBPath    string `yaml:"db_path"`
	RedisURL  string `yaml:"redis_url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// HTTPConfig configures the JSON API server.
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// SessionTTL drops games left idle this long. Zero keeps them forever.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// GameSettings converts the config into game settings.
// Call Validate first; an unknown policy falls back to pure.
func (c Config) GameSettings() t2048.Settings {
	policy, err := t2048.ParsePolicy(c.AutoPlay.Policy)
	if err != nil {
		policy = t2048.PolicyPure
	}

	return t2048.Settings{
		Rules: t2048.Options{
			FourProbability: c.Game.FourProbability,
			HistoryLimit:    c.History.MaxDepth,
			Policy:          policy,
		},
		AutoStepTicks: c.AutoPlay.StepTicks,
	}
}

// RuntimeFor returns a runtime config for a screen of the given size.
func (c Config) RuntimeFor(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: c.Runtime.TickRate,
		Seed:     c.Runtime.Seed,
	}
}
