package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Load loads the configuration.
// Search order: customPath -> ~/.t2048/config.yaml -> ./configs/t2048.yaml -> embedded default.
// Files are applied on top of DefaultConfig, so they only need the keys they change.
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if loaded, ok := tryFile(userCfgPath); ok {
			return loaded, loaded.Validate()
		}
	}

	// Try local configs directory
	if loaded, ok := tryFile(filepath.Join("configs", "t2048.yaml")); ok {
		return loaded, loaded.Validate()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// tryFile reads an optional config file. Missing or malformed files are skipped.
func tryFile(path string) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", filename)
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Game.FourProbability < 0 || c.Game.FourProbability > 1:
		return fmt.Errorf("%w: game.four_probability must be in [0, 1], got %v", ErrInvalid, c.Game.FourProbability)
	case c.History.MaxDepth < 0:
		return fmt.Errorf("%w: history.max_depth must not be negative, got %d", ErrInvalid, c.History.MaxDepth)
	case c.AutoPlay.StepTicks <= 0:
		return fmt.Errorf("%w: autoplay.step_ticks must be positive, got %d", ErrInvalid, c.AutoPlay.StepTicks)
	case c.AutoPlay.Delay < 0:
		return fmt.Errorf("%w: autoplay.delay must not be negative, got %s", ErrInvalid, c.AutoPlay.Delay)
	case c.HTTP.SessionTTL < 0:
		return fmt.Errorf("%w: http.session_ttl must not be negative, got %s", ErrInvalid, c.HTTP.SessionTTL)
	case c.Runtime.TickRate <= 0:
		return fmt.Errorf("%w: runtime.tick_rate must be positive, got %d", ErrInvalid, c.Runtime.TickRate)
	}

	if _, err := t2048.ParsePolicy(c.AutoPlay.Policy); err != nil {
		return fmt.Errorf("%w: autoplay.policy: %w", ErrInvalid, err)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("%w: storage.db_path is required for sqlite", ErrInvalid)
		}
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("%w: storage.redis_url is required for redis", ErrInvalid)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalid, c.Storage.Driver)
	}

	return nil
}
