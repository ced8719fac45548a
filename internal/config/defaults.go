package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded defaults. They match defaults/t2048.yaml.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			FourProbability: 0.1,
		},
		History: HistoryConfig{
			MaxDepth: 0,
		},
		AutoPlay: AutoPlayConfig{
			Policy:    "pure",
			StepTicks: 15,
			Delay:     0,
		},
		Runtime: RuntimeConfig{
			TickRate: 60,
			Seed:     0,
		},
		Storage: StorageConfig{
			Driver:    DriverSQLite,
			DBPath:    "~/.t2048/scores.db",
			RedisURL:  "redis://localhost:6379/0",
			KeyPrefix: "t2048",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Address:         ":8080",
			ShutdownTimeout: 10 * time.Second,
			SessionTTL:      time.Hour,
		},
	}
}
