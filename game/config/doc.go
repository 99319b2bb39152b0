// Package config provides configuration for the relay server and the
// simulation presets.
//
// The config package handles:
//   - Server settings from relay.yaml, environment variables and defaults
//   - Loading simulation presets from YAML or JSON files
//   - Preset validation, caching and saving
//   - Default preset management
//
// Settings:
//
// LoadSettings starts from DefaultSettings, overlays an optional YAML file
// and then the environment (PORT, HOST, STATIC_DIR, CONFIG_DIR, LOG_LEVEL,
// MAX_ROOMS, PONG_WAIT). Command line flags are applied last by the caller.
//
// Presets:
//
// Presets live in the configs directory, one file per preset. Each file
// only needs a name; every other field falls back to the classic tuning.
//
//	name: hard
//	description: Faster rocks, fewer lives
//	lives: 2
//	speed_step_per_level: 0.25
//
// The "classic" preset always exists. When the directory has no
// classic file, the built-in tuning is served under that name.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hard, err := manager.LoadConfig("hard")
//	presets, err := manager.ListConfigs()
package config
