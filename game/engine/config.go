package engine

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Bounds accepted by ValidateGameConfig
const (
	MinFieldSize = 100
	MaxFieldSize = 4000
	MaxLives     = 99
	MaxAsteroids = 64
)

// DefaultGameConfig returns the classic arcade tuning: an 800x600 field,
// three lives and a field of 3+level rocks.
func DefaultGameConfig() *GameConfig {
	cfg := &GameConfig{
		Name:        "classic",
		Description: "Classic arcade tuning",

		Width:  800,
		Height: 600,
		Lives:  3,

		ShipRadius:        15,
		RotationStep:      0.08,
		ThrustPower:       0.2,
		Drag:              0.99,
		InvulnerableTicks: 150,

		BulletSpeed:    7,
		BulletLifetime: 60,
		BulletSize:     4,

		BaseAsteroids:       3,
		AsteroidMinSize:     40,
		AsteroidSizeRange:   20,
		AsteroidBaseSpeed:   3,
		SpeedStepPerLevel:   0.1,
		SplitThreshold:      20,
		FragmentSpeedFactor: 1.2,
		HitFactor:           0.8,
	}
	cfg.Scoring.LargeThreshold = 40
	cfg.Scoring.MediumThreshold = 20
	cfg.Scoring.Large = 20
	cfg.Scoring.Medium = 50
	cfg.Scoring.Small = 100
	return cfg
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.Width < MinFieldSize || config.Width > MaxFieldSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %v", MinFieldSize, MaxFieldSize, config.Width)
	}
	if config.Height < MinFieldSize || config.Height > MaxFieldSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %v", MinFieldSize, MaxFieldSize, config.Height)
	}
	if config.Lives < 1 || config.Lives > MaxLives {
		return fmt.Errorf("config validation: lives must be between 1 and %d, got %d", MaxLives, config.Lives)
	}

	if config.ShipRadius <= 0 {
		return fmt.Errorf("config validation: ship_radius must be positive")
	}
	if config.Drag <= 0 || config.Drag > 1 {
		return fmt.Errorf("config validation: drag must be in (0, 1], got %v", config.Drag)
	}
	if config.RotationStep <= 0 || config.ThrustPower <= 0 {
		return fmt.Errorf("config validation: rotation_step and thrust_power must be positive")
	}
	if config.InvulnerableTicks < 0 {
		return fmt.Errorf("config validation: invulnerable_ticks cannot be negative")
	}

	if config.BulletSpeed <= 0 || config.BulletLifetime <= 0 || config.BulletSize <= 0 {
		return fmt.Errorf("config validation: bullet_speed, bullet_lifetime and bullet_size must be positive")
	}

	if config.BaseAsteroids < 0 || config.BaseAsteroids > MaxAsteroids {
		return fmt.Errorf("config validation: base_asteroids must be between 0 and %d, got %d", MaxAsteroids, config.BaseAsteroids)
	}
	if config.AsteroidMinSize <= 0 || config.AsteroidSizeRange < 0 {
		return fmt.Errorf("config validation: asteroid_min_size must be positive and asteroid_size_range non-negative")
	}
	if config.AsteroidBaseSpeed < 0 || config.SpeedStepPerLevel < 0 {
		return fmt.Errorf("config validation: asteroid speeds cannot be negative")
	}
	// Fragments halve in size, so a threshold below 1 would split forever.
	if config.SplitThreshold < 1 {
		return fmt.Errorf("config validation: split_threshold must be at least 1, got %v", config.SplitThreshold)
	}
	if config.FragmentSpeedFactor <= 0 || config.HitFactor <= 0 {
		return fmt.Errorf("config validation: fragment_speed_factor and hit_factor must be positive")
	}

	s := config.Scoring
	if s.MediumThreshold > s.LargeThreshold {
		return fmt.Errorf("config validation: scoring.medium_threshold (%v) exceeds large_threshold (%v)", s.MediumThreshold, s.LargeThreshold)
	}
	if s.Large < 0 || s.Medium < 0 || s.Small < 0 {
		return fmt.Errorf("config validation: scores cannot be negative")
	}

	for _, v := range []float64{config.Width, config.Height, config.Drag, config.BulletSpeed, config.AsteroidBaseSpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config validation: numeric fields must be finite")
		}
	}

	return nil
}

// LoadGameConfig loads a preset from a YAML or JSON file and validates it.
// Fields missing from the file keep their DefaultGameConfig values.
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig decodes a preset document on top of the defaults.
// YAML is a superset of JSON, so both formats are accepted.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	config := DefaultGameConfig()
	config.Name = ""
	config.Description = ""
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// asteroidScore returns the points for destroying a rock of the given size.
func (c *GameConfig) asteroidScore(size float64) int {
	switch {
	case size > c.Scoring.LargeThreshold:
		return c.Scoring.Large
	case size > c.Scoring.MediumThreshold:
		return c.Scoring.Medium
	default:
		return c.Scoring.Small
	}
}
