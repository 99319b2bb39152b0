package engine

// Vector is a point or a velocity in screen units.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale multiplies both components by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

// Ship is the player's vessel
type Ship struct {
	Position     Vector  `json:"position"`
	Velocity     Vector  `json:"velocity"`
	Angle        float64 `json:"angle"`
	Radius       float64 `json:"radius"`
	Invulnerable int     `json:"invulnerable"` // ticks left
	Thrusting    bool    `json:"thrusting"`
}

// Bullet is a projectile fired from the ship's nose
type Bullet struct {
	Position Vector `json:"position"`
	Velocity Vector `json:"velocity"`
	Life     int    `json:"life"`
}

// Asteroid is a drifting rock. Size doubles as its collision radius.
// SpeedMult is the multiplier it was spawned with; fragments compound it.
type Asteroid struct {
	Position  Vector  `json:"position"`
	Velocity  Vector  `json:"velocity"`
	Size      float64 `json:"size"`
	SpeedMult float64 `json:"speed_mult"`
}

// Pose is what a client publishes to its room on every frame.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Input is the set of controls held during one tick. Fire and Restart are
// edge-triggered: set them only on the tick the key goes down.
type Input struct {
	Left    bool `json:"left,omitempty"`
	Right   bool `json:"right,omitempty"`
	Thrust  bool `json:"thrust,omitempty"`
	Fire    bool `json:"fire,omitempty"`
	Restart bool `json:"restart,omitempty"`
}

// GameConfig holds the tunables of a game preset
type GameConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Lives  int     `json:"lives" yaml:"lives"`

	ShipRadius        float64 `json:"ship_radius" yaml:"ship_radius"`
	RotationStep      float64 `json:"rotation_step" yaml:"rotation_step"`
	ThrustPower       float64 `json:"thrust_power" yaml:"thrust_power"`
	Drag              float64 `json:"drag" yaml:"drag"`
	InvulnerableTicks int     `json:"invulnerable_ticks" yaml:"invulnerable_ticks"`

	BulletSpeed    float64 `json:"bullet_speed" yaml:"bullet_speed"`
	BulletLifetime int     `json:"bullet_lifetime" yaml:"bullet_lifetime"`
	BulletSize     float64 `json:"bullet_size" yaml:"bullet_size"`

	BaseAsteroids       int     `json:"base_asteroids" yaml:"base_asteroids"`
	AsteroidMinSize     float64 `json:"asteroid_min_size" yaml:"asteroid_min_size"`
	AsteroidSizeRange   float64 `json:"asteroid_size_range" yaml:"asteroid_size_range"`
	AsteroidBaseSpeed   float64 `json:"asteroid_base_speed" yaml:"asteroid_base_speed"`
	SpeedStepPerLevel   float64 `json:"speed_step_per_level" yaml:"speed_step_per_level"`
	SplitThreshold      float64 `json:"split_threshold" yaml:"split_threshold"`
	FragmentSpeedFactor float64 `json:"fragment_speed_factor" yaml:"fragment_speed_factor"`
	HitFactor           float64 `json:"hit_factor" yaml:"hit_factor"`

	Scoring struct {
		LargeThreshold  float64 `json:"large_threshold" yaml:"large_threshold"`
		MediumThreshold float64 `json:"medium_threshold" yaml:"medium_threshold"`
		Large           int     `json:"large" yaml:"large"`
		Medium          int     `json:"medium" yaml:"medium"`
		Small           int     `json:"small" yaml:"small"`
	} `json:"scoring" yaml:"scoring"`

	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// GameState represents the current state of a game
type GameState struct {
	Ship      Ship       `json:"ship"`
	Bullets   []Bullet   `json:"bullets"`
	Asteroids []Asteroid `json:"asteroids"`

	Score     int     `json:"score"`
	Lives     int     `json:"lives"`
	Level     int     `json:"level"`
	SpeedMult float64 `json:"speed_mult"`
	GameOver  bool    `json:"game_over"`

	Tick       int `json:"tick"`
	Destroyed  int `json:"asteroids_destroyed"`
	ShotsFired int `json:"shots_fired"`
	ShipsLost  int `json:"ships_lost"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
