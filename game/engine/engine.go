package engine

import (
	"math"
	"math/rand"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	GetScore() int
	Pose() Pose

	// Simulation
	Tick(in Input) *GameState
	Run(ticks int, pilot func(*GameState) Input) *GameState

	// Configuration
	GetConfig() *GameConfig
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration.
// A zero Seed draws one from the clock.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &GameEngine{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
	e.Reset()
	return e, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// GetConfig returns the active configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Reset starts a fresh game at level 1 with full lives
func (e *GameEngine) Reset() *GameState {
	e.state = &GameState{
		Lives:     e.config.Lives,
		Level:     1,
		Width:     e.config.Width,
		Height:    e.config.Height,
		Bullets:   []Bullet{},
		Asteroids: []Asteroid{},
	}
	e.startLevel()
	return e.state
}

// IsGameOver returns whether the ship ran out of lives
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// Pose returns the ship's position and heading
func (e *GameEngine) Pose() Pose {
	s := e.state.Ship
	return Pose{X: s.Position.X, Y: s.Position.Y, Angle: s.Angle}
}

// Tick advances the simulation by one frame. Once the game is over the state
// is frozen until an input with Restart arrives.
func (e *GameEngine) Tick(in Input) *GameState {
	if e.state.GameOver {
		if in.Restart {
			e.Reset()
		}
		return e.state
	}

	e.state.Tick++

	if in.Fire {
		e.fire()
	}

	e.state.Ship.update(in, e.config)
	e.updateBullets()
	e.updateAsteroids()

	e.checkBulletHits()
	e.checkShipHit()

	if !e.state.GameOver && len(e.state.Asteroids) == 0 {
		e.state.Level++
		e.startLevel()
	}

	return e.state
}

// Run ticks the engine until the budget is spent or the game ends.
func (e *GameEngine) Run(ticks int, pilot func(*GameState) Input) *GameState {
	for i := 0; i < ticks && !e.state.GameOver; i++ {
		var in Input
		if pilot != nil {
			in = pilot(e.state)
		}
		e.Tick(in)
	}
	return e.state
}

// startLevel recentres the ship and seeds a field of base+level rocks.
func (e *GameEngine) startLevel() {
	e.state.SpeedMult = 1 + float64(e.state.Level)*e.config.SpeedStepPerLevel
	e.state.Bullets = e.state.Bullets[:0]
	e.respawnShip()

	count := e.config.BaseAsteroids + e.state.Level
	e.state.Asteroids = make([]Asteroid, 0, count*2)
	for i := 0; i < count; i++ {
		size := e.config.AsteroidMinSize + e.rng.Float64()*e.config.AsteroidSizeRange
		e.state.Asteroids = append(e.state.Asteroids, e.newAsteroid(e.edgePoint(), size, e.state.SpeedMult))
	}
}

// respawnShip puts the ship at the centre, at rest, pointing up, protected.
func (e *GameEngine) respawnShip() {
	e.state.Ship = Ship{
		Position:     Vector{X: e.config.Width / 2, Y: e.config.Height / 2},
		Angle:        -math.Pi / 2,
		Radius:       e.config.ShipRadius,
		Invulnerable: e.config.InvulnerableTicks,
	}
}

func (e *GameEngine) newAsteroid(pos Vector, size, speedMult float64) Asteroid {
	speed := e.config.AsteroidBaseSpeed * speedMult
	return Asteroid{
		Position: pos,
		Velocity: Vector{
			X: (e.rng.Float64() - 0.5) * speed,
			Y: (e.rng.Float64() - 0.5) * speed,
		},
		Size:      size,
		SpeedMult: speedMult,
	}
}

// edgePoint picks a random point on one of the four field edges.
func (e *GameEngine) edgePoint() Vector {
	w, h := e.config.Width, e.config.Height
	switch e.rng.Intn(4) {
	case 0:
		return Vector{X: e.rng.Float64() * w, Y: 0}
	case 1:
		return Vector{X: w, Y: e.rng.Float64() * h}
	case 2:
		return Vector{X: e.rng.Float64() * w, Y: h}
	default:
		return Vector{X: 0, Y: e.rng.Float64() * h}
	}
}
