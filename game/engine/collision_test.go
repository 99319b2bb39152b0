package engine

import "testing"

func TestEngine_BulletSplitsAndScores(t *testing.T) {
	tests := []struct {
		name          string
		size          float64
		wantScore     int
		wantFragments int
	}{
		{"large rock", 50, 20, 2},
		{"medium rock", 30, 50, 2},
		{"small rock", 15, 100, 0},
		{"exactly at split threshold", 20, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _ := NewEngine(seededConfig())
			state := eng.GetState()

			target := Asteroid{Position: Vector{X: 200, Y: 200}, Size: tt.size}
			bystander := Asteroid{Position: Vector{X: 700, Y: 500}, Size: 10}
			state.Asteroids = []Asteroid{target, bystander}
			state.Bullets = []Bullet{{Position: Vector{X: 200, Y: 200}, Life: 10}}

			eng.Tick(Input{})

			state = eng.GetState()
			if state.Score != tt.wantScore {
				t.Errorf("Expected score %d, got %d", tt.wantScore, state.Score)
			}
			if len(state.Bullets) != 0 {
				t.Errorf("Expected the bullet to be consumed, %d left", len(state.Bullets))
			}
			if state.Destroyed != 1 {
				t.Errorf("Expected 1 destroyed asteroid, got %d", state.Destroyed)
			}

			if len(state.Asteroids) != 1+tt.wantFragments {
				t.Fatalf("Expected %d asteroids, got %d", 1+tt.wantFragments, len(state.Asteroids))
			}
			for _, frag := range state.Asteroids[1:] {
				if frag.Size != tt.size/2 {
					t.Errorf("Expected fragment size %v, got %v", tt.size/2, frag.Size)
				}
			}
		})
	}
}

func TestEngine_BulletHitsAtMostOneRock(t *testing.T) {
	eng, _ := NewEngine(seededConfig())
	state := eng.GetState()

	state.Asteroids = []Asteroid{
		{Position: Vector{X: 200, Y: 200}, Size: 10},
		{Position: Vector{X: 202, Y: 200}, Size: 10},
	}
	state.Bullets = []Bullet{{Position: Vector{X: 201, Y: 200}, Life: 10}}

	eng.Tick(Input{})

	if got := len(eng.GetState().Asteroids); got != 1 {
		t.Errorf("Expected one rock to survive, got %d", got)
	}
}

func TestEngine_ShipHit(t *testing.T) {
	t.Run("loses a life and respawns protected", func(t *testing.T) {
		eng, _ := NewEngine(seededConfig())
		state := eng.GetState()

		state.Ship.Invulnerable = 0
		state.Ship.Position = Vector{X: 100, Y: 100}
		state.Asteroids = []Asteroid{{Position: Vector{X: 110, Y: 100}, Size: 20}}

		eng.Tick(Input{})

		state = eng.GetState()
		if state.Lives != 2 {
			t.Errorf("Expected 2 lives, got %d", state.Lives)
		}
		if state.ShipsLost != 1 {
			t.Errorf("Expected 1 ship lost, got %d", state.ShipsLost)
		}
		if state.Ship.Position != (Vector{X: 400, Y: 300}) {
			t.Errorf("Expected respawn at centre, got %+v", state.Ship.Position)
		}
		if state.Ship.Invulnerable != 150 {
			t.Errorf("Expected respawn protection, got %d", state.Ship.Invulnerable)
		}
	})

	t.Run("ignored while invulnerable", func(t *testing.T) {
		eng, _ := NewEngine(seededConfig())
		state := eng.GetState()

		state.Asteroids = []Asteroid{{Position: state.Ship.Position, Size: 20}}

		eng.Tick(Input{})

		if eng.GetState().Lives != 3 {
			t.Errorf("Expected no life lost, got %d lives", eng.GetState().Lives)
		}
	})

	t.Run("miss outside hit radius", func(t *testing.T) {
		eng, _ := NewEngine(seededConfig())
		state := eng.GetState()

		state.Ship.Invulnerable = 0
		// 15 + 20*0.8 = 31
		state.Asteroids = []Asteroid{{Position: Vector{X: 432, Y: 300}, Size: 20}}

		eng.Tick(Input{})

		if eng.GetState().Lives != 3 {
			t.Errorf("Expected no life lost, got %d lives", eng.GetState().Lives)
		}
	})
}

func TestAsteroidScore(t *testing.T) {
	cfg := DefaultGameConfig()

	tests := []struct {
		size float64
		want int
	}{
		{60, 20},
		{40.5, 20},
		{40, 50},
		{25, 50},
		{20, 100},
		{5, 100},
	}

	for _, tt := range tests {
		if got := cfg.asteroidScore(tt.size); got != tt.want {
			t.Errorf("asteroidScore(%v) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestBoxesOverlap(t *testing.T) {
	if !BoxesOverlap(Vector{X: 0, Y: 0}, 2, Vector{X: 10, Y: 0}, 9) {
		t.Error("Expected overlap")
	}
	if BoxesOverlap(Vector{X: 0, Y: 0}, 2, Vector{X: 10, Y: 10}, 5) {
		t.Error("Expected no overlap")
	}
}

func TestEngine_FragmentsCompoundSpeed(t *testing.T) {
	cfg := seededConfig()
	eng, _ := NewEngine(cfg)
	level := eng.GetState().SpeedMult

	parent := Asteroid{Position: Vector{X: 200, Y: 200}, Size: 60, SpeedMult: level}
	first := eng.split(parent)
	for _, frag := range first {
		if !almostEqual(frag.SpeedMult, level*cfg.FragmentSpeedFactor) {
			t.Errorf("Expected first generation multiplier %v, got %v", level*cfg.FragmentSpeedFactor, frag.SpeedMult)
		}
	}

	second := eng.split(first[0])
	want := level * cfg.FragmentSpeedFactor * cfg.FragmentSpeedFactor
	for _, frag := range second {
		if !almostEqual(frag.SpeedMult, want) {
			t.Errorf("Expected second generation multiplier %v, got %v", want, frag.SpeedMult)
		}
		limit := cfg.AsteroidBaseSpeed * want / 2
		if frag.Velocity.X < -limit || frag.Velocity.X > limit || frag.Velocity.Y < -limit || frag.Velocity.Y > limit {
			t.Errorf("Fragment velocity %+v exceeds %v", frag.Velocity, limit)
		}
	}

	// Over many draws the second generation must outrun the first generation bound
	firstLimit := cfg.AsteroidBaseSpeed * level * cfg.FragmentSpeedFactor / 2
	faster := false
	for i := 0; i < 500 && !faster; i++ {
		for _, frag := range eng.split(first[0]) {
			if frag.Velocity.X > firstLimit || frag.Velocity.X < -firstLimit ||
				frag.Velocity.Y > firstLimit || frag.Velocity.Y < -firstLimit {
				faster = true
			}
		}
	}
	if !faster {
		t.Error("Expected second generation fragments to move faster than the first generation allows")
	}
}

func TestEngine_SpawnedRocksCarryLevelMultiplier(t *testing.T) {
	eng, _ := NewEngine(seededConfig())
	state := eng.GetState()

	for _, a := range state.Asteroids {
		if !almostEqual(a.SpeedMult, state.SpeedMult) {
			t.Errorf("Expected spawn multiplier %v, got %v", state.SpeedMult, a.SpeedMult)
		}
	}
}
