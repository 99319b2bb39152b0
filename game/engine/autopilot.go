package engine

import "math"

// Autopilot tuning
const (
	autopilotFireEvery = 8
	autopilotAimSlack  = 0.15
	autopilotCruise    = 220.0
	autopilotMaxSpeed  = 2.5
)

// Autopilot is a simple pilot for headless runs: it turns toward the nearest
// rock, fires when roughly lined up and closes in when the target is far.
// It restarts the game once it is over.
func Autopilot(state *GameState) Input {
	if state.GameOver {
		return Input{Restart: true}
	}

	target, ok := nearestAsteroid(state)
	if !ok {
		return Input{}
	}

	ship := state.Ship
	want := math.Atan2(target.Position.Y-ship.Position.Y, target.Position.X-ship.Position.X)
	diff := NormalizeAngle(want - ship.Angle)

	var in Input
	switch {
	case diff > autopilotAimSlack:
		in.Right = true
	case diff < -autopilotAimSlack:
		in.Left = true
	default:
		in.Fire = state.Tick%autopilotFireEvery == 0
	}

	speed := math.Hypot(ship.Velocity.X, ship.Velocity.Y)
	if Distance(ship.Position, target.Position) > autopilotCruise && speed < autopilotMaxSpeed {
		in.Thrust = math.Abs(diff) < math.Pi/4
	}

	return in
}

func nearestAsteroid(state *GameState) (Asteroid, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i, a := range state.Asteroids {
		if d := Distance(state.Ship.Position, a.Position); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Asteroid{}, false
	}
	return state.Asteroids[best], true
}
