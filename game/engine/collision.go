package engine

// checkBulletHits removes every bullet that touches a rock, scores the rock
// and splits it when it is large enough. Each bullet destroys at most one
// rock, and fragments join the field after all bullets are resolved.
func (e *GameEngine) checkBulletHits() {
	var fragments []Asteroid
	bulletHalf := e.config.BulletSize / 2

	remaining := e.state.Bullets[:0]
	for _, b := range e.state.Bullets {
		hit := -1
		for i, a := range e.state.Asteroids {
			if BoxesOverlap(b.Position, bulletHalf, a.Position, a.Size) {
				hit = i
				break
			}
		}
		if hit < 0 {
			remaining = append(remaining, b)
			continue
		}

		rock := e.state.Asteroids[hit]
		e.state.Asteroids = append(e.state.Asteroids[:hit], e.state.Asteroids[hit+1:]...)
		e.state.Score += e.config.asteroidScore(rock.Size)
		e.state.Destroyed++

		if rock.Size > e.config.SplitThreshold {
			fragments = append(fragments, e.split(rock)...)
		}
	}
	e.state.Bullets = remaining
	e.state.Asteroids = append(e.state.Asteroids, fragments...)
}

// split breaks a rock into two halves that move faster than their parent.
func (e *GameEngine) split(rock Asteroid) []Asteroid {
	mult := rock.SpeedMult * e.config.FragmentSpeedFactor
	return []Asteroid{
		e.newAsteroid(rock.Position, rock.Size/2, mult),
		e.newAsteroid(rock.Position, rock.Size/2, mult),
	}
}

// checkShipHit costs a life when an unprotected ship touches a rock.
func (e *GameEngine) checkShipHit() {
	ship := &e.state.Ship
	if ship.Invulnerable > 0 {
		return
	}

	for _, a := range e.state.Asteroids {
		if !CirclesOverlap(ship.Position, ship.Radius, a.Position, a.Size*e.config.HitFactor) {
			continue
		}

		e.state.Lives--
		e.state.ShipsLost++
		if e.state.Lives <= 0 {
			e.state.Lives = 0
			e.state.GameOver = true
			return
		}
		e.respawnShip()
		return
	}
}
