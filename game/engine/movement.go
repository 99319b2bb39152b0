package engine

// update applies one tick of controls, drag and wraparound to the ship.
func (s *Ship) update(in Input, cfg *GameConfig) {
	if in.Left {
		s.Angle -= cfg.RotationStep
	}
	if in.Right {
		s.Angle += cfg.RotationStep
	}

	s.Thrusting = in.Thrust
	if in.Thrust {
		s.Velocity = s.Velocity.Add(heading(s.Angle).Scale(cfg.ThrustPower))
	}
	s.Velocity = s.Velocity.Scale(cfg.Drag)
	s.Position = Wrap(s.Position.Add(s.Velocity), cfg.Width, cfg.Height)

	if s.Invulnerable > 0 {
		s.Invulnerable--
	}
}

// nose is where bullets leave the ship.
func (s *Ship) nose() Vector {
	return s.Position.Add(heading(s.Angle).Scale(s.Radius))
}

func (b *Bullet) update(cfg *GameConfig) {
	b.Position = Wrap(b.Position.Add(b.Velocity), cfg.Width, cfg.Height)
	b.Life--
}

func (a *Asteroid) update(cfg *GameConfig) {
	a.Position = Wrap(a.Position.Add(a.Velocity), cfg.Width, cfg.Height)
}

// updateBullets advances every bullet and drops the expired ones.
func (e *GameEngine) updateBullets() {
	alive := e.state.Bullets[:0]
	for _, b := range e.state.Bullets {
		b.update(e.config)
		if b.Life > 0 {
			alive = append(alive, b)
		}
	}
	e.state.Bullets = alive
}

func (e *GameEngine) updateAsteroids() {
	for i := range e.state.Asteroids {
		e.state.Asteroids[i].update(e.config)
	}
}

// fire spawns a bullet at the ship's nose travelling along its heading.
func (e *GameEngine) fire() {
	ship := &e.state.Ship
	e.state.Bullets = append(e.state.Bullets, Bullet{
		Position: ship.nose(),
		Velocity: heading(ship.Angle).Scale(e.config.BulletSpeed),
		Life:     e.config.BulletLifetime,
	})
	e.state.ShotsFired++
}
