// Package engine provides the headless asteroids simulation.
//
// The engine package implements the single-player rules:
//   - Ship rotation, thrust, drag and screen wraparound
//   - Bullets with a fixed lifetime
//   - Asteroid fields that grow with each level
//   - Splitting, scoring, lives and temporary invulnerability
//
// Core Types:
//
// The Engine interface defines the main contract for running a game,
// implemented by GameEngine. GameState is the full snapshot of a running
// game, while GameConfig holds the tunables loaded from preset files.
//
// Time Model:
//
// The simulation advances in fixed ticks. All speeds are expressed in
// screen units per tick, and lifetimes in ticks. A tick rate of 60 per
// second matches the pacing of the browser client.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultGameConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for !eng.IsGameOver() {
//		state := eng.Tick(engine.Autopilot(eng.GetState()))
//		pose := eng.Pose()
//		_ = state
//		_ = pose // x, y, angle as sent in playerMovement
//	}
//
// Determinism:
//
// Every random draw goes through a generator seeded from GameConfig.Seed,
// so two engines built from the same config and fed the same inputs
// produce identical states.
package engine
