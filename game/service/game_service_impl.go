package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/asteroids-relay/game/engine"
)

// Simulation limits
const (
	DefaultSimulationTicks = 60 * 60      // one minute of play
	MaxSimulationTicks     = 60 * 60 * 30 // half an hour of play
	simulationChunk        = 1000
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	configs ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(configs ConfigManager) GameService {
	return &gameServiceImpl{
		configs: configs,
	}
}

// ListConfigs lists the available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads one preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig stores a preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// Simulate runs the autopilot against a preset and summarises the outcome.
// A zero seed picks one, and the seed used is returned so the run can be
// replayed.
func (s *gameServiceImpl) Simulate(ctx context.Context, req SimulationRequest) (*SimulationResult, error) {
	ticks := req.Ticks
	if ticks == 0 {
		ticks = DefaultSimulationTicks
	}
	if ticks < 0 || ticks > MaxSimulationTicks {
		return nil, fmt.Errorf("%w: must be between 1 and %d, got %d", ErrInvalidTicks, MaxSimulationTicks, ticks)
	}

	base, configID, err := s.resolveConfig(req.ConfigID)
	if err != nil {
		return nil, err
	}

	// Copy so the cached preset keeps its own seed.
	cfg := *base
	cfg.Seed = req.Seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	eng, err := engine.NewEngine(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	for remaining := ticks; remaining > 0 && !eng.IsGameOver(); remaining -= simulationChunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		eng.Run(min(remaining, simulationChunk), engine.Autopilot)
	}

	state := eng.GetState()
	result := &SimulationResult{
		ConfigID:           configID,
		Seed:               cfg.Seed,
		TicksRequested:     ticks,
		TicksRun:           state.Tick,
		Score:              state.Score,
		Level:              state.Level,
		Lives:              state.Lives,
		GameOver:           state.GameOver,
		AsteroidsDestroyed: state.Destroyed,
		ShotsFired:         state.ShotsFired,
		ShipsLost:          state.ShipsLost,
		FinalPose:          eng.Pose(),
	}
	if state.ShotsFired > 0 {
		result.Accuracy = float64(state.Destroyed) / float64(state.ShotsFired)
	}
	return result, nil
}

func (s *gameServiceImpl) resolveConfig(configID string) (*engine.GameConfig, string, error) {
	if configID == "" {
		def := s.configs.GetDefault()
		if def == nil {
			return nil, "", errors.New("no default preset configured")
		}
		return def, def.Name, nil
	}

	cfg, err := s.configs.LoadConfig(configID)
	if err != nil {
		available, listErr := s.configs.ListConfigs()
		if listErr == nil && len(available) > 0 {
			ids := make([]string, 0, len(available))
			for _, c := range available {
				ids = append(ids, c.ConfigID)
			}
			return nil, "", fmt.Errorf("config '%s' not available (%w). Available configs: %v", configID, err, ids)
		}
		return nil, "", fmt.Errorf("config '%s' not available: %w", configID, err)
	}
	return cfg, configID, nil
}
