// Command analyze compares the difficulty of the simulation presets. It runs
// the autopilot over a fixed set of seeds for every preset in the config
// directory and prints mean score, level reached, survival and accuracy.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/asteroids-relay/game/config"
	"github.com/wricardo/asteroids-relay/game/service"
)

// PresetStats aggregates the runs of one preset.
type PresetStats struct {
	ConfigID  string
	Name      string
	Runs      int
	Survived  int
	MeanScore float64
	MeanLevel float64
	MeanTicks float64
	Accuracy  float64
	BestScore int
	BestSeed  int64
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Compare preset difficulty with seeded autopilot runs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing presets", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "runs", Value: 10, Usage: "seeds per preset"},
			&cli.IntFlag{Name: "ticks", Value: service.DefaultSimulationTicks, Usage: "ticks per run"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			return analyze(ctx, os.Stdout, service.NewGameService(manager), int(cmd.Int("runs")), int(cmd.Int("ticks")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal("Analysis failed", "err", err)
	}
}

func analyze(ctx context.Context, w io.Writer, games service.GameService, runs, ticks int) error {
	presets, err := games.ListConfigs(ctx)
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		return fmt.Errorf("no presets found")
	}

	for _, preset := range presets {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", preset.ConfigID)
		stats, err := analyzePreset(ctx, games, preset, runs, ticks)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		printStats(w, stats)
	}
	return nil
}

// analyzePreset runs the preset with seeds 1..runs. The seeds are fixed so
// repeated analyses are comparable.
func analyzePreset(ctx context.Context, games service.GameService, preset *service.ConfigInfo, runs, ticks int) (*PresetStats, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be positive, got %d", runs)
	}

	stats := &PresetStats{ConfigID: preset.ConfigID, Name: preset.Name, Runs: runs}
	var destroyed, fired int

	for seed := int64(1); seed <= int64(runs); seed++ {
		result, err := games.Simulate(ctx, service.SimulationRequest{
			ConfigID: preset.ConfigID,
			Ticks:    ticks,
			Seed:     seed,
		})
		if err != nil {
			return nil, err
		}

		if !result.GameOver {
			stats.Survived++
		}
		stats.MeanScore += float64(result.Score)
		stats.MeanLevel += float64(result.Level)
		stats.MeanTicks += float64(result.TicksRun)
		destroyed += result.AsteroidsDestroyed
		fired += result.ShotsFired

		if seed == 1 || result.Score > stats.BestScore {
			stats.BestScore = result.Score
			stats.BestSeed = seed
		}
	}

	n := float64(runs)
	stats.MeanScore /= n
	stats.MeanLevel /= n
	stats.MeanTicks /= n
	if fired > 0 {
		stats.Accuracy = float64(destroyed) / float64(fired)
	}
	return stats, nil
}

func printStats(w io.Writer, s *PresetStats) {
	fmt.Fprintf(w, "Name: %s\n", s.Name)
	fmt.Fprintf(w, "Runs: %d, survived: %d (%.0f%%)\n", s.Runs, s.Survived, 100*float64(s.Survived)/float64(s.Runs))
	fmt.Fprintf(w, "Mean score: %.1f, mean level: %.2f, mean ticks: %.0f\n", s.MeanScore, s.MeanLevel, s.MeanTicks)
	fmt.Fprintf(w, "Accuracy: %.0f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, "Best: %d points with seed %d\n", s.BestScore, s.BestSeed)
}
