package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/asteroids-relay/game/config"
	"github.com/wricardo/asteroids-relay/game/service"
	"github.com/wricardo/asteroids-relay/validate"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "asteroids-relay",
		Usage:   "Multiplayer asteroids room relay",
		Version: Version,
		Flags:   append(globalFlags(), ngrokFlags()...),
		Action:  runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with the relay, REST API and MCP endpoint",
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server, starting an internal HTTP API when none is reachable",
				Action:  runStdioMCP,
			},
			{
				Name:  "simulate",
				Usage: "Run the autopilot against a preset",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: "preset name, the default preset when empty"},
					&cli.IntFlag{Name: "ticks", Aliases: []string{"t"}, Usage: "ticks to simulate (60 per second)", Value: service.DefaultSimulationTicks},
					&cli.IntFlag{Name: "seed", Aliases: []string{"s"}, Usage: "random seed, picked when zero"},
					&cli.BoolFlag{Name: "json", Usage: "print the result as JSON"},
				},
				Action: runSimulate,
			},
			{
				Name:      "validate",
				Usage:     "Validate preset files",
				ArgsUsage: "[file...]",
				Action:    runValidateCommand,
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "settings file (default relay.yaml when present)"},
		&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
		&cli.IntFlag{Name: "port", Usage: "HTTP server port", Value: 3000},
		&cli.StringFlag{Name: "static-dir", Usage: "directory served at /, empty to disable"},
		&cli.StringFlag{Name: "config-dir", Usage: "directory containing simulation presets"},
		&cli.IntFlag{Name: "max-rooms", Usage: "cap on live rooms, 0 for unlimited"},
		&cli.IntFlag{Name: "max-players", Usage: "default player cap for new rooms, 0 for uncapped"},
		&cli.DurationFlag{Name: "pong-wait", Usage: "reap connections silent for this long, 0 to disable"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
	}
}

func ngrokFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
	}
}

// loadSettings layers the command line over the settings file and environment.
func loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.LoadSettings(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		settings.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("static-dir") {
		settings.Server.StaticDir = cmd.String("static-dir")
	}
	if cmd.IsSet("config-dir") {
		settings.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("max-rooms") {
		settings.Relay.MaxRooms = int(cmd.Int("max-rooms"))
	}
	if cmd.IsSet("max-players") {
		settings.Relay.DefaultMaxPlayers = int(cmd.Int("max-players"))
	}
	if cmd.IsSet("pong-wait") {
		settings.Transport.PongWait = cmd.Duration("pong-wait")
	}
	if cmd.IsSet("log-level") {
		settings.Log.Level = strings.ToLower(cmd.String("log-level"))
	}
	if cmd.Bool("debug") {
		settings.Log.Level = "debug"
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// newLogger builds the process logger. It writes to stderr so stdout stays
// free for the MCP stdio transport.
func newLogger(level string) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		ReportCaller:    lvl == log.DebugLevel,
		Level:           lvl,
	}), nil
}

func setup(cmd *cli.Command) (*config.Settings, *log.Logger, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(settings.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return settings, logger, nil
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	settings, _, err := setup(cmd)
	if err != nil {
		return err
	}

	configManager, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	games := service.NewGameService(configManager)

	result, err := games.Simulate(ctx, service.SimulationRequest{
		ConfigID: cmd.String("preset"),
		Ticks:    int(cmd.Int("ticks")),
		Seed:     int64(cmd.Int("seed")),
	})
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSimulation(out, result)
	return nil
}

func printSimulation(w io.Writer, r *service.SimulationResult) {
	outcome := "still flying"
	if r.GameOver {
		outcome = "game over"
	}
	fmt.Fprintf(w, "Preset %s, seed %d: %d/%d ticks, %s\n", r.ConfigID, r.Seed, r.TicksRun, r.TicksRequested, outcome)
	fmt.Fprintf(w, "  score %d  level %d  lives %d\n", r.Score, r.Level, r.Lives)
	fmt.Fprintf(w, "  asteroids %d  shots %d  accuracy %.0f%%  ships lost %d\n",
		r.AsteroidsDestroyed, r.ShotsFired, r.Accuracy*100, r.ShipsLost)
}

func runValidateCommand(ctx context.Context, cmd *cli.Command) error {
	var results []validate.ValidationResult
	if cmd.Args().Len() > 0 {
		for _, file := range cmd.Args().Slice() {
			results = append(results, validate.File(file))
		}
	} else {
		settings, _, err := setup(cmd)
		if err != nil {
			return err
		}
		if results, err = validate.Dir(settings.ConfigDir); err != nil {
			return err
		}
	}
	return validate.Report(cmd.Root().Writer, results)
}
