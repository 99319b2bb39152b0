// Command asteroids-relay starts the multiplayer asteroids relay.
//
// Subcommands:
//  1. "serve" (default) runs the HTTP server with the WebSocket relay, the REST API,
//     the /mcp endpoint and the static client
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "simulate" runs the autopilot against a preset and prints the outcome
//  4. "validate" checks preset files
//
// Settings come from defaults, relay.yaml (or --config), the environment and
// the command line, each layer overriding the previous one.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Asteroids Relay"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Error loading .env file", "err", err)
		}
	} else {
		log.Debug("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal("Exiting", "err", err)
	}
}
