// Package mcp provides the Model Context Protocol interface of the relay.
//
// The mcp package implements:
//   - An MCP server whose tools proxy to the REST API
//   - Read-only views of the live relay rooms
//   - Headless autopilot runs against simulation presets
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//   - relay_health: Room, player and connection counts
//   - list_rooms: Live rooms with sort, order and limit
//   - get_room: State and players of one room
//   - list_configs: Simulation presets
//   - get_config: Tunables of one preset
//   - simulate: Autopilot run summary (score, level, lives, accuracy)
//   - game_rules: Plain text rules of the simulation
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp on the relay's HTTP server, see HTTPHandler
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:3000")
//	router.Handle("/mcp", client.HTTPHandler())
package mcp
