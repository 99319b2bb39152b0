// Package service provides the business logic layer of the relay.
//
// The service package implements:
//   - Dispatch of parsed relay messages to the room registry
//   - Translation of relay failures into errorMsg replies
//   - Admin queries over live rooms
//   - Simulation presets and headless autopilot runs
//
// Core Interfaces:
//
// RelayService is driven by the WebSocket hub: one call per connect,
// inbound frame and disconnect, always from the hub's event loop.
// RoomRegistry is the room store it dispatches to, and Sender is how
// replies reach a connection. GameService wraps the simulation engine and
// its presets for the REST and MCP surfaces.
//
// Errors:
//
// ErrRoomNotFound, ErrRoomFull, ErrRoomNotJoinable and ErrTooManyRooms are
// user-facing. UserMessage turns them into the text carried by errorMsg;
// any other error is logged and the caller hears nothing.
//
// Usage:
//
//	registry := session.NewRegistry(hub, session.Options{})
//	relay := service.NewRelayService(registry, hub, logger)
//	hub.SetHandler(relay)
//
//	games := service.NewGameService(configManager)
//	result, err := games.Simulate(ctx, service.SimulationRequest{ConfigID: "classic"})
package service
