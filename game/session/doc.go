// Package session holds the live relay rooms.
//
// The session package implements:
//   - Room creation with short generated codes
//   - Lobby joins, game-screen re-entry and explicit leaves
//   - Pose relay to the other members of a room
//   - Disconnect cleanup and garbage collection of empty rooms
//
// Core Types:
//
// Registry owns every room and the side table mapping a connection to the
// room it is in. Both are updated together under one lock, so a player
// exists in a room exactly when its connection points at that room.
// CodeGenerator draws room codes and re-rolls on collision with live rooms.
//
// Room Codes:
//
// Codes are four uppercase letters by default, drawn uniformly from
// crypto/rand. They are unique among live rooms when assigned; a code is
// free again once its room empties.
//
// Concurrency:
//
// The relay calls the registry from the hub's single event loop. Admin
// readers (List, Get, Count) may run on HTTP goroutines and take the read
// lock. Replies go through a service.Sender, which must not block.
//
// Usage:
//
//	registry := session.NewRegistry(hub, session.Options{
//		DefaultMaxPlayers: 2,
//		Logger:            logger,
//	})
//
//	code, err := registry.CreateRoom(connID, "Nebula", nil)
//	if err != nil {
//		return err
//	}
//	rooms := registry.List()
package session
