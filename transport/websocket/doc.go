// Package websocket provides the WebSocket transport of the relay.
//
// The websocket package implements:
//   - Connection upgrade with a per-connection codec (JSON or MessagePack)
//   - A single event loop that serialises connect, message and disconnect
//   - Non-blocking per-connection sends
//   - Ping/pong liveness with a configurable timeout
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns every
// connection. Each client has a read pump that forwards raw frames to the
// hub and a write pump that drains its send buffer. The hub decodes frames
// and calls its Handler, so handler code never runs concurrently with
// itself and messages from one connection arrive in order.
//
// Message Protocol:
//
// Every frame is an envelope {event, data}. Clients pick the codec with a
// query parameter when connecting (/ws?codec=msgpack); JSON travels in text
// frames and MessagePack in binary frames. One envelope per frame.
//
// Backpressure:
//
// Send never blocks. When a client's buffer is full the socket is closed
// and the client goes through the normal disconnect path.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.DefaultHubConfig(), logger)
//	hub.SetHandler(relay)
//	go hub.Run()
//	defer hub.Stop()
//
//	router.HandleFunc("/ws", hub.ServeWS)
package websocket
