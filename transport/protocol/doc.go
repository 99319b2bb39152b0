// Package protocol defines the relay's wire messages.
//
// Every message is an envelope with an event name and an optional payload:
//
//	{"event": "joinRoom", "data": "QWER"}
//	{"event": "playerMovement", "data": {"x": 412.5, "y": 280, "angle": -1.57}}
//
// Two codecs carry the same envelope: JSON in text frames, and MessagePack
// in binary frames. Inbound frames are parsed into typed messages and
// validated before they reach the relay; outbound messages are built with
// the constructor for their event.
package protocol
