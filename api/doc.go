// Package api provides the HTTP surface of the relay.
//
// Endpoints:
//
// Health:
//   - GET /api/health - Status with live room, player and connection counts
//
// Rooms (read-only):
//   - GET /api/rooms - List live rooms (sort=code|created, order=asc|desc, limit=N)
//   - GET /api/rooms/{code} - One room with its players
//
// Simulation presets:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get one preset
//   - POST /api/configs - Save a preset; omitted fields take the defaults
//
// Headless runs:
//   - POST /api/simulate - Run the autopilot against a preset
//
//	{
//	  "config_id": "classic", // optional, default preset when empty
//	  "ticks": 3600,          // optional, one minute at 60 ticks per second
//	  "seed": 42              // optional, random when zero
//	}
//
// Relay:
//   - GET /ws - WebSocket upgrade, ?codec=json|msgpack
//
// Everything else is served from the static directory, index.html at /.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{"error": "error message"}
package api
