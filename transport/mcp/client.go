package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/asteroids-relay/game/engine"
	"github.com/wricardo/asteroids-relay/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Long simulations can take a few seconds.
			Timeout: 60 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Asteroids Relay",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Asteroids Relay - MCP Interface

This is a thin client that proxies all requests to the relay's REST API.

The relay groups WebSocket players into rooms with 4 letter codes and forwards
each ship's pose to the other players in the room. The tools here observe the
live rooms and run headless autopilot games against simulation presets.

AVAILABLE TOOLS:
- relay_health: Live room, player and connection counts
- list_rooms: List live rooms
- get_room: Players and state of one room
- list_configs: List simulation presets
- get_config: Show the tunables of one preset
- simulate: Run the autopilot against a preset and report the outcome
- game_rules: How the asteroids simulation plays`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Relay observation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "relay_health",
		Description: "Show relay health with live room, player and connection counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleHealth)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List live relay rooms",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Sort key",
					"enum":        []string{"code", "created"},
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "Sort order",
					"enum":        []string{"asc", "desc"},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of rooms to return",
				},
			},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get the state and players of one room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Room code, e.g. ABCD",
				},
			},
			Required: []string{"code"},
		},
	}, c.handleGetRoom)

	// Simulation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available simulation presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_config",
		Description: "Show the tunables of one simulation preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset identifier from list_configs",
				},
			},
			Required: []string{"config_id"},
		},
	}, c.handleGetConfig)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulate",
		Description: "Run the autopilot headlessly against a preset and summarise the outcome",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset identifier (optional, default preset when empty)",
				},
				"ticks": map[string]interface{}{
					"type":        "integer",
					"description": "Ticks to run at 60 per second (optional, default 3600)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for a reproducible run (optional)",
				},
			},
		},
	}, c.handleSimulate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Explain the rules of the asteroids simulation",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a numeric argument; JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// Tool handlers

func (c *Client) handleHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var health struct {
		Status      string `json:"status"`
		Uptime      string `json:"uptime"`
		Rooms       int    `json:"rooms"`
		Players     int    `json:"players"`
		Connections int    `json:"connections"`
	}
	if err := c.apiCall(ctx, "GET", "/api/health", nil, &health); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Status: %s (up %s)\nRooms: %d\nPlayers in rooms: %d\nConnections: %d\n",
		health.Status, health.Uptime, health.Rooms, health.Players, health.Connections)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	if sortBy, _ := args["sort"].(string); sortBy != "" {
		query.Set("sort", sortBy)
	}
	if order, _ := args["order"].(string); order != "" {
		query.Set("order", order)
	}
	if limit, ok := intArg(args, "limit"); ok && limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	path := "/api/rooms"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var response struct {
		Count int                `json:"count"`
		Total int                `json:"total"`
		Rooms []service.RoomInfo `json:"rooms"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoomList(response.Rooms, response.Total)), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, _ := arguments(request)["code"].(string)
	code = strings.TrimSpace(code)
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	var room service.RoomInfo
	if err := c.apiCall(ctx, "GET", "/api/rooms/"+url.PathEscape(code), nil, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoom(&room)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Presets:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Lives: %d, Base asteroids: %d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Lives, cfg.BaseAsteroids)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID, _ := arguments(request)["config_id"].(string)
	if configID == "" {
		return mcp.NewToolResultError("config_id is required"), nil
	}

	var cfg engine.GameConfig
	if err := c.apiCall(ctx, "GET", "/api/configs/"+url.PathEscape(configID), nil, &cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatConfig(&cfg)), nil
}

func (c *Client) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	req := service.SimulationRequest{}
	req.ConfigID, _ = args["config_id"].(string)
	if ticks, ok := intArg(args, "ticks"); ok {
		req.Ticks = int(ticks)
	}
	if seed, ok := intArg(args, "seed"); ok {
		req.Seed = seed
	}

	var result service.SimulationResult
	if err := c.apiCall(ctx, "POST", "/api/simulate", req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSimulation(&result)), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := `Asteroids - Rules of the Simulation

THE SHIP:
• Rotates while left/right are held, thrusts along its heading
• Velocity decays a little every tick (drag) and the field wraps at the edges
• Starts each life in the centre, briefly invulnerable

SHOOTING:
• One bullet per fire press, fired from the nose
• Bullets live for a fixed number of ticks

ASTEROIDS:
• Each level spawns base_asteroids + level rocks on the screen edges
• Large rocks split into two smaller, faster fragments when shot
• Small rocks score the most: 20 / 50 / 100 points for large / medium / small

LIVES AND LEVELS:
• Touching a rock while vulnerable costs a life
• No lives left ends the game
• Clearing the field starts the next, faster level

MULTIPLAYER:
• Players share a room over the relay and see each other's ships
• The relay forwards poses only; every client runs its own asteroid field

Use list_configs to see presets and simulate to watch the autopilot play one.`

	return mcp.NewToolResultText(rules), nil
}

// Formatting helpers

func formatRoomList(rooms []service.RoomInfo, total int) string {
	if len(rooms) == 0 {
		return "No live rooms.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Live Rooms (%d of %d):\n\n", len(rooms), total)
	for _, r := range rooms {
		capacity := "uncapped"
		if r.MaxPlayers > 0 {
			capacity = fmt.Sprintf("%d/%d", r.PlayerCount, r.MaxPlayers)
		} else {
			capacity = fmt.Sprintf("%d, %s", r.PlayerCount, capacity)
		}
		fmt.Fprintf(&b, "- %s %q [%s] players: %s, created %s\n",
			r.Code, r.Name, r.State, capacity, r.CreatedAt.Format("15:04:05"))
	}
	return b.String()
}

func formatRoom(room *service.RoomInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s: %s\n", room.Code, room.Name)
	fmt.Fprintf(&b, "State: %s\n", room.State)
	if room.MaxPlayers > 0 {
		fmt.Fprintf(&b, "Players: %d/%d\n", room.PlayerCount, room.MaxPlayers)
	} else {
		fmt.Fprintf(&b, "Players: %d\n", room.PlayerCount)
	}
	for id, p := range room.Players {
		host := ""
		if p.Host {
			host = " (host)"
		}
		fmt.Fprintf(&b, "  • %s%s %s at (%.0f,%.0f) heading %.2f\n", id, host, p.Color, p.X, p.Y, p.Angle)
	}
	return b.String()
}

func formatConfig(cfg *engine.GameConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", cfg.Name)
	if cfg.Description != "" {
		fmt.Fprintf(&b, "%s\n", cfg.Description)
	}
	fmt.Fprintf(&b, "\nField: %.0fx%.0f, Lives: %d\n", cfg.Width, cfg.Height, cfg.Lives)
	fmt.Fprintf(&b, "Ship: radius %.0f, rotation %.2f, thrust %.2f, drag %.3f, invulnerable %d ticks\n",
		cfg.ShipRadius, cfg.RotationStep, cfg.ThrustPower, cfg.Drag, cfg.InvulnerableTicks)
	fmt.Fprintf(&b, "Bullets: speed %.1f, lifetime %d ticks\n", cfg.BulletSpeed, cfg.BulletLifetime)
	fmt.Fprintf(&b, "Asteroids: %d + level, size %.0f-%.0f, speed %.1f (+%.2f per level), split above %.0f\n",
		cfg.BaseAsteroids, cfg.AsteroidMinSize, cfg.AsteroidMinSize+cfg.AsteroidSizeRange,
		cfg.AsteroidBaseSpeed, cfg.SpeedStepPerLevel, cfg.SplitThreshold)
	fmt.Fprintf(&b, "Scoring: %d / %d / %d\n", cfg.Scoring.Large, cfg.Scoring.Medium, cfg.Scoring.Small)
	return b.String()
}

func formatSimulation(r *service.SimulationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Simulation of %s (seed %d)\n\n", r.ConfigID, r.Seed)
	fmt.Fprintf(&b, "Ticks: %d of %d (%.1fs of play)\n", r.TicksRun, r.TicksRequested, float64(r.TicksRun)/60)
	fmt.Fprintf(&b, "Score: %d\n", r.Score)
	fmt.Fprintf(&b, "Level: %d\n", r.Level)
	fmt.Fprintf(&b, "Lives: %d (lost %d)\n", r.Lives, r.ShipsLost)
	fmt.Fprintf(&b, "Asteroids destroyed: %d with %d shots (accuracy %.0f%%)\n",
		r.AsteroidsDestroyed, r.ShotsFired, r.Accuracy*100)
	if r.GameOver {
		b.WriteString("Result: GAME OVER\n")
	} else {
		b.WriteString("Result: still flying\n")
	}
	fmt.Fprintf(&b, "Final pose: (%.0f,%.0f) heading %.2f\n", r.FinalPose.X, r.FinalPose.Y, r.FinalPose.Angle)
	return b.String()
}
