package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/wricardo/asteroids-relay/game/config"
	"github.com/wricardo/asteroids-relay/game/engine"
	"github.com/wricardo/asteroids-relay/game/service"
	"github.com/wricardo/asteroids-relay/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	relay     service.RelayService
	games     service.GameService
	hub       *websocket.Hub
	staticDir string
	logger    *log.Logger
	router    *mux.Router
	started   time.Time
}

// NewServer creates a new API server. A nil hub leaves /ws unrouted and an
// empty staticDir disables static files.
func NewServer(relay service.RelayService, games service.GameService, hub *websocket.Hub, staticDir string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		relay:     relay,
		games:     games,
		hub:       hub,
		staticDir: staticDir,
		logger:    logger.WithPrefix("api"),
		router:    mux.NewRouter(),
		started:   time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.logRequests)

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Live rooms (read-only)
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{code}", s.handleGetRoom).Methods("GET")

	// Simulation presets
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// Headless runs
	api.HandleFunc("/simulate", s.handleSimulate).Methods("POST")

	// WebSocket
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}

	// Static client
	if s.staticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.relay.Stats(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"uptime":      time.Since(s.started).Round(time.Second).String(),
		"rooms":       stats.Rooms,
		"players":     stats.Players,
		"connections": stats.Connections,
	})
}

// Room Handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.relay.ListRooms(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total := len(rooms)

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "code" (default), "created"
	order := query.Get("order")    // "asc" (default), "desc"
	limitStr := query.Get("limit") // number of rooms to return

	if sortBy != "created" {
		sortBy = "code"
	}
	if order != "desc" {
		order = "asc"
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		if order == "desc" {
			a, b = b, a
		}
		if sortBy == "created" && !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Code < b.Code
	})

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(rooms) {
			rooms = rooms[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"total": total,
		"rooms": rooms,
		"sort":  sortBy,
		"order": order,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, err := s.relay.GetRoom(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf("room %s not found", strings.ToUpper(code)))
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, room)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.games.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := mux.Vars(r)["name"]

	// Remove file extension if present
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		configName = strings.TrimSuffix(configName, ext)
	}

	cfg, err := s.games.LoadConfig(r.Context(), configName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	// Start from the defaults so a body only needs the fields it changes
	gameConfig := engine.DefaultGameConfig()
	gameConfig.Name = ""

	if err := json.NewDecoder(r.Body).Decode(gameConfig); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if gameConfig.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.games.SaveConfig(r.Context(), gameConfig.Name, gameConfig); err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	s.logger.Info("preset saved", "name", gameConfig.Name)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": gameConfig.Name,
	})
}

// Simulation Handler

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req service.SimulationRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, err := s.games.Simulate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTicks):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, config.ErrConfigNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.logger.Info("simulation finished",
		"config", result.ConfigID, "seed", result.Seed, "ticks", result.TicksRun,
		"score", result.Score, "level", result.Level, "game_over", result.GameOver)
	respondJSON(w, http.StatusOK, result)
}
