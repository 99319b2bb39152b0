package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/asteroids-relay/api"
	"github.com/wricardo/asteroids-relay/game/config"
	"github.com/wricardo/asteroids-relay/game/service"
	"github.com/wricardo/asteroids-relay/game/session"
	"github.com/wricardo/asteroids-relay/transport/mcp"
	"github.com/wricardo/asteroids-relay/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// stack is the wired relay: hub, room registry, services and the HTTP router.
type stack struct {
	hub     *websocket.Hub
	relay   service.RelayService
	games   service.GameService
	handler http.Handler
}

// buildStack wires every service from the settings. mcpBaseURL is where the
// /mcp endpoint sends its REST calls. The hub is running when this returns;
// callers stop it with hub.Stop.
func buildStack(settings *config.Settings, logger *log.Logger, mcpBaseURL string) (*stack, error) {
	configManager, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	codes, err := session.NewCodeGenerator(settings.Relay.CodeAlphabet, settings.Relay.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create room code generator: %w", err)
	}

	hub := websocket.NewHub(websocket.HubConfig{
		WriteWait:      settings.Transport.WriteWait,
		PongWait:       settings.Transport.PongWait,
		MaxMessageSize: settings.Transport.MaxMessageSize,
		SendBuffer:     settings.Transport.SendBuffer,
	}, logger)

	registry := session.NewRegistry(hub, session.Options{
		DefaultRoomName:   settings.Relay.DefaultRoomName,
		DefaultMaxPlayers: settings.Relay.DefaultMaxPlayers,
		MaxRooms:          settings.Relay.MaxRooms,
		Palette:           settings.Relay.Palette,
		Codes:             codes,
		Logger:            logger,
	})

	relay := service.NewRelayService(registry, hub, logger)
	hub.SetHandler(relay)
	go hub.Run()

	games := service.NewGameService(configManager)
	apiServer := api.NewServer(relay, games, hub, settings.Server.StaticDir, logger)
	mcpClient := mcp.NewClient(mcpBaseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient.HTTPHandler())

	return &stack{
		hub:     hub,
		relay:   relay,
		games:   games,
		handler: mainRouter,
	}, nil
}

// loopbackURL is the base URL for calling the server from the same host.
func loopbackURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// runServe starts the HTTP server with the relay, REST API, /mcp endpoint and
// static client. If ngrok is enabled it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	logger.Info("Starting", "app", AppName, "version", Version)

	st, err := buildStack(settings, logger, loopbackURL(settings.Server.Host, settings.Server.Port))
	if err != nil {
		return err
	}
	defer st.hub.Stop()

	addr := settings.Addr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      st.handler,
		ReadTimeout:  settings.Server.ReadTimeout,
		WriteTimeout: settings.Server.WriteTimeout,
		IdleTimeout:  settings.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening", "addr", addr)
		logger.Info("Endpoints", "api", "/api", "relay", "/ws?codec=json|msgpack", "mcp", "/mcp")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), st.handler, logger)
		}()
	}

	select {
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig)
	case err = <-serveErr:
		logger.Error("HTTP server failed", "err", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("HTTP server shutdown error", "err", shutdownErr)
	}

	wg.Wait()
	logger.Info("Server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler, logger *log.Logger) {
	logger = logger.WithPrefix("ngrok")
	if authToken == "" {
		logger.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("Using custom domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("Failed to start tunnel", "err", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("Failed to close tunnel", "err", err)
		}
	}()

	url := tun.URL()
	logger.Info("Tunnel established", "url", url)
	logger.Info("Public endpoints", "client", url+"/", "api", url+"/api", "relay", url+"/ws", "mcp", url+"/mcp")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("Tunnel server error", "err", err)
	}
	logger.Info("Tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses a relay already listening
// on the configured port; otherwise it starts an internal one on a random
// loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	settings, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	baseURL := loopbackURL("", settings.Server.Port)
	logger.Info("Checking for external API server", "url", baseURL)

	if externalAPIAvailable(baseURL) {
		logger.Info("External API server found, using it for MCP", "url", baseURL)
	} else {
		logger.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		st, err := buildStack(settings, logger, baseURL)
		if err != nil {
			listener.Close()
			return err
		}
		defer st.hub.Stop()

		httpServer := &http.Server{Handler: st.handler}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Internal HTTP server error", "err", err)
			}
		}()
		logger.Info("Internal HTTP server started", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", "api", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func externalAPIAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
