package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Server.Port != 3000 {
		t.Errorf("Expected port 3000, got %d", s.Server.Port)
	}
	if s.Relay.DefaultMaxPlayers != 2 {
		t.Errorf("Expected 2 players per room, got %d", s.Relay.DefaultMaxPlayers)
	}
	if len(s.Relay.Palette) != 4 || s.Relay.Palette[0] != "#00f2ff" {
		t.Errorf("Unexpected palette %v", s.Relay.Palette)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	body := `
server:
  port: 4000
  static_dir: public
relay:
  max_rooms: 50
  palette: ["#ffffff"]
transport:
  pong_wait: 0s
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}
	t.Setenv("PORT", "")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if s.Server.Port != 4000 || s.Server.StaticDir != "public" {
		t.Errorf("Server settings not applied: %+v", s.Server)
	}
	if s.Relay.MaxRooms != 50 || len(s.Relay.Palette) != 1 {
		t.Errorf("Relay settings not applied: %+v", s.Relay)
	}
	if s.Transport.PongWait != 0 {
		t.Errorf("Expected pong wait disabled, got %v", s.Transport.PongWait)
	}
	if s.Transport.WriteWait != 10*time.Second {
		t.Errorf("Expected default write wait, got %v", s.Transport.WriteWait)
	}
	if s.Relay.DefaultMaxPlayers != 2 {
		t.Errorf("Expected default max players kept, got %d", s.Relay.DefaultMaxPlayers)
	}
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit settings file")
	}
}

func TestLoadSettings_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte("relay:\n  max_rooms: -1\n"), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Error("Expected validation error")
	}
}

func TestSettings_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":       "9090",
		"HOST":       "0.0.0.0",
		"STATIC_DIR": "/srv/www",
		"CONFIG_DIR": "/etc/presets",
		"LOG_LEVEL":  "DEBUG",
		"MAX_ROOMS":  "10",
		"PONG_WAIT":  "30s",
	}

	s := DefaultSettings()
	if err := s.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if s.Addr() != "0.0.0.0:9090" {
		t.Errorf("Expected 0.0.0.0:9090, got %s", s.Addr())
	}
	if s.Server.StaticDir != "/srv/www" || s.ConfigDir != "/etc/presets" {
		t.Errorf("Directories not applied: %+v", s)
	}
	if s.Log.Level != "debug" {
		t.Errorf("Expected lowercased level, got %q", s.Log.Level)
	}
	if s.Relay.MaxRooms != 10 || s.Transport.PongWait != 30*time.Second {
		t.Errorf("Limits not applied: rooms=%d pong=%v", s.Relay.MaxRooms, s.Transport.PongWait)
	}
}

func TestSettings_ApplyEnvErrors(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_ROOMS", "PONG_WAIT"} {
		t.Run(key, func(t *testing.T) {
			s := DefaultSettings()
			err := s.ApplyEnv(func(k string) string {
				if k == key {
					return "bogus"
				}
				return ""
			})
			if err == nil {
				t.Errorf("Expected error for bad %s", key)
			}
		})
	}
}
