package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is read when no explicit path is given and it exists.
const DefaultSettingsFile = "relay.yaml"

// Settings is the server configuration.
type Settings struct {
	Server    ServerSettings    `yaml:"server"`
	Relay     RelaySettings     `yaml:"relay"`
	Transport TransportSettings `yaml:"transport"`
	Log       LogSettings       `yaml:"log"`
	ConfigDir string            `yaml:"config_dir"`
}

// ServerSettings controls the HTTP listener.
type ServerSettings struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	StaticDir    string        `yaml:"static_dir"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// RelaySettings controls room allocation.
type RelaySettings struct {
	DefaultRoomName   string   `yaml:"default_room_name"`
	DefaultMaxPlayers int      `yaml:"default_max_players"`
	MaxRooms          int      `yaml:"max_rooms"` // 0 means unlimited
	CodeAlphabet      string   `yaml:"code_alphabet"`
	CodeLength        int      `yaml:"code_length"`
	Palette           []string `yaml:"palette"`
}

// TransportSettings controls the WebSocket connections.
type TransportSettings struct {
	WriteWait      time.Duration `yaml:"write_wait"`
	PongWait       time.Duration `yaml:"pong_wait"` // 0 disables ping/pong reaping
	MaxMessageSize int64         `yaml:"max_message_size"`
	SendBuffer     int           `yaml:"send_buffer"`
}

// LogSettings controls the logger.
type LogSettings struct {
	Level string `yaml:"level"`
}

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host:         "",
			Port:         3000,
			StaticDir:    "static",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Relay: RelaySettings{
			DefaultRoomName:   "Space Room",
			DefaultMaxPlayers: 2,
			CodeAlphabet:      "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
			CodeLength:        4,
			Palette:           []string{"#00f2ff", "#39ff14", "#ff00ff", "#ffff00"},
		},
		Transport: TransportSettings{
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			MaxMessageSize: 4096,
			SendBuffer:     256,
		},
		Log: LogSettings{
			Level: "info",
		},
		ConfigDir: "configs",
	}
}

// LoadSettings builds settings from defaults, an optional YAML file and the
// environment, in that order. An explicit path must exist; the implicit
// relay.yaml is optional.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := s.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyEnv overrides fields from environment variables.
func (s *Settings) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		s.Server.Port = port
	}
	if v := getenv("HOST"); v != "" {
		s.Server.Host = v
	}
	if v := getenv("STATIC_DIR"); v != "" {
		s.Server.StaticDir = v
	}
	if v := getenv("CONFIG_DIR"); v != "" {
		s.ConfigDir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		s.Log.Level = strings.ToLower(v)
	}
	if v := getenv("MAX_ROOMS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_ROOMS %q: %w", v, err)
		}
		s.Relay.MaxRooms = n
	}
	if v := getenv("PONG_WAIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PONG_WAIT %q: %w", v, err)
		}
		s.Transport.PongWait = d
	}
	return nil
}

// Validate checks the settings for values the server cannot run with.
func (s *Settings) Validate() error {
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("settings: port must be between 0 and 65535, got %d", s.Server.Port)
	}
	if s.Relay.DefaultMaxPlayers < 0 {
		return fmt.Errorf("settings: default_max_players cannot be negative")
	}
	if s.Relay.MaxRooms < 0 {
		return fmt.Errorf("settings: max_rooms cannot be negative")
	}
	if s.Relay.CodeLength < 1 || len(s.Relay.CodeAlphabet) < 2 {
		return fmt.Errorf("settings: room codes need a length of at least 1 and an alphabet of at least 2 symbols")
	}
	if len(s.Relay.Palette) == 0 {
		return fmt.Errorf("settings: palette cannot be empty")
	}
	if s.Transport.PongWait < 0 || s.Transport.WriteWait <= 0 {
		return fmt.Errorf("settings: pong_wait cannot be negative and write_wait must be positive")
	}
	if s.Transport.MaxMessageSize <= 0 || s.Transport.SendBuffer <= 0 {
		return fmt.Errorf("settings: max_message_size and send_buffer must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}
