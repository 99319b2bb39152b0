package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/asteroids-relay/game/engine"
	"github.com/wricardo/asteroids-relay/game/service"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultPreset is loaded as the default when present.
const DefaultPreset = "classic"

// presetExtensions lists the file suffixes recognised as presets, in lookup order.
var presetExtensions = []string{".yaml", ".yml", ".json"}

// Manager handles simulation preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new preset manager. A missing directory is not an
// error: the manager then serves only the built-in default.
func NewManager(configDir string) (*Manager, error) {
	if info, err := os.Stat(configDir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("config path is not a directory: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	m.loadDefaultConfig()
	return m, nil
}

// Dir returns the preset directory.
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadConfig loads a preset by name
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = presetName(name)
	if !validPresetName(name) {
		return nil, ErrConfigNotFound
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	path, ok := m.findPreset(name)
	if !ok {
		if name == DefaultPreset {
			return builtinDefault(), nil
		}
		return nil, ErrConfigNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all valid presets in the directory,
// sorted by id. Invalid files are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	configs := make([]*service.ConfigInfo, 0, len(entries))
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isPresetFile(entry.Name()) {
			continue
		}

		name := presetName(entry.Name())
		if seen[name] {
			continue
		}

		config, err := m.LoadConfig(name)
		if err != nil {
			continue
		}
		seen[name] = true

		configs = append(configs, configInfo(entry.Name(), name, config))
	}

	if !seen[DefaultPreset] {
		configs = append(configs, configInfo("", DefaultPreset, builtinDefault()))
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached presets so the next load reads from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// SaveConfig validates a preset and writes it as YAML
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = presetName(name)
	if !validPresetName(name) {
		return fmt.Errorf("%w: bad preset name %q", ErrInvalidConfig, name)
	}

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(m.configDir, name+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	if name == DefaultPreset {
		m.defaultConfig = config
	}
	m.mu.Unlock()

	return nil
}

// loadDefaultConfig prefers the classic preset on disk and falls back to the
// built-in tuning when it is missing or invalid.
func (m *Manager) loadDefaultConfig() {
	config, err := m.LoadConfig(DefaultPreset)
	if err != nil {
		config = builtinDefault()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

func (m *Manager) findPreset(name string) (string, bool) {
	for _, ext := range presetExtensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func builtinDefault() *engine.GameConfig {
	return engine.DefaultGameConfig()
}

func configInfo(filename, id string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:      filename,
		ConfigID:      id,
		Name:          config.Name,
		Description:   config.Description,
		Lives:         config.Lives,
		BaseAsteroids: config.BaseAsteroids,
	}
}

func isPresetFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range presetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// validPresetName accepts bare file names that stay inside the preset directory.
func validPresetName(name string) bool {
	return name != "" && name != "." && !strings.ContainsAny(name, `/\`) &&
		!strings.Contains(name, "..") && filepath.IsLocal(name)
}

// presetName strips a known extension from a file or preset name.
func presetName(name string) string {
	name = strings.TrimSpace(name)
	ext := filepath.Ext(name)
	if isPresetFile(name) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
