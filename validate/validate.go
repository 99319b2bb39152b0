// Package validate checks simulation preset files. On top of the hard limits
// enforced by engine.ValidateGameConfig it looks for tunings that load fine
// but play badly:
//   - Ships too large for the field
//   - Bullets that expire before crossing a meaningful part of the field
//   - Asteroids that can never split
//   - Rocks that never move
//   - Respawns without invulnerability
//   - Scoring that awards nothing
//
// Playability findings are warnings; only engine errors make a file invalid.
package validate

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/asteroids-relay/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds a short summary of a valid preset.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// File loads and validates a single preset file.
func File(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	config, err := engine.LoadGameConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Warnings = Playability(config)
	result.Info = []string{
		fmt.Sprintf("Name: %s", config.Name),
		fmt.Sprintf("Field: %.0fx%.0f", config.Width, config.Height),
		fmt.Sprintf("Lives: %d", config.Lives),
		fmt.Sprintf("First wave: %d asteroids", config.BaseAsteroids+1),
	}
	return result
}

// Playability returns warnings for a config that passed engine validation.
func Playability(config *engine.GameConfig) []string {
	var warnings []string
	short := math.Min(config.Width, config.Height)

	if config.ShipRadius*2 > short/4 {
		warnings = append(warnings, fmt.Sprintf("ship diameter %.0f exceeds a quarter of the field", config.ShipRadius*2))
	}

	if reach := config.BulletSpeed * float64(config.BulletLifetime); reach < short/4 {
		warnings = append(warnings, fmt.Sprintf("bullets travel only %.0f before expiring", reach))
	}

	if config.AsteroidMinSize+config.AsteroidSizeRange <= config.SplitThreshold {
		warnings = append(warnings, "new asteroids are never larger than split_threshold and will not split")
	}

	if config.AsteroidBaseSpeed == 0 && config.SpeedStepPerLevel == 0 {
		warnings = append(warnings, "asteroids never move")
	}

	if config.InvulnerableTicks == 0 {
		warnings = append(warnings, "ships respawn without invulnerability")
	}

	s := config.Scoring
	if s.Large == 0 && s.Medium == 0 && s.Small == 0 {
		warnings = append(warnings, "every asteroid scores zero")
	}

	return warnings
}

// Dir validates every preset file in dir, sorted by name.
func Dir(dir string) ([]ValidationResult, error) {
	files, err := PresetFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// PresetFiles lists the YAML and JSON documents in dir.
func PresetFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Report prints the results and returns an error if any file is invalid.
func Report(w io.Writer, results []ValidationResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no preset files found")
	}

	invalid := 0
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if !result.Valid {
			invalid++
			fmt.Fprintln(w, "INVALID")
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  x "+err)
			}
			continue
		}

		fmt.Fprintln(w, "VALID")
		for _, info := range result.Info {
			fmt.Fprintln(w, "  "+info)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ! "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if invalid > 0 {
		fmt.Fprintf(w, "%d of %d presets have errors\n", invalid, len(results))
		return fmt.Errorf("%d of %d presets invalid", invalid, len(results))
	}
	fmt.Fprintln(w, "All presets are valid")
	return nil
}
