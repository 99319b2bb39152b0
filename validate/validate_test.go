package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/asteroids-relay/game/engine"
)

func writePreset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}
	return path
}

func TestFile_Valid(t *testing.T) {
	path := writePreset(t, t.TempDir(), "test.yaml", "name: Test\nlives: 5\n")

	result := File(path)
	if !result.Valid {
		t.Fatalf("Expected valid preset, got errors: %v", result.Errors)
	}
	if result.File != "test.yaml" {
		t.Errorf("Expected file name test.yaml, got %s", result.File)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings for default tuning, got %v", result.Warnings)
	}
	if !strings.Contains(strings.Join(result.Info, "\n"), "Lives: 5") {
		t.Errorf("Expected lives in summary, got %v", result.Info)
	}
}

func TestFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"broken yaml", "name: [unclosed"},
		{"missing name", "lives: 3\n"},
		{"zero lives", "name: X\nlives: 0\n"},
		{"drag above one", "name: X\ndrag: 1.5\n"},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePreset(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml", tt.content)
			result := File(path)
			if result.Valid {
				t.Error("Expected invalid preset")
			}
			if len(result.Errors) == 0 {
				t.Error("Expected an error message")
			}
		})
	}

	if File(filepath.Join(dir, "missing.yaml")).Valid {
		t.Error("Expected missing file to be invalid")
	}
}

func TestPlayability(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *engine.GameConfig)
		want   string
	}{
		{"huge ship", func(c *engine.GameConfig) { c.ShipRadius = 100 }, "ship diameter"},
		{"short bullets", func(c *engine.GameConfig) { c.BulletLifetime = 5 }, "bullets travel only 35"},
		{"no splits", func(c *engine.GameConfig) { c.SplitThreshold = 60 }, "will not split"},
		{"frozen rocks", func(c *engine.GameConfig) { c.AsteroidBaseSpeed = 0; c.SpeedStepPerLevel = 0 }, "never move"},
		{"no invulnerability", func(c *engine.GameConfig) { c.InvulnerableTicks = 0 }, "without invulnerability"},
		{"no points", func(c *engine.GameConfig) { c.Scoring.Large, c.Scoring.Medium, c.Scoring.Small = 0, 0, 0 }, "scores zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := engine.DefaultGameConfig()
			tt.modify(config)

			warnings := Playability(config)
			if len(warnings) != 1 || !strings.Contains(warnings[0], tt.want) {
				t.Errorf("Expected one warning containing %q, got %v", tt.want, warnings)
			}
		})
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "b.yaml", "name: B\n")
	writePreset(t, dir, "a.json", `{"name": "A", "lives": 0}`)
	writePreset(t, dir, "notes.txt", "ignored")
	os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755)

	results, err := Dir(dir)
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].File != "a.json" || results[0].Valid {
		t.Errorf("Expected invalid a.json first, got %+v", results[0])
	}
	if results[1].File != "b.yaml" || !results[1].Valid {
		t.Errorf("Expected valid b.yaml second, got %+v", results[1])
	}

	if _, err := Dir(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	err := Report(&out, []ValidationResult{
		{File: "good.yaml", Valid: true, Info: []string{"Name: Good"}, Warnings: []string{"asteroids never move"}},
		{File: "bad.yaml", Valid: false, Errors: []string{"config validation: name is required"}},
	})

	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("Expected one invalid preset, got %v", err)
	}
	text := out.String()
	for _, want := range []string{"good.yaml", "VALID", "! asteroids never move", "INVALID", "x config validation"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in report:\n%s", want, text)
		}
	}

	out.Reset()
	if err := Report(&out, []ValidationResult{{File: "good.yaml", Valid: true}}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "All presets are valid") {
		t.Errorf("Expected success line, got %s", out.String())
	}

	if err := Report(&out, nil); err == nil {
		t.Error("Expected error for an empty result set")
	}
}

func TestShippedPresets(t *testing.T) {
	results, err := Dir(filepath.Join("..", "configs"))
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
		if len(result.Warnings) > 0 {
			t.Errorf("%s has playability warnings: %v", result.File, result.Warnings)
		}
	}
}
