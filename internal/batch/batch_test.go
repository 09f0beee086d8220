package batch

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-session/internal/autofocus"
	"photo-session/internal/capture"
	"photo-session/internal/clock"
	"photo-session/internal/config"
	"photo-session/internal/scene"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	s := config.Default()
	s.Image.Format = capture.PNG
	s.DepthOfField.Enabled = true
	s.AutoFocus.MaxRayLength = 100
	return Config{
		Scene:     scene.Default(),
		Settings:  s,
		OutputDir: t.TempDir(),
		Width:     32,
		Height:    24,
		Workers:   2,
		Time:      clock.NewMockTimeProvider(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunRendersEveryShot(t *testing.T) {
	cfg := testConfig(t)
	shots := cfg.Scene.Shots
	results := Run(cfg, shots)

	require.Len(t, results, len(shots))
	for i, r := range results {
		require.True(t, r.Success, r.Error)
		assert.Equal(t, shots[i].Name, r.Shot.Name, "results keep shot order")
		assert.Contains(t, r.Path, "Courtyard - "+shots[i].Name+" - 2024.05.06 - 07.08.09.00")
		assert.Positive(t, r.Focus)
		_, err := os.Stat(filepath.Join(cfg.OutputDir, r.Path))
		assert.NoError(t, err)
	}

	manifest := filepath.Join(cfg.OutputDir, "manifest.json")
	require.NoError(t, WriteManifest(manifest, cfg.OutputDir, cfg.Settings.Image.Format, results))
	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, len(shots))
	assert.Equal(t, "front", entries[0].Name)
	assert.Equal(t, "image/png", entries[0].MIME)
	require.NotNil(t, entries[0].Focus)
	assert.Equal(t, results[0].Focus, *entries[0].Focus)
}

func TestRunReportsProgressAndConfigErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Settings.AutoFocus.Mode = autofocus.Mode(99)
	cfg.Progress = &bytes.Buffer{}

	results := Run(cfg, cfg.Scene.Shots[:1])
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "unknown mode")
}

func TestManifestOmitsFailedImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	results := []Result{{Shot: scene.Viewpoint{Name: "broken"}, Focus: autofocus.NoHit, Error: "boom"}}
	require.NoError(t, WriteManifest(path, dir, capture.PNG, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"image"`)
	assert.NotContains(t, string(data), "focus_distance")
	assert.Contains(t, string(data), `"error": "boom"`)
}

func TestDetectMIMEFallsBackByFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.tga")
	require.NoError(t, os.WriteFile(path, []byte("not a known signature"), 0644))
	assert.Equal(t, "image/x-tga", detectMIME(path, capture.TGA))
	assert.Equal(t, "", detectMIME(path, capture.PNG))
}
