package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"

	"photo-session/internal/autofocus"
	"photo-session/internal/capture"
)

// ManifestEntry represents one shot in the output manifest.
type ManifestEntry struct {
	Name     string     `json:"name"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	FOV      float64    `json:"fov"`
	Image    string     `json:"image,omitempty"`
	MIME     string     `json:"mime,omitempty"`
	Focus    *float64   `json:"focus_distance,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// fallbackMIME covers formats without a detectable signature.
var fallbackMIME = map[capture.Format]string{
	capture.TGA: "image/x-tga",
	capture.EXR: "image/x-exr",
}

// WriteManifest writes manifest.json for a run's results. Image types are
// sniffed from the written files.
func WriteManifest(path string, outputDir string, format capture.Format, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			Name:     r.Shot.Name,
			Position: [3]float64(r.Shot.Position),
			Yaw:      r.Shot.Yaw,
			Pitch:    r.Shot.Pitch,
			FOV:      r.Shot.FOV,
			Error:    r.Error,
		}
		if r.Focus != autofocus.NoHit {
			focus := r.Focus
			e.Focus = &focus
		}
		if r.Success {
			e.Image = filepath.ToSlash(r.Path)
			e.MIME = detectMIME(filepath.Join(outputDir, r.Path), format)
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest: %w", err)
	}
	return nil
}

func detectMIME(path string, format capture.Format) string {
	kind, err := filetype.MatchFile(path)
	if err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return fallbackMIME[format]
}
