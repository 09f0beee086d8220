package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"photo-session/internal/batch"
	"photo-session/internal/config"
	"photo-session/internal/scene"
	"photo-session/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to settings file (.toml or .json)")
	dataRoot := flag.String("data", "", "Path to the assets directory (default: auto-detect)")
	sceneFile := flag.String("scene", "", "Scene YAML file (default: built-in courtyard)")
	outputDir := flag.String("output", "", "Screenshot directory (default: Screenshots beside the assets)")
	format := flag.String("format", "", "Screenshot format: PNG, JPG, EXR or TGA")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	width := flag.Int("width", 0, "Viewport width the resolution scales from (default: 1280)")
	height := flag.Int("height", 0, "Viewport height the resolution scales from (default: 720)")
	shot := flag.String("shot", "", "Capture only the shot with this name")
	verbose := flag.Bool("v", false, "Log every capture")

	flag.Parse()

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	if *width > 0 && *height > 0 {
		cfg.Batch.Width, cfg.Batch.Height = *width, *height
	}
	cfg.Resolve(config.Flags{
		DataRoot:  *dataRoot,
		Scene:     *sceneFile,
		OutputDir: *outputDir,
		Format:    *format,
		Workers:   *workers,
	})

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sc := scene.Default()
	if cfg.Scene != "" {
		var err error
		sc, err = scene.Load(cfg.Scene)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			os.Exit(1)
		}
	}

	shots := sc.Shots
	if len(shots) == 0 {
		shots = []scene.Viewpoint{sc.MainCamera}
	}
	if *shot != "" {
		var filtered []scene.Viewpoint
		for _, s := range shots {
			if s.Name == *shot {
				filtered = append(filtered, s)
			}
		}
		shots = filtered
	}
	if len(shots) == 0 {
		fmt.Println("No shots to capture.")
		os.Exit(0)
	}

	var tex texture.Resolver
	if cfg.Textures != "" {
		texIndex := texture.BuildIndex(cfg.Textures)
		cache := texture.NewCache(texIndex)
		cache.Logger = logger
		tex = cache
		fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	img := cfg.Image
	fmt.Printf("Photo capture: %s → %s\n", sc.Name, img.Format)
	fmt.Printf("Shots: %d, Workers: %d, Type: %s, Resolution: %s\n",
		len(shots), cfg.Batch.Workers, img.PhotoType, img.Resolution)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Scene:       sc,
		TexResolver: tex,
		Settings:    cfg,
		OutputDir:   cfg.OutputDir,
		Width:       cfg.Batch.Width,
		Height:      cfg.Batch.Height,
		Workers:     cfg.Batch.Workers,
		Logger:      logger,
		Progress:    os.Stdout,
	}, shots)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Captured: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", r.Shot.Name, r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, cfg.OutputDir, img.Format, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
