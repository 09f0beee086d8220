package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"photo-session/internal/camera"
	"photo-session/internal/config"
	"photo-session/internal/dof"
	"photo-session/internal/render"
	"photo-session/internal/scene"
	"photo-session/internal/session"
	"photo-session/internal/terminal"
	"photo-session/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to settings file (.toml or .json), reloaded on change")
	dataRoot := flag.String("data", "", "Path to the assets directory (default: auto-detect)")
	sceneFile := flag.String("scene", "", "Scene YAML file (default: built-in courtyard)")
	outputDir := flag.String("output", "", "Screenshot directory (default: Screenshots beside the assets)")
	format := flag.String("format", "", "Screenshot format: PNG, JPG, EXR or TGA")
	logFile := flag.String("log", "", "Write logs to this file (default: discard)")

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
	cfg.Resolve(config.Flags{
		DataRoot:  *dataRoot,
		Scene:     *sceneFile,
		OutputDir: *outputDir,
		Format:    *format,
	})

	// The terminal owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sc, err := loadScene(cfg.Scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	engine := render.NewEngine(sc, textures(cfg.Textures, logger))
	d := cfg.DepthOfField
	if d.Volume != "" {
		engine.Volumes = append(engine.Volumes, dof.NewVolume(d.Volume, d.Pipeline))
	}

	// The player camera rides a rig like a first-person controller.
	rig := camera.NewTransform("player")
	rig.SetPosition(sc.MainCamera.Position)
	cam := camera.FromViewpoint(sc.MainCamera)
	cam.Name = "player camera"
	cam.Transform.SetParent(rig)
	cam.Colliders = append(cam.Colliders, &camera.Collider{Name: "head", Enabled: true, IsTrigger: true})
	controller := &session.Switch{Name: "player controller", On: true}

	sess, err := session.New(session.Options{
		Settings:  cfg,
		Engine:    engine,
		Camera:    cam,
		Cursor:    &session.SoftCursor{Shown: true, Lock: session.LockConfined},
		Blacklist: []session.Toggle{controller},
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		os.Exit(1)
	}
	if err := sess.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting session: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *configFile != "" {
		go func() {
			err := config.Watch(ctx, *configFile, logger, func(s config.Settings) {
				s.Resolve(config.Flags{
					DataRoot:  *dataRoot,
					Scene:     *sceneFile,
					OutputDir: *outputDir,
					Format:    *format,
				})
				sess.ApplySettings(s)
			})
			if err != nil {
				logger.Warn("settings watch stopped", "error", err)
			}
		}()
	}

	app := terminal.NewApp(screen, sess, engine)
	runErr := app.Run(ctx)
	screen.Fini()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
	if last := sess.Capture().Last(); last.Path != "" {
		fmt.Printf("Last screenshot: %s\n", last.Path)
	}
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Default(), nil
	}
	return scene.Load(path)
}

// textures returns a resolver for dir, nil when no directory is set.
func textures(dir string, logger *slog.Logger) texture.Resolver {
	if dir == "" {
		return nil
	}
	c := texture.NewCache(texture.BuildIndex(dir))
	c.Logger = logger
	return c
}
