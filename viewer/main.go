package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/orbitview"
	"github.com/gekko3d/orbitview/rt/app"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "orbitview:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML config file")
	debug := flag.Bool("debug", false, "Enable debug logging and frame statistics")
	width := flag.Int("width", 0, "Window width (overrides config)")
	height := flag.Int("height", 0, "Window height (overrides config)")
	texture := flag.String("texture", "", "Texture image (png, jpeg, bmp, webp)")
	flag.Parse()

	cfg := orbitview.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = orbitview.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *debug {
		cfg.Debug = true
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *texture != "" {
		cfg.Render.Texture = *texture
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := orbitview.NewDefaultLogger("orbitview", cfg.Debug)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := app.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	session, err := app.NewSession(window, cfg, logger)
	if err != nil {
		logger.Errorf("startup failed: %v", err)
		return err
	}
	defer session.Close()

	return session.Run(window)
}
