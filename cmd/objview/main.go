// Command objview opens an OBJ model in a window.
//
//	objview [-config objview.toml] [-texture skin.png] [-watch] model.obj
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/smasonuk/meshpack"
	"github.com/smasonuk/meshpack/internal/config"
	"github.com/smasonuk/meshpack/internal/logx"
	"github.com/smasonuk/meshpack/internal/reload"
	"github.com/smasonuk/meshpack/internal/viewer"
	"github.com/smasonuk/meshpack/raster"
)

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "TOML settings file")
		texture    = flag.String("texture", "", "image to map onto textured faces")
		watch      = flag.Bool("watch", false, "reload the model when the file changes")
		wireframe  = flag.Bool("wireframe", false, "start in wireframe mode")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		maxVerts   = flag.Int("max-verts", 0, "largest polygon accepted, 3 to 5")
		width      = flag.Int("width", 0, "window width")
		height     = flag.Int("height", 0, "window height")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [model.obj]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logx.Init(os.Stderr)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "texture":
			cfg.Texture = *texture
		case "watch":
			cfg.Watch = *watch
		case "wireframe":
			cfg.Wireframe = *wireframe
		case "log-level":
			cfg.LogLevel = *logLevel
		case "max-verts":
			cfg.MaxPolygonVertices = *maxVerts
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		}
	})
	if flag.NArg() > 0 {
		cfg.Model = flag.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logx.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Model == "" {
		flag.Usage()
		return errors.New("no model given")
	}

	opts := append(cfg.MeshOptions(), meshpack.WithLogger(slog.Default()))
	mesh, err := meshpack.Load(cfg.Model, opts...)
	switch {
	case errors.Is(err, meshpack.ErrFileNotFound) && cfg.Watch:
		slog.Warn("model not found, waiting for it to appear", slog.Any("err", err))
	case err != nil:
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vo := viewer.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Camera: raster.Camera{
			Distance: cfg.Camera.Distance,
			Yaw:      cfg.Camera.Yaw,
			Pitch:    cfg.Camera.Pitch,
		},
		Light: raster.Light{
			Ambient:   cfg.Light.Ambient,
			ConePower: raster.DefaultLight().ConePower,
		},
		Wireframe: cfg.Wireframe,
	}

	if cfg.Texture != "" {
		img, _, err := ebitenutil.NewImageFromFile(cfg.Texture)
		if err != nil {
			return fmt.Errorf("could not load texture %s: %w", cfg.Texture, err)
		}
		vo.Texture = img
	}

	if cfg.Watch {
		w, err := reload.Watch(ctx, cfg.Model, reload.DefaultDelay, opts...)
		if err != nil {
			return err
		}
		defer w.Close()
		vo.Reloads = w.Results()
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(viewer.New(mesh, vo))
}

