// Package config holds the viewer settings read from a TOML file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/smasonuk/meshpack"
)

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type Camera struct {
	// Distance from the model centre. Zero fits the model to the window.
	Distance float32 `toml:"distance"`
	Yaw      float32 `toml:"yaw"`
	Pitch    float32 `toml:"pitch"`
}

type Light struct {
	Ambient float32 `toml:"ambient"`
}

type Config struct {
	Model              string `toml:"model"`
	Texture            string `toml:"texture"`
	MaxPolygonVertices int    `toml:"max_polygon_vertices"`
	Watch              bool   `toml:"watch"`
	Wireframe          bool   `toml:"wireframe"`
	LogLevel           string `toml:"log_level"`

	Window Window `toml:"window"`
	Camera Camera `toml:"camera"`
	Light  Light  `toml:"light"`
}

func Default() Config {
	return Config{
		MaxPolygonVertices: meshpack.MaxFaceVertices,
		LogLevel:           "info",
		Window: Window{
			Width:  640,
			Height: 480,
			Title:  "objview",
		},
		Light: Light{Ambient: 0.65},
	}
}

// Load reads the TOML file at path over the defaults. Unknown keys are an
// error.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open config file %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Read(bufio.NewReader(file))
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return cfg, nil
}

func Read(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.MaxPolygonVertices < 3 || c.MaxPolygonVertices > meshpack.MaxFaceVertices {
		errs = append(errs, fmt.Errorf("max_polygon_vertices %d must be between 3 and %d", c.MaxPolygonVertices, meshpack.MaxFaceVertices))
	}
	if c.Camera.Distance < 0 {
		errs = append(errs, fmt.Errorf("camera distance %v must not be negative", c.Camera.Distance))
	}
	if c.Light.Ambient < 0 || c.Light.Ambient > 1 {
		errs = append(errs, fmt.Errorf("light ambient %v must be between 0 and 1", c.Light.Ambient))
	}
	return errors.Join(errs...)
}

// MeshOptions converts the settings that affect parsing.
func (c Config) MeshOptions() []meshpack.Option {
	return []meshpack.Option{meshpack.WithMaxPolygonVertices(c.MaxPolygonVertices)}
}
