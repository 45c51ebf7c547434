package engine

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/voxide/engine/core"
	"github.com/spaghettifunk/voxide/engine/renderer"
)

// fileConfig is the on-disk shape of the application configuration.
type fileConfig struct {
	Window struct {
		PosX   uint32 `toml:"pos_x"`
		PosY   uint32 `toml:"pos_y"`
		Width  uint32 `toml:"width"`
		Height uint32 `toml:"height"`
		Name   string `toml:"name"`
	} `toml:"window"`
	Assets struct {
		Dir string `toml:"dir"`
	} `toml:"assets"`
	LogLevel string          `toml:"log_level"`
	Renderer renderer.Config `toml:"renderer"`
}

// DefaultApplicationConfig returns the configuration used when no file is
// supplied.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Voxide",
		LogLevel:    core.DebugLevel,
		AssetsDir:   "assets",
		Renderer: renderer.Config{
			BatchCapacity: 10_000_000,
			ChunkRadius:   12,
		},
	}
}

// LoadApplicationConfig reads a TOML configuration file, filling any
// omitted field from the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}

	if fc.Window.Name != "" {
		config.Name = fc.Window.Name
	}
	if fc.Window.Width != 0 {
		config.StartWidth = fc.Window.Width
	}
	if fc.Window.Height != 0 {
		config.StartHeight = fc.Window.Height
	}
	if fc.Window.PosX != 0 {
		config.StartPosX = fc.Window.PosX
	}
	if fc.Window.PosY != 0 {
		config.StartPosY = fc.Window.PosY
	}
	if fc.Assets.Dir != "" {
		config.AssetsDir = fc.Assets.Dir
	}
	if fc.Renderer.BatchCapacity != 0 {
		config.Renderer.BatchCapacity = fc.Renderer.BatchCapacity
	}
	if fc.Renderer.ChunkRadius != 0 {
		config.Renderer.ChunkRadius = fc.Renderer.ChunkRadius
	}
	if fc.LogLevel != "" {
		level, err := parseLogLevel(fc.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("load config %q: %w", path, err)
		}
		config.LogLevel = level
	}
	return config, nil
}

func parseLogLevel(s string) (core.LogLevel, error) {
	switch s {
	case "debug":
		return core.DebugLevel, nil
	case "info":
		return core.InfoLevel, nil
	case "warn":
		return core.WarnLevel, nil
	case "error":
		return core.ErrorLevel, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
