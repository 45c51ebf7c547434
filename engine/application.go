package engine

import (
	"github.com/spaghettifunk/voxide/engine/core"
	"github.com/spaghettifunk/voxide/engine/renderer"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"height"`
	// The application name used in windowing, if applicable.
	Name     string        `toml:"name"`
	LogLevel core.LogLevel `toml:"-"`
	// Directory holding shader sources and other assets.
	AssetsDir string `toml:"assets_dir"`

	Renderer renderer.Config `toml:"renderer"`
}
