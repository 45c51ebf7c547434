package systems

import (
	"fmt"

	"github.com/spaghettifunk/voxide/engine/assets"
	"github.com/spaghettifunk/voxide/engine/core"
	"github.com/spaghettifunk/voxide/engine/renderer"
)

type ShaderSystemConfig struct {
	// The maximum number of shaders held in the system.
	MaxShaderCount uint16
}

// ShaderSystem owns every compiled shader program: it loads sources
// through the asset manager, compiles them on the backend, and recompiles
// them in place when their sources change on disk.
type ShaderSystem struct {
	Config *ShaderSystemConfig
	// A lookup table for shader name -> shader
	Lookup map[string]*renderer.Shader

	backend renderer.Backend
	assets  *assets.AssetManager
}

func NewShaderSystem(config *ShaderSystemConfig, backend renderer.Backend, am *assets.AssetManager) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		Config:  config,
		Lookup:  make(map[string]*renderer.Shader, config.MaxShaderCount),
		backend: backend,
		assets:  am,
	}, nil
}

// CreateShader loads the named shader's sources from the asset directory
// and compiles them into a program.
func (ss *ShaderSystem) CreateShader(name string) (*renderer.Shader, error) {
	if _, ok := ss.Lookup[name]; ok {
		return nil, fmt.Errorf("shader %q already exists", name)
	}
	if len(ss.Lookup) >= int(ss.Config.MaxShaderCount) {
		return nil, fmt.Errorf("shader system is full (%d shaders)", ss.Config.MaxShaderCount)
	}

	handle, err := ss.compile(name)
	if err != nil {
		return nil, err
	}

	shader := renderer.NewShader(name, handle)
	ss.Lookup[name] = shader
	return shader, nil
}

// GetShader returns the named shader.
func (ss *ShaderSystem) GetShader(name string) (*renderer.Shader, error) {
	shader, ok := ss.Lookup[name]
	if !ok {
		return nil, fmt.Errorf("shader %q not found", name)
	}
	return shader, nil
}

// Reload recompiles the named shader from its current sources. The shader
// keeps its identity; only the program handle is swapped, so holders of
// the shader see the new program on their next use. A failed compile
// leaves the previous program bound.
func (ss *ShaderSystem) Reload(name string) error {
	shader, ok := ss.Lookup[name]
	if !ok {
		return fmt.Errorf("reload: shader %q not found", name)
	}

	handle, err := ss.compile(name)
	if err != nil {
		core.LogError("shader %q reload failed, keeping previous program: %s", name, err)
		return err
	}

	ss.backend.ShaderDestroy(shader.Handle)
	shader.Handle = handle
	core.LogInfo("shader %q reloaded", name)
	return nil
}

// ReloadAll recompiles every shader in the system.
func (ss *ShaderSystem) ReloadAll() error {
	for name := range ss.Lookup {
		if err := ss.Reload(name); err != nil {
			return err
		}
	}
	return nil
}

func (ss *ShaderSystem) Shutdown() error {
	for _, shader := range ss.Lookup {
		ss.backend.ShaderDestroy(shader.Handle)
	}
	ss.Lookup = make(map[string]*renderer.Shader)
	return nil
}

func (ss *ShaderSystem) compile(name string) (renderer.ShaderHandle, error) {
	vertex, fragment, err := ss.assets.LoadShaderSource(name)
	if err != nil {
		return 0, err
	}
	return ss.backend.ShaderCreate(&renderer.ShaderConfig{
		Name:           name,
		VertexSource:   vertex,
		FragmentSource: fragment,
	})
}
