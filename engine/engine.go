package engine

import (
	"fmt"

	"github.com/spaghettifunk/voxide/engine/assets"
	"github.com/spaghettifunk/voxide/engine/core"
	"github.com/spaghettifunk/voxide/engine/platform"
	"github.com/spaghettifunk/voxide/engine/renderer"
	"github.com/spaghettifunk/voxide/engine/renderer/opengl"
	"github.com/spaghettifunk/voxide/engine/systems"
)

// Name of the shader chunk geometry is rendered with.
const blockShaderName = "block"

// Frames between periodic renderer status reports.
const statusReportInterval = 300

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool

	platform     *platform.Platform
	assetManager *assets.AssetManager
	backend      renderer.Backend
	renderer     *renderer.Renderer
	shaderSystem *systems.ShaderSystem
	cameraSystem *systems.CameraSystem

	width      uint32
	height     uint32
	clock      *core.Clock
	lastTime   float64
	frameCount uint64
}

func New(g *Game) (*Engine, error) {
	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	backend := opengl.New()

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     platform.New(),
		assetManager: am,
		backend:      backend,
		renderer:     renderer.New(backend, &g.ApplicationConfig.Renderer),
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}
	g.Engine = e
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	core.SetLogLevel(config.LogLevel)

	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.platform.Startup(config.Name,
		config.StartPosX,
		config.StartPosY,
		config.StartWidth,
		config.StartHeight); err != nil {
		return err
	}

	// The platform made the context current; the backend can come up now.
	if err := e.backend.Initialize(config.Name, e.width, e.height); err != nil {
		return err
	}

	if err := e.assetManager.Initialize(config.AssetsDir); err != nil {
		return err
	}

	if err := e.renderer.Initialize(); err != nil {
		return err
	}

	ss, err := systems.NewShaderSystem(&systems.ShaderSystemConfig{MaxShaderCount: 64}, e.backend, e.assetManager)
	if err != nil {
		return err
	}
	e.shaderSystem = ss

	shader, err := ss.CreateShader(blockShaderName)
	if err != nil {
		return err
	}
	e.renderer.SetShader(shader)
	e.renderer.SetShaderReloader(ss)

	cs, err := systems.NewCameraSystem(&systems.CameraSystemConfig{MaxCameraCount: 16})
	if err != nil {
		return err
	}
	e.cameraSystem = cs
	e.renderer.SetCamera(cs.GetDefault())

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		// Apply shader edits picked up by the asset watcher.
		for _, name := range e.assetManager.DrainChanges() {
			if err := e.shaderSystem.Reload(name); err != nil {
				core.LogError("hot reload of shader %q failed: %s", name, err)
				continue
			}
			core.EventFire(core.EventContext{
				Type: core.EVENT_CODE_SHADER_CHANGED,
				Data: &core.ShaderEvent{Name: name},
			})
		}

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down.")
			e.isRunning = false
			break
		}

		e.renderer.ClearBuffers()

		// The game's render routine feeds this frame's geometry into the
		// renderer's batches.
		if err := e.gameInstance.FnRender(delta); err != nil {
			core.LogError("Game render failed, shutting down.")
			e.isRunning = false
			break
		}

		camera := e.cameraSystem.GetDefault()
		projection := camera.GetProjection(e.width, e.height)
		view := camera.GetView()
		if err := e.renderer.FlushBatches3D(projection, view); err != nil {
			core.LogError("Frame flush failed, shutting down: %s", err)
			e.isRunning = false
			break
		}

		e.platform.SwapBuffers()

		frameElapsedTime := platform.GetAbsoluteTime() - frameStartTime
		core.MetricsUpdate(frameElapsedTime)

		e.frameCount++
		if e.frameCount%statusReportInterval == 0 {
			e.renderer.ReportStatus()
		}

		e.lastTime = currentTime
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown: %s", err)
		}
	}
	if e.shaderSystem != nil {
		if err := e.shaderSystem.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.backend.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	return e.platform.Shutdown()
}

// Renderer exposes the renderer context to the game's hooks.
func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

// CameraSystem exposes the camera registry to the game's hooks.
func (e *Engine) CameraSystem() *systems.CameraSystem {
	return e.cameraSystem
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
	}
}

func (e *Engine) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event data associated with the event type `%d`", context.Type)
		return
	}

	switch core.KeyCode(ke.KeyCode) {
	case core.KEY_ESCAPE:
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
	case core.KEY_R:
		if err := e.renderer.ReloadShaders(); err != nil {
			core.LogError("shader reload failed: %s", err)
		}
	}
}

func (e *Engine) onResized(context core.EventContext) {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event data associated with the event type `%d`", context.Type)
		return
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return
	}

	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}

	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	if err := e.backend.Resized(uint16(width), uint16(height)); err != nil {
		core.LogError(err.Error())
	}
}
