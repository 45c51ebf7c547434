package testbed

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/voxide/engine"
	"github.com/spaghettifunk/voxide/engine/core"
)

const (
	groundSize   = 16
	groundLayer  = 0.0
	pillarLayer  = 1.0
	cameraOrbitR = 28.0
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	blocks []mgl32.Vec3
	angle  float32

	width  uint32
	height uint32
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogInfo("booting testbed...")
	state := g.State.(*gameState)

	// A flat ground slab with a few pillars, centered on the origin.
	half := float32(groundSize / 2)
	for x := -half; x < half; x++ {
		for z := -half; z < half; z++ {
			state.blocks = append(state.blocks, mgl32.Vec3{x, 0, z})
		}
	}
	for _, corner := range []mgl32.Vec3{{-4, 0, -4}, {4, 0, -4}, {-4, 0, 4}, {4, 0, 4}} {
		for y := float32(1); y <= 3; y++ {
			state.blocks = append(state.blocks, mgl32.Vec3{corner.X(), y, corner.Z()})
		}
	}

	camera := g.Engine.CameraSystem().GetDefault()
	camera.SetPosition(mgl32.Vec3{0, 12, cameraOrbitR})
	camera.Pitch(-0.4)

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.angle += float32(deltaTime) * 0.3

	// Orbit the origin, always facing the center of the slab.
	position := mgl32.Vec3{
		cameraOrbitR * float32(math.Sin(float64(state.angle))),
		12,
		cameraOrbitR * float32(math.Cos(float64(state.angle))),
	}
	yaw := float32(math.Atan2(float64(position.X()), float64(position.Z())))

	camera := g.Engine.CameraSystem().GetDefault()
	camera.SetPosition(position)
	camera.SetEulerRotation(mgl32.Vec3{-0.4, yaw, 0})
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.State.(*gameState)
	renderer := g.Engine.Renderer()

	for _, block := range state.blocks {
		layer := float32(groundLayer)
		if block.Y() > 0 {
			layer = pillarLayer
		}
		if err := renderer.GenerateBlockFrameData(block, layer); err != nil {
			return err
		}
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	return nil
}
