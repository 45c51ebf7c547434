package renderer

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/spaghettifunk/voxide/engine/core"
	"github.com/spaghettifunk/voxide/engine/renderer/components"
)

// Shader is a compiled program tracked by the renderer. The handle is
// owned by whichever system created it.
type Shader struct {
	ID     string
	Name   string
	Handle ShaderHandle
}

func NewShader(name string, handle ShaderHandle) *Shader {
	return &Shader{
		ID:     uuid.New().String(),
		Name:   name,
		Handle: handle,
	}
}

// ShaderReloader recompiles shader programs in place, leaving batch state
// untouched. Implemented by the shader system.
type ShaderReloader interface {
	ReloadAll() error
}

// Drawable is a batch as the facade sees it during the per-frame flush.
type Drawable interface {
	ZIndex() int32
	Upload() error
	Draw() error
	Destroy()
}

// Config bounds the renderer's batches. ChunkRadius is the world's chunk
// radius; its square bounds the number of concurrently drawn chunks and
// sizes each batch's indirect command buffer.
type Config struct {
	BatchCapacity uint32 `toml:"batch_capacity"`
	ChunkRadius   uint32 `toml:"chunk_radius"`
}

const uniformProjView = "u_proj_view"

// Renderer coordinates the batch registry, the active shader and camera
// bindings, and the per-frame draw pipeline. It is an explicit context
// object: callers own its lifetime through Initialize and Shutdown.
type Renderer struct {
	backend Backend
	config  *Config

	chunkBatch *Batch[BlockVertex3D]
	batches    []Drawable

	shader   *Shader
	reloader ShaderReloader
	camera   *components.Camera

	// Per-frame diagnostic counters, reset by FlushBatches3D.
	vertexCount uint32
	faceCount   uint32
}

func New(backend Backend, config *Config) *Renderer {
	return &Renderer{
		backend: backend,
		config:  config,
	}
}

// Initialize constructs the chunk batch with its vertex layout and zeroes
// the diagnostic counters. The backend must already be initialized.
func (r *Renderer) Initialize() error {
	batchConfig := &BatchConfig{
		Capacity:        r.config.BatchCapacity,
		MaxDrawCommands: r.config.ChunkRadius * r.config.ChunkRadius,
	}
	r.chunkBatch = NewBatch[BlockVertex3D](r.backend, batchConfig)
	if err := r.chunkBatch.Init(BlockVertexLayout()); err != nil {
		return fmt.Errorf("renderer initialize: chunk batch: %w", err)
	}
	r.batches = append(r.batches, r.chunkBatch)

	r.vertexCount = 0
	r.faceCount = 0
	return nil
}

// RegisterBatch adds an externally owned batch to the draw registry. The
// renderer destroys registered batches at Shutdown.
func (r *Renderer) RegisterBatch(batch Drawable) {
	r.batches = append(r.batches, batch)
}

// ChunkBatch exposes the batch that chunk geometry is accumulated into.
func (r *Renderer) ChunkBatch() *Batch[BlockVertex3D] {
	return r.chunkBatch
}

// SetShader replaces the active shader binding for subsequent flushes.
// Already-issued draws are unaffected.
func (r *Renderer) SetShader(shader *Shader) {
	r.shader = shader
}

func (r *Renderer) SetShaderReloader(reloader ShaderReloader) {
	r.reloader = reloader
}

// SetCamera replaces the active camera binding for subsequent flushes.
func (r *Renderer) SetCamera(camera *components.Camera) {
	r.camera = camera
}

func (r *Renderer) Camera() *components.Camera {
	return r.camera
}

// DrawBatches3D uploads and draws every registered batch, ordered by
// ascending z-index so paint order follows the intended depth layering.
func (r *Renderer) DrawBatches3D() error {
	sort.SliceStable(r.batches, func(i, j int) bool {
		return r.batches[i].ZIndex() < r.batches[j].ZIndex()
	})
	for _, batch := range r.batches {
		if err := batch.Upload(); err != nil {
			return err
		}
		if err := batch.Draw(); err != nil {
			return err
		}
	}
	return nil
}

// FlushBatches3D is the single per-frame entry point for the frame loop:
// it binds the active shader, uploads the combined projection/view
// transform, draws all pending batches and resets the frame counters.
func (r *Renderer) FlushBatches3D(projection, view mgl32.Mat4) error {
	if r.shader == nil {
		return fmt.Errorf("flush batches: no active shader")
	}
	if err := r.backend.ShaderUse(r.shader.Handle); err != nil {
		return err
	}
	if err := r.backend.ShaderSetUniformMat4(r.shader.Handle, uniformProjView, projection.Mul4(view)); err != nil {
		return err
	}
	if err := r.DrawBatches3D(); err != nil {
		return err
	}
	r.vertexCount = 0
	r.faceCount = 0
	return nil
}

// ReloadShaders recompiles the active shader program without altering any
// batch state.
func (r *Renderer) ReloadShaders() error {
	if r.reloader == nil {
		return fmt.Errorf("reload shaders: no shader reloader bound")
	}
	return r.reloader.ReloadAll()
}

// ClearBuffers clears the device's color and depth targets for the next
// frame.
func (r *Renderer) ClearBuffers() {
	r.backend.ClearBuffers()
}

// ReportStatus emits the per-frame diagnostic counts.
func (r *Renderer) ReportStatus() {
	fps, frameTime := core.MetricsFrame()
	core.LogDebug("renderer status: %d vertices, %d faces, %.0f fps, %.2f ms", r.vertexCount, r.faceCount, fps, frameTime)
}

// Shutdown tears down every registered batch and releases the active
// shader binding. The backend itself is shut down by its owner.
func (r *Renderer) Shutdown() error {
	for _, batch := range r.batches {
		batch.Destroy()
	}
	r.batches = nil
	r.chunkBatch = nil
	r.shader = nil
	return nil
}
