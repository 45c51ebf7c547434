package renderer

import (
	"fmt"
	"unsafe"

	"github.com/spaghettifunk/voxide/engine/core"
)

// BatchConfig bounds a batch's staging arena and its indirect command
// buffer. MaxDrawCommands is typically the square of the world's chunk
// radius, the upper bound of concurrently drawn chunks.
type BatchConfig struct {
	Capacity        uint32
	MaxDrawCommands uint32
}

// Batch accumulates vertices of type T in a fixed-capacity CPU staging
// arena and owns the device resources needed to render them in one
// submission: a geometry buffer, an indirect draw-command buffer and a
// vertex-layout object.
//
// Every append writes to the staging arena; Upload is the single path
// that copies staged data to the device buffer. Populate, Upload, Draw.
type Batch[T any] struct {
	backend Backend
	config  *BatchConfig

	data        []T
	dataSize    uint64
	vertexCount uint32
	zIndex      int32

	vertexBuffer  BufferHandle
	commandBuffer BufferHandle
	layout        LayoutHandle

	drawCount uint32
	destroyed bool
}

// NewBatch returns an uninitialized batch. No staging memory or device
// resources exist until Init is called.
func NewBatch[T any](backend Backend, config *BatchConfig) *Batch[T] {
	return &Batch[T]{
		backend: backend,
		config:  config,
	}
}

// Init allocates the staging arena, creates the device buffers and binds
// the vertex layout. Calling Init on an initialized batch is an error
// rather than a silent leak of the previous arena.
func (b *Batch[T]) Init(attributes []VertexAttribute) error {
	if b.data != nil {
		core.LogError("batch init: %s", core.ErrBatchInitialized)
		return core.ErrBatchInitialized
	}

	stride := b.stride()
	if err := ValidateLayout(stride, attributes); err != nil {
		return fmt.Errorf("batch init: %w", err)
	}

	// A batch that cannot stage vertices cannot render anything; treat an
	// impossible allocation as unrecoverable, like the device going away.
	b.data = make([]T, b.config.Capacity)
	b.dataSize = uint64(b.config.Capacity) * uint64(stride)
	b.vertexCount = 0
	b.zIndex = 0
	b.drawCount = 0

	vbo, err := b.backend.BufferCreate(b.dataSize)
	if err != nil {
		return fmt.Errorf("batch init: geometry buffer: %w", err)
	}
	cbo, err := b.backend.BufferCreate(uint64(b.config.MaxDrawCommands) * DrawCommandSize)
	if err != nil {
		b.backend.BufferDestroy(vbo)
		return fmt.Errorf("batch init: draw command buffer: %w", err)
	}
	layout, err := b.backend.LayoutCreate(vbo, stride, attributes)
	if err != nil {
		b.backend.BufferDestroy(vbo)
		b.backend.BufferDestroy(cbo)
		return fmt.Errorf("batch init: vertex layout: %w", err)
	}

	b.vertexBuffer = vbo
	b.commandBuffer = cbo
	b.layout = layout
	b.destroyed = false
	return nil
}

// AddVertex appends one vertex to the staging arena. The vertex is
// dropped, not queued, when the batch is invalid or full.
func (b *Batch[T]) AddVertex(vertex T) error {
	if err := b.checkAppend(1); err != nil {
		return err
	}
	b.data[b.vertexCount] = vertex
	b.vertexCount++
	return nil
}

// AddVertices appends a run of vertices to the staging arena. Either the
// whole run is appended or none of it is.
func (b *Batch[T]) AddVertices(vertices []T) error {
	if err := b.checkAppend(uint32(len(vertices))); err != nil {
		return err
	}
	copy(b.data[b.vertexCount:], vertices)
	b.vertexCount += uint32(len(vertices))
	return nil
}

func (b *Batch[T]) checkAppend(amount uint32) error {
	if b.data == nil {
		core.LogError("batch append: %s", core.ErrBatchInvalid)
		return core.ErrBatchInvalid
	}
	if b.vertexCount > b.config.Capacity {
		core.LogError("batch append: %s: %d/%d", core.ErrBatchCount, b.vertexCount, b.config.Capacity)
		return core.ErrBatchCount
	}
	if b.vertexCount+amount > b.config.Capacity {
		core.LogError("batch append: %s: I have %d/%d vertices", core.ErrBatchFull, b.vertexCount, b.config.Capacity)
		return core.ErrBatchFull
	}
	return nil
}

// Upload copies the filled prefix of the staging arena into the device
// geometry buffer. Must be called after staging appends and before Draw.
func (b *Batch[T]) Upload() error {
	if b.data == nil {
		core.LogError("batch upload: %s", core.ErrBatchInvalid)
		return core.ErrBatchInvalid
	}
	if b.vertexCount == 0 {
		return nil
	}
	return b.backend.BufferWrite(b.vertexBuffer, 0, b.stagedBytes())
}

// Draw issues one indirect triangle-list draw covering every staged
// vertex, then clears the batch for reuse. Drawing an empty batch is a
// no-op, not an error.
func (b *Batch[T]) Draw() error {
	if b.data == nil {
		core.LogError("batch draw: %s", core.ErrBatchInvalid)
		return core.ErrBatchInvalid
	}
	if b.vertexCount == 0 {
		core.LogDebug("batch draw: no vertices to draw")
		return nil
	}

	slot := b.drawCount % b.config.MaxDrawCommands
	cmd := DrawArraysIndirectCommand{
		Count:         b.vertexCount,
		InstanceCount: 1,
		First:         0,
		BaseInstance:  slot,
	}
	offset := uint64(slot) * DrawCommandSize
	if err := b.backend.BufferWrite(b.commandBuffer, offset, commandBytes(&cmd)); err != nil {
		return err
	}
	if err := b.backend.DrawIndirect(b.layout, b.commandBuffer, offset); err != nil {
		return err
	}
	b.drawCount++

	b.Clear()
	return nil
}

// Clear resets the vertex counter. Staged bytes beyond the new counter are
// unreachable until overwritten; device memory is untouched.
func (b *Batch[T]) Clear() {
	b.vertexCount = 0
}

// Free releases the staging arena. Device resources survive until Destroy.
func (b *Batch[T]) Free() {
	if b.data != nil {
		b.data = nil
		b.dataSize = 0
	}
}

// Destroy releases the staging arena and the device resources. Safe to
// call more than once; the device handles are destroyed exactly once.
func (b *Batch[T]) Destroy() {
	b.Free()
	if b.destroyed {
		return
	}
	b.backend.LayoutDestroy(b.layout)
	b.backend.BufferDestroy(b.commandBuffer)
	b.backend.BufferDestroy(b.vertexBuffer)
	b.destroyed = true
}

func (b *Batch[T]) VertexCount() uint32 {
	return b.vertexCount
}

// ZIndex is the signed ordering key used to sequence batch draws,
// ascending, independent of device depth testing.
func (b *Batch[T]) ZIndex() int32 {
	return b.zIndex
}

func (b *Batch[T]) SetZIndex(z int32) {
	b.zIndex = z
}

func (b *Batch[T]) stride() uint32 {
	var zero T
	return uint32(unsafe.Sizeof(zero))
}

func (b *Batch[T]) stagedBytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.data[0])), uint64(b.vertexCount)*uint64(b.stride()))
}

func commandBytes(cmd *DrawArraysIndirectCommand) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(cmd)), DrawCommandSize)
}
