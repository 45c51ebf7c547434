package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// testBackend records every device submission so tests can assert on
// buffer contents and draw order without a graphics context.
type testBackend struct {
	nextHandle uint32
	buffers    map[BufferHandle][]byte
	layouts    map[LayoutHandle]BufferHandle
	shaders    map[ShaderHandle]*ShaderConfig

	writes   []bufferWrite
	draws    []indirectDraw
	used     []ShaderHandle
	uniforms map[string]mgl32.Mat4
	cleared  int
}

type bufferWrite struct {
	handle BufferHandle
	offset uint64
	data   []byte
}

type indirectDraw struct {
	layout   LayoutHandle
	commands BufferHandle
	offset   uint64
}

func newTestBackend() *testBackend {
	return &testBackend{
		buffers:  make(map[BufferHandle][]byte),
		layouts:  make(map[LayoutHandle]BufferHandle),
		shaders:  make(map[ShaderHandle]*ShaderConfig),
		uniforms: make(map[string]mgl32.Mat4),
	}
}

func (b *testBackend) Initialize(appName string, appWidth, appHeight uint32) error { return nil }
func (b *testBackend) Shutdown() error                                            { return nil }
func (b *testBackend) Resized(width, height uint16) error                         { return nil }

func (b *testBackend) BufferCreate(size uint64) (BufferHandle, error) {
	if size == 0 {
		return 0, fmt.Errorf("zero-sized buffer")
	}
	b.nextHandle++
	handle := BufferHandle(b.nextHandle)
	b.buffers[handle] = make([]byte, size)
	return handle, nil
}

func (b *testBackend) BufferDestroy(handle BufferHandle) {
	delete(b.buffers, handle)
}

func (b *testBackend) BufferWrite(handle BufferHandle, offset uint64, data []byte) error {
	buf, ok := b.buffers[handle]
	if !ok {
		return fmt.Errorf("unknown buffer %d", handle)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("write of %d bytes at %d exceeds buffer size %d", len(data), offset, len(buf))
	}
	copy(buf[offset:], data)
	b.writes = append(b.writes, bufferWrite{handle: handle, offset: offset, data: append([]byte(nil), data...)})
	return nil
}

func (b *testBackend) LayoutCreate(buffer BufferHandle, stride uint32, attributes []VertexAttribute) (LayoutHandle, error) {
	if err := ValidateLayout(stride, attributes); err != nil {
		return 0, err
	}
	b.nextHandle++
	handle := LayoutHandle(b.nextHandle)
	b.layouts[handle] = buffer
	return handle, nil
}

func (b *testBackend) LayoutDestroy(handle LayoutHandle) {
	delete(b.layouts, handle)
}

func (b *testBackend) DrawIndirect(layout LayoutHandle, commands BufferHandle, offset uint64) error {
	b.draws = append(b.draws, indirectDraw{layout: layout, commands: commands, offset: offset})
	return nil
}

func (b *testBackend) ClearBuffers() {
	b.cleared++
}

func (b *testBackend) ShaderCreate(config *ShaderConfig) (ShaderHandle, error) {
	b.nextHandle++
	handle := ShaderHandle(b.nextHandle)
	b.shaders[handle] = config
	return handle, nil
}

func (b *testBackend) ShaderDestroy(handle ShaderHandle) {
	delete(b.shaders, handle)
}

func (b *testBackend) ShaderUse(handle ShaderHandle) error {
	if _, ok := b.shaders[handle]; !ok {
		return fmt.Errorf("unknown shader %d", handle)
	}
	b.used = append(b.used, handle)
	return nil
}

func (b *testBackend) ShaderSetUniformMat4(handle ShaderHandle, name string, value mgl32.Mat4) error {
	b.uniforms[name] = value
	return nil
}

// lastDrawCommand decodes the indirect command the latest draw points at.
func (b *testBackend) lastDrawCommand() DrawArraysIndirectCommand {
	draw := b.draws[len(b.draws)-1]
	buf := b.buffers[draw.commands]
	return *(*DrawArraysIndirectCommand)(unsafe.Pointer(&buf[draw.offset]))
}
