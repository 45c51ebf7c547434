package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/voxide/engine/core"
)

func newTestBatch(t *testing.T, backend *testBackend, capacity uint32) *Batch[BlockVertex3D] {
	t.Helper()
	batch := NewBatch[BlockVertex3D](backend, &BatchConfig{
		Capacity:        capacity,
		MaxDrawCommands: 4,
	})
	require.NoError(t, batch.Init(BlockVertexLayout()))
	return batch
}

func blockVertex(n int32) BlockVertex3D {
	return BlockVertex3D{
		Position: [3]int32{n, n + 1, n + 2},
		TexCoord: [3]float32{float32(n), float32(n) + 0.5, 0},
		Normal:   float32(n % 6),
	}
}

func TestBatchInitTwiceFails(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 16)

	err := batch.Init(BlockVertexLayout())
	assert.ErrorIs(t, err, core.ErrBatchInitialized)
}

func TestBatchInitRejectsBadLayout(t *testing.T) {
	backend := newTestBackend()
	batch := NewBatch[BlockVertex3D](backend, &BatchConfig{Capacity: 16, MaxDrawCommands: 4})

	layout := []VertexAttribute{
		{Slot: 0, ElementCount: 3, Type: ScalarInt32, Offset: 0},
		{Slot: 0, ElementCount: 3, Type: ScalarFloat32, Offset: 12},
	}
	assert.Error(t, batch.Init(layout))
}

func TestBatchAddVertexPreservesOrder(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 16)

	for i := int32(0); i < 10; i++ {
		require.NoError(t, batch.AddVertex(blockVertex(i)))
	}

	assert.Equal(t, uint32(10), batch.VertexCount())
	for i := int32(0); i < 10; i++ {
		assert.Equal(t, blockVertex(i), batch.data[i])
	}
}

func TestBatchAddVertexBeforeInit(t *testing.T) {
	backend := newTestBackend()
	batch := NewBatch[BlockVertex3D](backend, &BatchConfig{Capacity: 16, MaxDrawCommands: 4})

	err := batch.AddVertex(blockVertex(0))
	assert.ErrorIs(t, err, core.ErrBatchInvalid)
	assert.Equal(t, uint32(0), batch.VertexCount())
}

func TestBatchAddVertexAtCapacity(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 4)

	for i := int32(0); i < 4; i++ {
		require.NoError(t, batch.AddVertex(blockVertex(i)))
	}

	err := batch.AddVertex(blockVertex(99))
	assert.ErrorIs(t, err, core.ErrBatchFull)
	assert.Equal(t, uint32(4), batch.VertexCount())
	// The arena still holds exactly the first four vertices, in order.
	for i := int32(0); i < 4; i++ {
		assert.Equal(t, blockVertex(i), batch.data[i])
	}
}

func TestBatchAddVerticesAllOrNothing(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 4)

	require.NoError(t, batch.AddVertices([]BlockVertex3D{blockVertex(0), blockVertex(1), blockVertex(2)}))
	assert.Equal(t, uint32(3), batch.VertexCount())

	err := batch.AddVertices([]BlockVertex3D{blockVertex(3), blockVertex(4)})
	assert.ErrorIs(t, err, core.ErrBatchFull)
	assert.Equal(t, uint32(3), batch.VertexCount())
}

func TestBatchClearThenAdd(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)

	for i := int32(0); i < 5; i++ {
		require.NoError(t, batch.AddVertex(blockVertex(i)))
	}
	batch.Clear()

	v := blockVertex(42)
	require.NoError(t, batch.AddVertex(v))
	assert.Equal(t, uint32(1), batch.VertexCount())
	assert.Equal(t, v, batch.data[0])
}

func TestBatchDrawEmptyIsNoop(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)

	require.NoError(t, batch.Draw())
	assert.Empty(t, backend.draws)
	assert.Equal(t, uint32(0), batch.VertexCount())
}

func TestBatchDrawSubmitsAndClears(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)

	for i := int32(0); i < 5; i++ {
		require.NoError(t, batch.AddVertex(blockVertex(i)))
	}
	require.NoError(t, batch.Upload())
	require.NoError(t, batch.Draw())

	require.Len(t, backend.draws, 1)
	cmd := backend.lastDrawCommand()
	assert.Equal(t, uint32(5), cmd.Count)
	assert.Equal(t, uint32(1), cmd.InstanceCount)
	assert.Equal(t, uint32(0), cmd.First)
	assert.Equal(t, uint32(0), batch.VertexCount())

	// An immediate second draw has nothing to submit.
	require.NoError(t, batch.Draw())
	assert.Len(t, backend.draws, 1)
}

func TestBatchUploadWritesStagedPrefix(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)

	require.NoError(t, batch.AddVertex(blockVertex(7)))
	require.NoError(t, batch.Upload())

	require.Len(t, backend.writes, 1)
	write := backend.writes[0]
	assert.Equal(t, batch.vertexBuffer, write.handle)
	assert.Equal(t, uint64(0), write.offset)
	assert.Equal(t, int(batch.stride()), len(write.data))
}

func TestBatchUploadEmptyWritesNothing(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)

	require.NoError(t, batch.Upload())
	assert.Empty(t, backend.writes)
}

func TestBatchFree(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)
	require.NoError(t, batch.AddVertex(blockVertex(0)))

	batch.Free()
	assert.Equal(t, uint64(0), batch.dataSize)

	err := batch.AddVertex(blockVertex(1))
	assert.ErrorIs(t, err, core.ErrBatchInvalid)
	// Device resources survive Free; only Destroy releases them.
	assert.Contains(t, backend.buffers, batch.vertexBuffer)
	assert.Contains(t, backend.buffers, batch.commandBuffer)
}

func TestBatchDestroyReleasesDeviceResourcesOnce(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)

	vbo, cbo, layout := batch.vertexBuffer, batch.commandBuffer, batch.layout
	batch.Destroy()
	assert.NotContains(t, backend.buffers, vbo)
	assert.NotContains(t, backend.buffers, cbo)
	assert.NotContains(t, backend.layouts, layout)

	// A second Destroy must not touch the backend again.
	batch.Destroy()
}

func TestBatchCommandSlotsRotate(t *testing.T) {
	backend := newTestBackend()
	batch := newTestBatch(t, backend, 8)

	offsets := make(map[uint64]bool)
	for i := 0; i < 4; i++ {
		require.NoError(t, batch.AddVertex(blockVertex(int32(i))))
		require.NoError(t, batch.Upload())
		require.NoError(t, batch.Draw())
		offsets[backend.draws[len(backend.draws)-1].offset] = true
	}
	// Four draws with four command slots use four distinct offsets.
	assert.Len(t, offsets, 4)

	// The fifth draw wraps around to the first slot.
	require.NoError(t, batch.AddVertex(blockVertex(9)))
	require.NoError(t, batch.Upload())
	require.NoError(t, batch.Draw())
	assert.Equal(t, uint64(0), backend.draws[len(backend.draws)-1].offset)
}

func TestBatchLargeCapacityScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 10M vertex arena in short mode")
	}

	backend := newTestBackend()
	batch := NewBatch[BlockVertex3D](backend, &BatchConfig{
		Capacity:        10_000_000,
		MaxDrawCommands: 144,
	})
	require.NoError(t, batch.Init(BlockVertexLayout()))
	defer batch.Destroy()

	for i := int32(0); i < 5; i++ {
		require.NoError(t, batch.AddVertex(blockVertex(i)))
	}
	require.NoError(t, batch.Upload())
	require.NoError(t, batch.Draw())

	require.Len(t, backend.draws, 1)
	assert.Equal(t, uint32(5), backend.lastDrawCommand().Count)
	assert.Equal(t, uint32(0), batch.VertexCount())
}
