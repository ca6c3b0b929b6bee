package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySaveAndGet(t *testing.T) {
	r := NewRegistry()

	e := NewEmitter("7")
	r.Save("7", e)

	got, ok := r.Get("7")
	require.True(t, ok)
	assert.Same(t, e, got)

	_, ok = r.Get("8")
	assert.False(t, ok)
}

func TestRegistrySaveReplacesWithoutClosing(t *testing.T) {
	r := NewRegistry()

	first := NewEmitter("7")
	second := NewEmitter("7")
	r.Save("7", first)
	r.Save("7", second)

	got, ok := r.Get("7")
	require.True(t, ok)
	assert.Same(t, second, got)

	// The replaced emitter stays open; its own handler closes it.
	select {
	case <-first.Done():
		t.Fatal("replaced emitter was closed by Save")
	default:
	}
}

func TestRegistryAllSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Save("1", NewEmitter("1"))
	r.Save("2", NewEmitter("2"))
	r.Save("3", NewEmitter("3"))

	snapshot := r.All()
	assert.Len(t, snapshot, 3)

	// Mutating the registry afterwards does not affect the snapshot.
	r.Delete("2")
	assert.Len(t, snapshot, 3)
	assert.Len(t, r.All(), 2)
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry()
	r.Save("7", NewEmitter("7"))

	r.Delete("7")
	_, ok := r.Get("7")
	assert.False(t, ok)

	// Deleting an absent id is a no-op.
	r.Delete("7")
}

func TestRegistryCompareAndDelete(t *testing.T) {
	r := NewRegistry()

	old := NewEmitter("7")
	r.Save("7", old)

	// A replacement saved under the same id survives the stale delete.
	replacement := NewEmitter("7")
	r.Save("7", replacement)
	r.CompareAndDelete("7", old)

	current, ok := r.Get("7")
	require.True(t, ok)
	assert.Same(t, replacement, current)

	// Deleting the registered emitter itself removes the entry.
	r.CompareAndDelete("7", replacement)
	_, ok = r.Get("7")
	assert.False(t, ok)

	// Absent id is a no-op.
	r.CompareAndDelete("7", replacement)
}

func TestRegistryDeletePrefixMatchesStringPrefix(t *testing.T) {
	r := NewRegistry()
	r.Save("1", NewEmitter("1"))
	r.Save("12", NewEmitter("12"))
	r.Save("2", NewEmitter("2"))

	r.DeletePrefix("1")

	// "1" is a string prefix of "12", so both go.
	_, ok := r.Get("1")
	assert.False(t, ok)
	_, ok = r.Get("12")
	assert.False(t, ok)
	_, ok = r.Get("2")
	assert.True(t, ok)
}

func TestEmitterSendAfterClose(t *testing.T) {
	e := NewEmitter("7")
	e.Close()

	err := e.Send([]byte("late"))
	assert.Error(t, err)

	// Close is idempotent.
	e.Close()
}

func TestEmitterSendFullBuffer(t *testing.T) {
	e := NewEmitter("7")
	for i := 0; i < sendBuffer; i++ {
		require.NoError(t, e.Send([]byte("x")))
	}

	assert.Error(t, e.Send([]byte("overflow")))
}
