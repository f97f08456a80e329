package emitter

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	assert.Equal(t, keyOf[greeted, string](), keyOf[greeted, string]())
	assert.NotEqual(t, keyOf[greeted, string](), keyOf[greeted, int]())
	assert.NotEqual(t, keyOf[greeted, string](), keyOf[waved, string]())
	assert.NotEqual(t, keyOf[greeted, waved](), keyOf[waved, greeted]())
}

func TestRegistry(t *testing.T) {
	r := newRegistry()
	_, ok := r.find(keyOf[greeted, string]())
	require.False(t, ok)

	var calls atomic.Int32
	r.insert(keyOf[greeted, string](), erase(func(string) { calls.Add(1) }))
	h, ok := r.find(keyOf[greeted, string]())
	require.True(t, ok)
	h(newBox("hi"))
	require.Equal(t, int32(1), calls.Load())

	_, ok = r.find(keyOf[greeted, int]())
	require.False(t, ok)
	require.Equal(t, 1, r.len())
}

func TestErasedHandlerTakesPayloadOnce(t *testing.T) {
	var calls atomic.Int32
	h := erase(func(string) { calls.Add(1) })

	b := newBox("once")
	h(b)
	h(b)
	require.Equal(t, int32(1), calls.Load())
}

func TestErasedHandlerReleasesMismatchedPayload(t *testing.T) {
	var released, calls atomic.Int32
	h := erase(func(string) { calls.Add(1) })

	h(newBox(releasable{released: &released}))
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, int32(1), released.Load())
}
