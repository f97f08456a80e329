package emitter

import (
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBoxTake(t *testing.T) {
	b := newBox(42)
	v, ok := b.take()
	require.True(t, ok)
	require.Equal(t, 42, v)

	v, ok = b.take()
	require.False(t, ok)
	require.Nil(t, v)
}

func TestEnvelopeRelease(t *testing.T) {
	var released atomic.Int32
	env := &envelope{
		emitter: uuid.New(),
		key:     keyOf[greeted, releasable](),
		box:     newBox(releasable{released: &released}),
	}

	env.Release()
	env.Release()
	require.Equal(t, int32(1), released.Load())
}

func TestEnvelopeReleaseAfterHandlerTookPayload(t *testing.T) {
	var released, calls atomic.Int32
	env := &envelope{
		emitter: uuid.New(),
		key:     keyOf[greeted, releasable](),
		box:     newBox(releasable{released: &released}),
	}

	erase(func(releasable) { calls.Add(1) })(env.box)
	env.Release()
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, int32(0), released.Load())
}
