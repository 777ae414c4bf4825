package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsInOrder(t *testing.T) {
	r := NewRegistry(nil)

	var order []string
	r.RegisterFunc("first", func() { order = append(order, "first") })
	r.RegisterFunc("second", func() { order = append(order, "second") })
	r.RegisterFunc("third", func() { order = append(order, "third") })
	assert.Equal(t, 3, r.Len())

	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, 0, r.Len())
}

func TestShutdownContinuesAfterFailure(t *testing.T) {
	var logs bytes.Buffer
	r := NewRegistry(log.New(&logs, "", 0))

	boom := errors.New("boom")
	ran := false
	r.Register("socket", func(context.Context) error { return boom })
	r.RegisterFunc("listener", func() { ran = true })

	err := r.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "socket")
	assert.True(t, ran, "later tasks still run")
	assert.Contains(t, logs.String(), "teardown socket: boom")
}

func TestShutdownIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)

	calls := 0
	r.RegisterFunc("once", func() { calls++ })

	require.NoError(t, r.Shutdown(context.Background()))
	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestRegisterAfterShutdownRunsImmediately(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Shutdown(context.Background()))

	ran := false
	r.RegisterFunc("late", func() { ran = true })
	assert.True(t, ran)
	assert.Equal(t, 0, r.Len())
}
