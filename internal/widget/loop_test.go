package widget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsInOrder(t *testing.T) {
	loop := NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, loop.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, loop.Do(ctx, func() {}))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_StopRejectsWork(t *testing.T) {
	loop := NewLoop(1)
	go func() { _ = loop.Run(context.Background()) }()

	loop.Stop()
	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	assert.False(t, loop.Post(func() {}))
	assert.ErrorIs(t, loop.Do(context.Background(), func() {}), ErrLoopStopped)
}

func TestLoop_ContextExitRejectsWork(t *testing.T) {
	loop := NewLoop(0)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()

	cancel()
	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit")
	}

	posted := make(chan bool, 1)
	go func() { posted <- loop.Post(func() {}) }()

	select {
	case ok := <-posted:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Post blocked after the loop exited")
	}
	assert.ErrorIs(t, loop.Do(context.Background(), func() {}), ErrLoopStopped)
}

func TestLoop_DoHonoursContext(t *testing.T) {
	loop := NewLoop(1) // never run

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, loop.Do(ctx, func() {}), context.DeadlineExceeded)
}
