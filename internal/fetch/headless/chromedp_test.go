package headless

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsNegativeParallelism(t *testing.T) {
	t.Parallel()

	_, err := New(Config{MaxParallel: -1})
	require.Error(t, err)
}

func TestRenderHonorsCallerCancellation(t *testing.T) {
	t.Parallel()

	r, err := New(Config{NavigationTimeout: time.Minute})
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// No browser is launched for an already-canceled context; the render
	// must fail fast instead of waiting out the navigation timeout.
	done := make(chan error, 1)
	go func() {
		_, renderErr := r.Render(ctx, "https://www.parlamento.pt/", "")
		done <- renderErr
	}()
	select {
	case renderErr := <-done:
		require.Error(t, renderErr)
	case <-time.After(5 * time.Second):
		t.Fatal("render did not observe cancellation")
	}
}

func TestAcquireFailsWhenCanceledWhileFull(t *testing.T) {
	t.Parallel()

	r, err := New(Config{MaxParallel: 1})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.acquire(context.Background()))
	defer r.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, r.acquire(ctx))
}
