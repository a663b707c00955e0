package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/kart/internal/logging"
	"github.com/five82/kart/internal/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countingStore struct {
	mu    sync.Mutex
	loads int
	err   string
}

func (c *countingStore) Dispatch(_ context.Context, ev state.Event) error {
	if _, ok := ev.(state.LoadProductList); ok {
		c.mu.Lock()
		c.loads++
		c.mu.Unlock()
	}
	return nil
}

func (c *countingStore) Snapshot() state.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return state.State{Error: c.err}
}

func (c *countingStore) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

func TestStartRefresher_ReloadsUntilCancelled(t *testing.T) {
	store := &countingStore{}
	ctx, cancel := context.WithCancel(context.Background())

	done := StartRefresher(ctx, store, 10*time.Millisecond, logging.Discard())
	require.Eventually(t, func() bool { return store.Loads() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancel")
	}
	loads := store.Loads()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, loads, store.Loads(), "no loads after stop")
}

func TestStartRefresher_FailuresNeverWaitLongerThanInterval(t *testing.T) {
	store := &countingStore{err: "server error: 500"}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := StartRefresher(ctx, store, 15*time.Millisecond, nil)
	require.Eventually(t, func() bool { return store.Loads() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
