package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEach(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []int
	)
	err := Each(context.Background(), []int{1, 2, 3, 4, 5}, 2, func(_ context.Context, n int) error {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
		return nil
	})

	assert.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, seen)
}

func TestEachLimitsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	err := Each(context.Background(), make([]struct{}, 20), 3, func(context.Context, struct{}) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	})

	assert.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestEachStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	err := Each(context.Background(), []int{1, 2, 3, 4, 5, 6, 7, 8}, 1, func(_ context.Context, n int) error {
		calls.Add(1)
		if n == 2 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEachEmptyAndCanceled(t *testing.T) {
	assert.NoError(t, Each(context.Background(), nil, 4, func(context.Context, int) error {
		t.Fatal("called without inputs")
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := Each(ctx, []int{1, 2, 3}, 2, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
