package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, size int) *ants.Pool {
	t.Helper()

	pool, err := ants.NewPool(size)
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return pool
}

func TestDecodeInOrder_AppliesInInputOrder(t *testing.T) {
	t.Parallel()

	files := []int{5, 1, 4, 2, 3, 0, 6}
	var applied []int

	err := decodeInOrder(context.Background(), newTestPool(t, 4), 3, files,
		func(_ context.Context, n int) (string, error) {
			// Later files finish first.
			time.Sleep(time.Duration(6-n) * time.Millisecond)
			return fmt.Sprintf("file-%d", n), nil
		},
		func(n int, decoded string) error {
			assert.Equal(t, fmt.Sprintf("file-%d", n), decoded)
			applied = append(applied, n)
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, files, applied)
}

func TestDecodeInOrder_StopsAtFirstFailureInOrder(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var applied []int

	err := decodeInOrder(context.Background(), newTestPool(t, 2), 4, []int{0, 1, 2, 3},
		func(_ context.Context, n int) (int, error) {
			if n == 2 || n == 3 {
				return 0, fmt.Errorf("file %d: %w", n, boom)
			}
			return n, nil
		},
		func(n int, _ int) error {
			applied = append(applied, n)
			return nil
		},
	)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "file 2")
	assert.Equal(t, []int{0, 1}, applied)
}

func TestDecodeInOrder_RecoversDecodePanic(t *testing.T) {
	t.Parallel()

	err := decodeInOrder(context.Background(), newTestPool(t, 1), 1, []string{"x"},
		func(context.Context, string) (int, error) {
			panic("bad payload")
		},
		func(string, int) error { return nil },
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode panicked")
}

func TestDecodeInOrder_ApplyErrorStopsDecoding(t *testing.T) {
	t.Parallel()

	var decodedCount atomic.Int32
	stop := errors.New("stop")

	err := decodeInOrder(context.Background(), newTestPool(t, 2), 2, []int{0, 1, 2, 3, 4, 5},
		func(_ context.Context, n int) (int, error) {
			decodedCount.Add(1)
			return n, nil
		},
		func(n int, _ int) error {
			if n == 1 {
				return stop
			}
			return nil
		},
	)
	require.ErrorIs(t, err, stop)
	assert.Equal(t, int32(2), decodedCount.Load())
}

func TestDecodeInOrder_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := decodeInOrder(ctx, newTestPool(t, 1), 2, []int{1, 2},
		func(context.Context, int) (int, error) { return 0, nil },
		func(int, int) error { return nil },
	)
	assert.ErrorIs(t, err, context.Canceled)
}
