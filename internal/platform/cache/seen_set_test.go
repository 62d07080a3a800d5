package cache

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
)

func TestSeenSet_AddReportsFirstObserverOnly(t *testing.T) {
	t.Parallel()

	set := NewSeenSet[int64]()
	require.True(t, set.Add(7), "first add should report new")
	assert.False(t, set.Add(7), "second add should report duplicate")
	assert.True(t, set.Contains(7))
	assert.False(t, set.Contains(8))
	assert.Equal(t, 1, set.Len())
}

func TestSeenSet_ConcurrentAddHasSingleWinner(t *testing.T) {
	t.Parallel()

	set := NewSeenSet[string]()
	var winners atomic.Int32

	const workers = 64
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if set.Add("same-key") {
				winners.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestSeenSet_ConcurrentDistinctKeys(t *testing.T) {
	t.Parallel()

	set := NewSeenSet[int]()
	const workers = 16
	const perWorker = 500

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				set.Add(offset*perWorker + i)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, set.Len())
}

func TestEntityCache_ObserveIsKindScoped(t *testing.T) {
	t.Parallel()

	c := NewEntityCache()
	assert.Equal(t, ObservationNew, c.Observe(KeyOf(entity.KindTeam, 1)))
	assert.Equal(t, ObservationDuplicate, c.Observe(KeyOf(entity.KindTeam, 1)))
	assert.Equal(t, ObservationNew, c.Observe(KeyOf(entity.KindPlayer, 1)), "player sharing a team id is a different key")

	require.False(t, c.Seen(SeasonKeyOf(44, 2)))
	c.Observe(SeasonKeyOf(44, 2))
	assert.True(t, c.Seen(SeasonKeyOf(44, 2)))
	assert.False(t, c.Seen(SeasonKeyOf(44, 11)), "season key includes the competition")
}
