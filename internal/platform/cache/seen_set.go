package cache

import (
	"hash/maphash"
	"sync"
)

const shardCount = 32

// SeenSet is a concurrency-safe set with atomic insert-if-absent.
// Keys are spread over shards so concurrent observers rarely contend.
type SeenSet[K comparable] struct {
	seed   maphash.Seed
	shards [shardCount]seenShard[K]
}

type seenShard[K comparable] struct {
	mu    sync.RWMutex
	items map[K]struct{}
}

func NewSeenSet[K comparable]() *SeenSet[K] {
	s := &SeenSet[K]{seed: maphash.MakeSeed()}
	for i := range s.shards {
		s.shards[i].items = make(map[K]struct{})
	}
	return s
}

// Add marks key as seen and reports whether this call was the first to do so.
func (s *SeenSet[K]) Add(key K) bool {
	shard := s.shard(key)

	shard.mu.RLock()
	_, seen := shard.items[key]
	shard.mu.RUnlock()
	if seen {
		return false
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if _, seen := shard.items[key]; seen {
		return false
	}
	shard.items[key] = struct{}{}
	return true
}

func (s *SeenSet[K]) Contains(key K) bool {
	shard := s.shard(key)
	shard.mu.RLock()
	_, ok := shard.items[key]
	shard.mu.RUnlock()
	return ok
}

func (s *SeenSet[K]) Len() int {
	total := 0
	for i := range s.shards {
		s.shards[i].mu.RLock()
		total += len(s.shards[i].items)
		s.shards[i].mu.RUnlock()
	}
	return total
}

func (s *SeenSet[K]) shard(key K) *seenShard[K] {
	return &s.shards[maphash.Comparable(s.seed, key)%shardCount]
}
