// README: Conversation store; process memory with per-conversation locks.
package conversation

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"charterdesk/internal/types"
)

var ErrNotFound = errors.New("conversation not found")

// Store persists conversation records by id. Lock serialises turns of one
// conversation; callers hold it across Get and Put.
type Store interface {
	Get(ctx context.Context, id types.ID) (*Record, error)
	Put(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id types.ID) error
	Lock(id types.ID) (unlock func())
}

const shardCount = 32

type shard struct {
	mu      sync.RWMutex
	records map[types.ID]*Record
	turns   map[types.ID]*turnLock
}

type turnLock struct {
	mu   sync.Mutex
	refs int
}

type MemoryStore struct {
	shards [shardCount]*shard
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i] = &shard{
			records: make(map[types.ID]*Record),
			turns:   make(map[types.ID]*turnLock),
		}
	}
	return s
}

func (s *MemoryStore) shardFor(id types.ID) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

func (s *MemoryStore) Get(_ context.Context, id types.ID) (*Record, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	r, ok := sh.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, r *Record) error {
	if r == nil || r.ID == "" {
		return errors.New("conversation: record without id")
	}
	sh := s.shardFor(r.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.records[r.ID] = r.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id types.ID) error {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.records, id)
	return nil
}

// Lock blocks until the caller owns the turn for id. The returned func
// releases it; lock entries are dropped once nobody holds or waits on them.
func (s *MemoryStore) Lock(id types.ID) func() {
	sh := s.shardFor(id)
	sh.mu.Lock()
	tl, ok := sh.turns[id]
	if !ok {
		tl = &turnLock{}
		sh.turns[id] = tl
	}
	tl.refs++
	sh.mu.Unlock()

	tl.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			tl.mu.Unlock()
			sh.mu.Lock()
			tl.refs--
			if tl.refs == 0 {
				delete(sh.turns, id)
			}
			sh.mu.Unlock()
		})
	}
}

// Len reports how many conversations are stored.
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.records)
		sh.mu.RUnlock()
	}
	return n
}

// Sweep drops records last updated before cutoff. Conversations with a turn
// in flight are kept.
func (s *MemoryStore) Sweep(cutoff time.Time) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, r := range sh.records {
			if _, busy := sh.turns[id]; busy {
				continue
			}
			if r.UpdatedAt.Before(cutoff) {
				delete(sh.records, id)
				n++
			}
		}
		sh.mu.Unlock()
	}
	return n
}

// RunSweeper evicts conversations idle for longer than ttl until ctx ends.
func RunSweeper(ctx context.Context, s *MemoryStore, ttl time.Duration, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now.Add(-ttl)); n > 0 {
				logger.Info("evicted idle conversations", zap.Int("count", n), zap.Duration("ttl", ttl))
			}
		}
	}
}
