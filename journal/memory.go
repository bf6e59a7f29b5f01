package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/tidwall/btree"
)

// MemoryJournal keeps operations in process, ordered by creation time.
type MemoryJournal struct {
	mu   sync.RWMutex
	tree *btree.Map[string, *Operation]
	keys map[string]string
}

var _ Journal = &MemoryJournal{}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		tree: btree.NewMap[string, *Operation](8),
		keys: make(map[string]string),
	}
}

func orderKey(op *Operation) string {
	return fmt.Sprintf("%020d:%s", op.CreatedAt.UnixNano(), op.ID)
}

func (j *MemoryJournal) Close() error {
	return nil
}

func (j *MemoryJournal) Save(ctx context.Context, op *Operation) error {
	if op == nil || op.ID == "" {
		return fmt.Errorf("operation id required")
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if prev, ok := j.keys[op.ID]; ok {
		j.tree.Delete(prev)
	}
	key := orderKey(op)
	j.keys[op.ID] = key
	j.tree.Set(key, clone(op))
	return nil
}

func (j *MemoryJournal) Get(ctx context.Context, id string) (*Operation, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	key, ok := j.keys[id]
	if !ok {
		return nil, ErrNotFound
	}
	op, ok := j.tree.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(op), nil
}

func (j *MemoryJournal) ListByStatus(ctx context.Context, status Status) ([]*Operation, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]*Operation, 0)
	j.tree.Scan(func(key string, op *Operation) bool {
		if op.Status == status {
			out = append(out, clone(op))
		}
		return true
	})
	return out, nil
}

func (j *MemoryJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.tree.Len()
}
