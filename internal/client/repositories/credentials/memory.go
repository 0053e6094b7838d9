package credentials

import (
	"context"
	"sync"
)

// MemoryRepository keeps the credential for the lifetime of the process
// only. It is used when no session database is configured.
type MemoryRepository struct {
	mu sync.Mutex
	c  *Credential
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(ctx context.Context) (*Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.c == nil {
		return nil, nil
	}
	c := *r.c
	return &c, nil
}

func (r *MemoryRepository) Save(ctx context.Context, c Credential) error {
	r.mu.Lock()
	r.c = &c
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.c = nil
	r.mu.Unlock()
	return nil
}
