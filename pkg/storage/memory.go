package storage

import (
	"context"
	"sync"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// MemoryStore keeps plans in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string]*plan.Plan
	sites map[string]*site.Site
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plans: make(map[string]*plan.Plan),
		sites: make(map[string]*site.Site),
	}
}

func (s *MemoryStore) Save(ctx context.Context, p *plan.Plan) error {
	if err := errors.ValidatePlanID(p.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, notFound(id)
	}
	return p, nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*plan.Plan, error) {
	s.mu.RLock()
	out := make([]*plan.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		if opts.match(p) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	if n := opts.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return notFound(id)
	}
	delete(s.plans, id)
	return nil
}

func (s *MemoryStore) SaveSite(ctx context.Context, hash string, st *site.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[hash] = st.Clone()
	return nil
}

func (s *MemoryStore) GetSite(ctx context.Context, hash string) (*site.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sites[hash]
	if !ok {
		return nil, siteNotFound(hash)
	}
	return st.Clone(), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
