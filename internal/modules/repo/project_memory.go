package repo

import (
	"context"
	"sync"

	"github.com/folio-works/portfolio/internal/modules/model"
)

type memoryProjectRepo struct {
	mu    sync.RWMutex
	items map[string]*model.Project
	order []string
}

// NewMemoryProjectRepo returns a process-local store for development and tests.
func NewMemoryProjectRepo(seed ...model.Project) ProjectRepo {
	r := &memoryProjectRepo{items: make(map[string]*model.Project)}
	for i := range seed {
		p := seed[i].Clone()
		if p.ID == "" {
			p.ID = newID()
		}
		p.Normalize()
		r.items[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *memoryProjectRepo) List(_ context.Context) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Project, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id].Clone())
	}
	return out, nil
}

func (r *memoryProjectRepo) Get(_ context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *memoryProjectRepo) Create(_ context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newID()
	for r.items[id] != nil {
		id = newID()
	}
	p.ID = id
	p.Views = 0
	p.Normalize()

	r.items[id] = p.Clone()
	r.order = append(r.order, id)
	return nil
}

func (r *memoryProjectRepo) Update(_ context.Context, id string, p *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := p.Clone()
	next.Normalize()
	next.ID = cur.ID
	next.Views = cur.Views
	r.items[id] = next
	return next.Clone(), nil
}

func (r *memoryProjectRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *memoryProjectRepo) IncrementViews(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return 0, ErrNotFound
	}
	p.Views++
	return p.Views, nil
}
