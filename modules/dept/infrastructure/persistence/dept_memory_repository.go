package persistence

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
)

// MemoryDeptRepository keeps departments in process memory. It backs the
// server's in-memory store mode and the tests.
type MemoryDeptRepository struct {
	mu     sync.RWMutex
	items  map[int64]dept.Dept
	nextID int64
	now    func() time.Time
}

func NewMemoryDeptRepository(seed ...dept.Dept) *MemoryDeptRepository {
	r := &MemoryDeptRepository{items: make(map[int64]dept.Dept, len(seed)), now: time.Now}
	for _, d := range seed {
		r.items[d.ID] = d
		r.nextID = max(r.nextID, d.ID)
	}
	return r
}

func (r *MemoryDeptRepository) List(context.Context) ([]dept.Dept, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]dept.Dept, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b dept.Dept) int {
		return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *MemoryDeptRepository) GetByID(_ context.Context, id int64) (dept.Dept, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[id]
	if !ok {
		return dept.Dept{}, dept.ErrNotFound
	}
	return d, nil
}

func (r *MemoryDeptRepository) Create(_ context.Context, d dept.Dept) (dept.Dept, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ParentID != nil {
		if _, ok := r.items[*d.ParentID]; !ok {
			return dept.Dept{}, dept.ErrParentNotFound
		}
	}
	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = r.now()
	d.UpdatedAt = d.CreatedAt
	r.items[d.ID] = d
	return d, nil
}

func (r *MemoryDeptRepository) Update(_ context.Context, d dept.Dept) (dept.Dept, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[d.ID]
	if !ok {
		return dept.Dept{}, dept.ErrNotFound
	}
	if d.ParentID != nil {
		if _, ok := r.items[*d.ParentID]; !ok {
			return dept.Dept{}, dept.ErrParentNotFound
		}
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = r.now()
	r.items[d.ID] = d
	return d, nil
}

func (r *MemoryDeptRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return dept.ErrNotFound
	}
	for _, d := range r.items {
		if d.ParentID != nil && *d.ParentID == id {
			return dept.ErrHasChildren
		}
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryDeptRepository) CountChildren(_ context.Context, id int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, d := range r.items {
		if d.ParentID != nil && *d.ParentID == id {
			n++
		}
	}
	return n, nil
}
