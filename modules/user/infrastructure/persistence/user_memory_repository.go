package persistence

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
)

// MemoryUserRepository keeps users in process memory. Department names are
// resolved through depts on every read, as the SQL join does.
type MemoryUserRepository struct {
	depts dept.Repository

	mu     sync.RWMutex
	items  map[int64]user.User
	nextID int64
	now    func() time.Time
}

func NewMemoryUserRepository(depts dept.Repository, seed ...user.User) *MemoryUserRepository {
	r := &MemoryUserRepository{depts: depts, items: make(map[int64]user.User, len(seed)), now: time.Now}
	for _, u := range seed {
		r.items[u.ID] = u
		r.nextID = max(r.nextID, u.ID)
	}
	return r
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matches(u user.User, p *user.FindParams) bool {
	if p.Keywords != "" && !containsFold(u.Username, p.Keywords) && !containsFold(u.Nickname, p.Keywords) &&
		!containsFold(u.Email, p.Keywords) && !containsFold(u.PhoneNumber, p.Keywords) {
		return false
	}
	switch {
	case p.Username != "" && !containsFold(u.Username, p.Username),
		p.Nickname != "" && !containsFold(u.Nickname, p.Nickname),
		p.Email != "" && !containsFold(u.Email, p.Email),
		p.DeptID != nil && (u.DeptID == nil || *u.DeptID != *p.DeptID),
		p.Status != nil && u.Status != *p.Status,
		p.Gender != nil && u.Gender != *p.Gender:
		return false
	}
	return true
}

func (r *MemoryUserRepository) withDept(ctx context.Context, u user.User) user.User {
	u.DeptName = ""
	if u.DeptID == nil || r.depts == nil {
		return u
	}
	if d, err := r.depts.GetByID(ctx, *u.DeptID); err == nil {
		u.DeptName = d.Name
	} else {
		u.DeptID = nil
	}
	return u
}

func (r *MemoryUserRepository) filtered(ctx context.Context, params *user.FindParams) []user.User {
	if params == nil {
		params = &user.FindParams{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		u = r.withDept(ctx, u)
		if matches(u, params) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b user.User) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (r *MemoryUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	all := r.filtered(ctx, params)
	if params == nil {
		return all, nil
	}
	start := min(max(params.Offset, 0), len(all))
	end := len(all)
	if params.Limit > 0 {
		end = min(start+params.Limit, len(all))
	}
	return all[start:end], nil
}

func (r *MemoryUserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	return int64(len(r.filtered(ctx, params))), nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	u, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return r.withDept(ctx, u), nil
}

func (r *MemoryUserRepository) checkDept(ctx context.Context, id *int64) error {
	if id == nil || r.depts == nil {
		return nil
	}
	if _, err := r.depts.GetByID(ctx, *id); err != nil {
		if errors.Is(err, dept.ErrNotFound) {
			return user.ErrDeptNotFound
		}
		return err
	}
	return nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	if err := r.checkDept(ctx, u.DeptID); err != nil {
		return user.User{}, err
	}
	r.mu.Lock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Username, u.Username) {
			r.mu.Unlock()
			return user.User{}, user.ErrUsernameTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.items[u.ID] = u
	r.mu.Unlock()
	return r.withDept(ctx, u), nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	if err := r.checkDept(ctx, u.DeptID); err != nil {
		return user.User{}, err
	}
	r.mu.Lock()
	existing, ok := r.items[u.ID]
	if !ok {
		r.mu.Unlock()
		return user.User{}, user.ErrNotFound
	}
	if u.PasswordHash == "" {
		u.PasswordHash = existing.PasswordHash
	}
	u.Username = existing.Username
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = r.now()
	r.items[u.ID] = u
	r.mu.Unlock()
	return r.withDept(ctx, u), nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
