package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	"github.com/iota-uz/crudkit/pkg/composables"
	"github.com/iota-uz/crudkit/pkg/eventbus"
)

type DeptService struct {
	repo      dept.Repository
	publisher eventbus.EventBus
	inTx      func(ctx context.Context, fn func(context.Context) error) error
}

func NewDeptService(repo dept.Repository, publisher eventbus.EventBus) *DeptService {
	return &DeptService{repo: repo, publisher: publisher, inTx: composables.MaybeInTx}
}

// List returns the departments whose name fuzzily matches keywords, together
// with all their ancestors so the result still forms a tree. Empty keywords
// return everything.
func (s *DeptService) List(ctx context.Context, keywords string) ([]dept.Dept, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return all, nil
	}

	byID := make(map[int64]dept.Dept, len(all))
	for _, d := range all {
		byID[d.ID] = d
	}
	keep := make(map[int64]bool)
	for _, d := range all {
		if !fuzzy.MatchFold(keywords, d.Name) {
			continue
		}
		for cur, ok := d, true; ok && !keep[cur.ID]; {
			keep[cur.ID] = true
			if cur.ParentID == nil {
				break
			}
			cur, ok = byID[*cur.ParentID]
		}
	}
	out := make([]dept.Dept, 0, len(keep))
	for _, d := range all {
		if keep[d.ID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *DeptService) GetByID(ctx context.Context, id int64) (dept.Dept, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DeptService) Create(ctx context.Context, dto *dept.CreateDTO) (dept.Dept, error) {
	if errs, ok := dto.Ok(); !ok {
		return dept.Dept{}, errs
	}
	if dto.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *dto.ParentID); err != nil {
			return dept.Dept{}, parentErr(err)
		}
	}
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return dept.Dept{}, err
	}
	s.publisher.Publish(&dept.CreatedEvent{Result: created})
	return created, nil
}

func (s *DeptService) Update(ctx context.Context, dto *dept.UpdateDTO) (dept.Dept, error) {
	if errs, ok := dto.Ok(); !ok {
		return dept.Dept{}, errs
	}
	before, err := s.repo.GetByID(ctx, dto.DeptID)
	if err != nil {
		return dept.Dept{}, err
	}
	if dto.ParentID != nil {
		if err := s.checkParent(ctx, dto.DeptID, *dto.ParentID); err != nil {
			return dept.Dept{}, err
		}
	}
	updated, err := s.repo.Update(ctx, dto.ToEntity())
	if err != nil {
		return dept.Dept{}, err
	}
	s.publisher.Publish(&dept.UpdatedEvent{Before: before, Result: updated})
	return updated, nil
}

// checkParent rejects moving id under itself or one of its descendants.
func (s *DeptService) checkParent(ctx context.Context, id, parentID int64) error {
	if parentID == id {
		return dept.ErrParentCycle
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[int64]dept.Dept, len(all))
	for _, d := range all {
		byID[d.ID] = d
	}
	cur, ok := byID[parentID]
	if !ok {
		return dept.ErrParentNotFound
	}
	for seen := 0; seen <= len(all); seen++ {
		if cur.ID == id {
			return dept.ErrParentCycle
		}
		if cur.ParentID == nil {
			return nil
		}
		if cur, ok = byID[*cur.ParentID]; !ok {
			return nil
		}
	}
	return dept.ErrParentCycle
}

func (s *DeptService) Delete(ctx context.Context, id int64) error {
	if err := s.delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(&dept.DeletedEvent{ID: id})
	return nil
}

func (s *DeptService) delete(ctx context.Context, id int64) error {
	n, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return dept.ErrHasChildren
	}
	return s.repo.Delete(ctx, id)
}

// DeleteMany removes ids in one transaction, deepest nodes first, so a
// subtree can be deleted at once. A node with children outside ids fails
// the whole batch.
func (s *DeptService) DeleteMany(ctx context.Context, ids []int64) error {
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[int64]dept.Dept, len(all))
	for _, d := range all {
		byID[d.ID] = d
	}
	depth := func(id int64) int {
		n := 0
		for d, ok := byID[id]; ok && d.ParentID != nil && n <= len(all); d, ok = byID[*d.ParentID] {
			n++
		}
		return n
	}
	ordered := slices.Clone(ids)
	slices.SortStableFunc(ordered, func(a, b int64) int { return depth(b) - depth(a) })

	err = s.inTx(ctx, func(txCtx context.Context) error {
		for _, id := range ordered {
			if err := s.delete(txCtx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, id := range ordered {
		s.publisher.Publish(&dept.DeletedEvent{ID: id})
	}
	return nil
}

func parentErr(err error) error {
	if errors.Is(err, dept.ErrNotFound) {
		return dept.ErrParentNotFound
	}
	return err
}
