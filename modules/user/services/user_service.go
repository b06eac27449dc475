package services

import (
	"context"

	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/pkg/composables"
	"github.com/iota-uz/crudkit/pkg/eventbus"
)

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{repo: repo, publisher: publisher}
}

// GetPaginated returns one page of users and the number of users matching
// params regardless of paging.
func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, int64, error) {
	users, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, dto *user.CreateDTO) (user.User, error) {
	if errs, ok := dto.Ok(); !ok {
		return user.User{}, errs
	}
	entity, err := dto.ToEntity()
	if err != nil {
		return user.User{}, err
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(&user.CreatedEvent{Result: created})
	return created, nil
}

func (s *UserService) Update(ctx context.Context, dto *user.UpdateDTO) (user.User, error) {
	if errs, ok := dto.Ok(); !ok {
		return user.User{}, errs
	}
	before, err := s.repo.GetByID(ctx, dto.UserID)
	if err != nil {
		return user.User{}, err
	}
	entity, err := dto.Apply(before)
	if err != nil {
		return user.User{}, err
	}
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(&user.UpdatedEvent{Before: before, Result: updated})
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(&user.DeletedEvent{ID: id})
	return nil
}

// DeleteMany removes every id or none of them.
func (s *UserService) DeleteMany(ctx context.Context, ids []int64) error {
	err := composables.MaybeInTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			if err := s.repo.Delete(txCtx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.publisher.Publish(&user.DeletedEvent{ID: id})
	}
	return nil
}
