package dept

import (
	"context"
	"time"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

type Status int

const (
	StatusDisabled Status = 0
	StatusEnabled  Status = 1
)

var (
	ErrNotFound       = serrors.NewError("DEPT_NOT_FOUND", "department not found", "Dept.Errors.NotFound")
	ErrParentNotFound = serrors.NewError("DEPT_PARENT_NOT_FOUND", "parent department not found", "Dept.Errors.ParentNotFound")
	ErrParentCycle    = serrors.NewError("DEPT_PARENT_CYCLE", "a department cannot be moved under itself or its descendants", "Dept.Errors.ParentCycle")
	ErrHasChildren    = serrors.NewError("DEPT_HAS_CHILDREN", "department still has sub-departments", "Dept.Errors.HasChildren")
)

// Dept is one node of the department hierarchy. A nil ParentID marks a root.
type Dept struct {
	ID          int64
	ParentID    *int64
	Name        string
	Sort        int
	Status      Status
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d Dept) IsRoot() bool {
	return d.ParentID == nil
}

type Repository interface {
	// List returns every department ordered by sort then id.
	List(ctx context.Context) ([]Dept, error)
	GetByID(ctx context.Context, id int64) (Dept, error)
	Create(ctx context.Context, d Dept) (Dept, error)
	Update(ctx context.Context, d Dept) (Dept, error)
	Delete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, id int64) (int, error)
}
