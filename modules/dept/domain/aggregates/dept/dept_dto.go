package dept

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

type CreateDTO struct {
	DeptName    string `json:"deptName" validate:"required,min=1,max=50"`
	ParentID    *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
	DeptSort    int    `json:"deptSort" validate:"gte=0"`
	Status      *int   `json:"status" validate:"required,oneof=0 1"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

type UpdateDTO struct {
	DeptID int64 `json:"deptId" validate:"required,gt=0"`
	CreateDTO
}

func (d *CreateDTO) Normalize() {
	d.DeptName = strings.TrimSpace(d.DeptName)
	d.Description = strings.TrimSpace(d.Description)
	if d.ParentID != nil && *d.ParentID == 0 {
		d.ParentID = nil
	}
}

// Ok normalizes d and reports field errors keyed by json name, with
// Chinese messages.
func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	return check(d)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	return check(d)
}

func (d *CreateDTO) ToEntity() Dept {
	return Dept{
		ParentID:    d.ParentID,
		Name:        d.DeptName,
		Sort:        d.DeptSort,
		Status:      Status(*d.Status),
		Description: d.Description,
	}
}

func (d *UpdateDTO) ToEntity() Dept {
	e := d.CreateDTO.ToEntity()
	e.ID = d.DeptID
	return e
}

func check(v any) (serrors.ValidationErrors, bool) {
	err := serrors.Validator().Struct(v)
	if err == nil {
		return serrors.ValidationErrors{}, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return serrors.ValidationErrors{"": err.Error()}, false
	}
	return serrors.ProcessValidatorErrors(verrs, nil), false
}
