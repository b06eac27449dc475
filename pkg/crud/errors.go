package crud

import "github.com/iota-uz/crudkit/pkg/serrors"

var (
	// ErrMissingAPI means an operation was used without its API binding.
	ErrMissingAPI = serrors.NewError("CRUD_MISSING_API", "missing API binding", "Crud.Errors.MissingAPI")
	// ErrInvalidConfig means the entity configuration is malformed.
	ErrInvalidConfig = serrors.NewError("CRUD_INVALID_CONFIG", "invalid entity configuration", "Crud.Errors.InvalidConfig")
	// ErrValidation is returned by HandleSubmit when form data fails the
	// field checks. It wraps a serrors.ValidationErrors.
	ErrValidation = serrors.NewError("CRUD_VALIDATION", "form data is invalid", "Crud.Errors.Validation")
)
