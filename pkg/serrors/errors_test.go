package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestBaseErrorMatchesByCode(t *testing.T) {
	t.Parallel()

	sentinel := NewError("CRUD_MISSING_API", "missing api binding", "")
	err := fmt.Errorf("load: %w", sentinel.Withf("page api"))

	require.ErrorIs(t, err, sentinel)
	require.NotErrorIs(t, err, NewError("OTHER", "other", ""))

	var be *BaseError
	require.True(t, errors.As(err, &be))
	require.Equal(t, "CRUD_MISSING_API", be.Code)
	require.Equal(t, "missing api binding: page api", be.Message)
}

func TestBaseErrorWrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := NewError("X", "failed", "").Wrap(cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "failed: boom", err.Error())
}

func TestProcessValidatorErrors(t *testing.T) {
	t.Parallel()

	type dto struct {
		Name   string `validate:"required"`
		Status int    `validate:"oneof=0 1"`
	}
	err := validator.New().Struct(dto{Status: 4})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	out := ProcessValidatorErrors(verrs, func(field string) string {
		if field == "Name" {
			return "deptName"
		}
		return ""
	})
	require.Equal(t, "is required", out["deptName"])
	require.Equal(t, "must be one of 0 1", out["Status"])
	require.Contains(t, out.Error(), "deptName: is required")
}

func TestValidatorUsesJSONNamesAndChinese(t *testing.T) {
	t.Parallel()

	type dto struct {
		Username string `json:"username" validate:"required,min=3"`
		Code     string `json:"code" validate:"test_code"`
	}
	require.NoError(t, RegisterValidation("test_code", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "ok"
	}, "{0}格式不正确"))

	err := Validator().Struct(dto{Username: "ab", Code: "nope"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	out := ProcessValidatorErrors(verrs, nil)
	require.Equal(t, "username长度必须至少为3个字符", out["username"])
	require.Equal(t, "code格式不正确", out["code"])
}
