package user

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	mobilePattern   = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

func init() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(serrors.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}, "{0}只能包含字母、数字和下划线"))
	must(serrors.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	}, "{0}必须是有效的手机号码"))
}

type CreateDTO struct {
	Username    string `json:"username" validate:"required,min=3,max=20,username"`
	Password    string `json:"password" validate:"required,min=6,max=20"`
	Nickname    string `json:"nickname" validate:"required,min=2,max=20"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,mobile"`
	Gender      int    `json:"gender,omitempty" validate:"omitempty,oneof=1 2"`
	DeptID      *int64 `json:"deptId,omitempty" validate:"omitempty,gt=0"`
	Status      *int   `json:"status" validate:"required,oneof=0 1"`
}

// UpdateDTO edits everything but the username. An empty password keeps the
// current one.
type UpdateDTO struct {
	UserID      int64  `json:"userId" validate:"required,gt=0"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=6,max=20"`
	Nickname    string `json:"nickname" validate:"required,min=2,max=20"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,mobile"`
	Gender      int    `json:"gender,omitempty" validate:"omitempty,oneof=1 2"`
	DeptID      *int64 `json:"deptId,omitempty" validate:"omitempty,gt=0"`
	Status      *int   `json:"status" validate:"required,oneof=0 1"`
}

func normalizeDept(id *int64) *int64 {
	if id != nil && *id == 0 {
		return nil
	}
	return id
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Username = strings.TrimSpace(d.Username)
	d.Nickname = strings.TrimSpace(d.Nickname)
	d.Email = strings.TrimSpace(d.Email)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
	d.DeptID = normalizeDept(d.DeptID)
	return check(d)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Nickname = strings.TrimSpace(d.Nickname)
	d.Email = strings.TrimSpace(d.Email)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
	d.DeptID = normalizeDept(d.DeptID)
	return check(d)
}

// ToEntity builds the user with a hashed password.
func (d *CreateDTO) ToEntity() (User, error) {
	gender := Gender(d.Gender)
	if gender == 0 {
		gender = GenderMale
	}
	u := User{
		DeptID:      d.DeptID,
		Username:    d.Username,
		Nickname:    d.Nickname,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Gender:      gender,
		Status:      Status(*d.Status),
	}
	return u.SetPassword(d.Password)
}

// Apply returns existing with the editable fields of d. The password hash is
// cleared unless a new password was given.
func (d *UpdateDTO) Apply(existing User) (User, error) {
	u := existing
	u.DeptID = d.DeptID
	u.Nickname = d.Nickname
	u.Email = d.Email
	u.PhoneNumber = d.PhoneNumber
	if d.Gender != 0 {
		u.Gender = Gender(d.Gender)
	}
	u.Status = Status(*d.Status)
	u.PasswordHash = ""
	if d.Password == "" {
		return u, nil
	}
	return u.SetPassword(d.Password)
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
