package user

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

type Gender int

const (
	GenderMale   Gender = 1
	GenderFemale Gender = 2
)

type Status int

const (
	StatusDisabled Status = 0
	StatusEnabled  Status = 1
)

var (
	ErrNotFound      = serrors.NewError("USER_NOT_FOUND", "user not found", "User.Errors.NotFound")
	ErrUsernameTaken = serrors.NewError("USER_USERNAME_TAKEN", "username is already taken", "User.Errors.UsernameTaken")
	ErrDeptNotFound  = serrors.NewError("USER_DEPT_NOT_FOUND", "department not found", "User.Errors.DeptNotFound")
)

// User is a system account. DeptName is read-only and filled from the
// department on reads.
type User struct {
	ID           int64
	DeptID       *int64
	DeptName     string
	Username     string
	Nickname     string
	Avatar       string
	Email        string
	PhoneNumber  string
	Gender       Gender
	Status       Status
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetPassword returns a copy of u holding the bcrypt hash of plain.
func (u User) SetPassword(plain string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return u, err
	}
	u.PasswordHash = string(hash)
	return u, nil
}

func (u User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// FindParams filters a page of users. Keywords matches username, nickname,
// email and phone number.
type FindParams struct {
	Keywords string
	Username string
	Nickname string
	Email    string
	DeptID   *int64
	Status   *Status
	Gender   *Gender
	Limit    int
	Offset   int
}

type Repository interface {
	// GetPaginated returns users ordered by id.
	GetPaginated(ctx context.Context, params *FindParams) ([]User, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, u User) (User, error)
	// Update keeps the stored password when PasswordHash is empty.
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id int64) error
}
