package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/pkg/composables"
	"github.com/iota-uz/crudkit/pkg/repo"
)

const (
	userSelect = `
		SELECT u.user_id, u.dept_id, COALESCE(d.dept_name, '') AS dept_name, u.username, u.password,
		       u.nickname, u.avatar, u.email, u.phone_number, u.gender, u.status, u.created_at, u.updated_at
		FROM sys_user u
		LEFT JOIN sys_dept d ON d.dept_id = u.dept_id`

	userCount = `SELECT count(*) FROM sys_user u`

	insertUserQuery = `
		INSERT INTO sys_user (dept_id, username, password, nickname, avatar, email, phone_number, gender, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING user_id`

	updateUserQuery = `
		UPDATE sys_user
		SET dept_id = $2, password = COALESCE(NULLIF($3, ''), password), nickname = $4, avatar = $5,
		    email = $6, phone_number = $7, gender = $8, status = $9, updated_at = now()
		WHERE user_id = $1`

	deleteUserQuery = `DELETE FROM sys_user WHERE user_id = $1`
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

type userRow struct {
	UserID      int64     `db:"user_id"`
	DeptID      *int64    `db:"dept_id"`
	DeptName    string    `db:"dept_name"`
	Username    string    `db:"username"`
	Password    string    `db:"password"`
	Nickname    string    `db:"nickname"`
	Avatar      string    `db:"avatar"`
	Email       string    `db:"email"`
	PhoneNumber string    `db:"phone_number"`
	Gender      int16     `db:"gender"`
	Status      int16     `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.UserID,
		DeptID:       r.DeptID,
		DeptName:     r.DeptName,
		Username:     r.Username,
		Nickname:     r.Nickname,
		Avatar:       r.Avatar,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Gender:       user.Gender(r.Gender),
		Status:       user.Status(r.Status),
		PasswordHash: r.Password,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func buildFilters(params *user.FindParams, p *repo.Params) []string {
	var where []string
	if params.Keywords != "" {
		like := p.Add("%" + params.Keywords + "%")
		where = append(where, "(u.username ILIKE "+like+" OR u.nickname ILIKE "+like+
			" OR u.email ILIKE "+like+" OR u.phone_number ILIKE "+like+")")
	}
	if params.Username != "" {
		where = append(where, "u.username ILIKE "+p.Add("%"+params.Username+"%"))
	}
	if params.Nickname != "" {
		where = append(where, "u.nickname ILIKE "+p.Add("%"+params.Nickname+"%"))
	}
	if params.Email != "" {
		where = append(where, "u.email ILIKE "+p.Add("%"+params.Email+"%"))
	}
	if params.DeptID != nil {
		where = append(where, "u.dept_id = "+p.Add(*params.DeptID))
	}
	if params.Status != nil {
		where = append(where, "u.status = "+p.Add(int16(*params.Status)))
	}
	if params.Gender != nil {
		where = append(where, "u.gender = "+p.Add(int16(*params.Gender)))
	}
	return where
}

func (g *UserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	if params == nil {
		params = &user.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var p repo.Params
	query := repo.Join(
		userSelect,
		repo.JoinWhere(buildFilters(params, &p)...),
		"ORDER BY u.user_id",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, p.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, errors.Wrap(err, "scan users")
	}
	out := make([]user.User, 0, len(collected))
	for _, r := range collected {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (g *UserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	if params == nil {
		params = &user.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var p repo.Params
	query := repo.Join(userCount, repo.JoinWhere(buildFilters(params, &p)...))
	var n int64
	if err := tx.QueryRow(ctx, query, p.Args()...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count users")
	}
	return n, nil
}

func (g *UserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	rows, err := tx.Query(ctx, userSelect+" WHERE u.user_id = $1", id)
	if err != nil {
		return user.User{}, errors.Wrapf(err, "get user %d", id)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrapf(err, "scan user %d", id)
	}
	return row.toDomain(), nil
}

func (g *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, insertUserQuery,
		u.DeptID, u.Username, u.PasswordHash, u.Nickname, u.Avatar, u.Email, u.PhoneNumber,
		int16(u.Gender), int16(u.Status),
	).Scan(&id)
	if err != nil {
		if mapped := mapConstraint(err); mapped != nil {
			return user.User{}, mapped
		}
		return user.User{}, errors.Wrap(err, "create user")
	}
	return g.GetByID(ctx, id)
}

func (g *UserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	tag, err := tx.Exec(ctx, updateUserQuery,
		u.ID, u.DeptID, u.PasswordHash, u.Nickname, u.Avatar, u.Email, u.PhoneNumber,
		int16(u.Gender), int16(u.Status),
	)
	if err != nil {
		if mapped := mapConstraint(err); mapped != nil {
			return user.User{}, mapped
		}
		return user.User{}, errors.Wrapf(err, "update user %d", u.ID)
	}
	if tag.RowsAffected() == 0 {
		return user.User{}, user.ErrNotFound
	}
	return g.GetByID(ctx, u.ID)
}

func (g *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		return errors.Wrapf(err, "delete user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return user.ErrUsernameTaken
	case pgForeignKeyViolation:
		return user.ErrDeptNotFound
	}
	return nil
}
