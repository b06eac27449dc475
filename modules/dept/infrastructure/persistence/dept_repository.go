package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	"github.com/iota-uz/crudkit/pkg/composables"
)

const (
	deptColumns = `dept_id, parent_id, dept_name, dept_sort, status, description, created_at, updated_at`

	selectDeptsQuery = `SELECT ` + deptColumns + ` FROM sys_dept ORDER BY dept_sort, dept_id`

	selectDeptByIDQuery = `SELECT ` + deptColumns + ` FROM sys_dept WHERE dept_id = $1`

	insertDeptQuery = `
		INSERT INTO sys_dept (parent_id, dept_name, dept_sort, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + deptColumns

	updateDeptQuery = `
		UPDATE sys_dept
		SET parent_id = $2, dept_name = $3, dept_sort = $4, status = $5, description = $6, updated_at = now()
		WHERE dept_id = $1
		RETURNING ` + deptColumns

	deleteDeptQuery = `DELETE FROM sys_dept WHERE dept_id = $1`

	countChildrenQuery = `SELECT count(*) FROM sys_dept WHERE parent_id = $1`
)

// pgForeignKeyViolation is raised when a parent row is missing or still referenced.
const pgForeignKeyViolation = "23503"

type deptRow struct {
	DeptID      int64     `db:"dept_id"`
	ParentID    *int64    `db:"parent_id"`
	DeptName    string    `db:"dept_name"`
	DeptSort    int       `db:"dept_sort"`
	Status      int16     `db:"status"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r deptRow) toDomain() dept.Dept {
	return dept.Dept{
		ID:          r.DeptID,
		ParentID:    r.ParentID,
		Name:        r.DeptName,
		Sort:        r.DeptSort,
		Status:      dept.Status(r.Status),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type DeptRepository struct{}

func NewDeptRepository() dept.Repository {
	return &DeptRepository{}
}

func (g *DeptRepository) queryOne(ctx context.Context, sql string, args ...any) (dept.Dept, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return dept.Dept{}, err
	}
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return dept.Dept{}, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[deptRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dept.Dept{}, dept.ErrNotFound
		}
		return dept.Dept{}, err
	}
	return row.toDomain(), nil
}

func (g *DeptRepository) List(ctx context.Context) ([]dept.Dept, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectDeptsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "list depts")
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[deptRow])
	if err != nil {
		return nil, errors.Wrap(err, "scan depts")
	}
	out := make([]dept.Dept, 0, len(collected))
	for _, r := range collected {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (g *DeptRepository) GetByID(ctx context.Context, id int64) (dept.Dept, error) {
	d, err := g.queryOne(ctx, selectDeptByIDQuery, id)
	if err != nil && !errors.Is(err, dept.ErrNotFound) {
		return dept.Dept{}, errors.Wrapf(err, "get dept %d", id)
	}
	return d, err
}

func (g *DeptRepository) Create(ctx context.Context, d dept.Dept) (dept.Dept, error) {
	created, err := g.queryOne(ctx, insertDeptQuery, d.ParentID, d.Name, d.Sort, int16(d.Status), d.Description)
	if err != nil {
		if isForeignKeyViolation(err) {
			return dept.Dept{}, dept.ErrParentNotFound
		}
		return dept.Dept{}, errors.Wrap(err, "create dept")
	}
	return created, nil
}

func (g *DeptRepository) Update(ctx context.Context, d dept.Dept) (dept.Dept, error) {
	updated, err := g.queryOne(ctx, updateDeptQuery, d.ID, d.ParentID, d.Name, d.Sort, int16(d.Status), d.Description)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, dept.ErrNotFound):
		return dept.Dept{}, err
	case isForeignKeyViolation(err):
		return dept.Dept{}, dept.ErrParentNotFound
	default:
		return dept.Dept{}, errors.Wrapf(err, "update dept %d", d.ID)
	}
}

func (g *DeptRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteDeptQuery, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return dept.ErrHasChildren
		}
		return errors.Wrapf(err, "delete dept %d", id)
	}
	if tag.RowsAffected() == 0 {
		return dept.ErrNotFound
	}
	return nil
}

func (g *DeptRepository) CountChildren(ctx context.Context, id int64) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := tx.QueryRow(ctx, countChildrenQuery, id).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "count children of dept %d", id)
	}
	return n, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
