package persistence_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	deptmodule "github.com/iota-uz/crudkit/modules/dept"
	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	deptpersistence "github.com/iota-uz/crudkit/modules/dept/infrastructure/persistence"
	usermodule "github.com/iota-uz/crudkit/modules/user"
	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/modules/user/infrastructure/persistence"
	"github.com/iota-uz/crudkit/pkg/itf"
)

func newUser(t *testing.T, name string, deptID *int64) user.User {
	t.Helper()
	u, err := user.User{Username: name, Nickname: name, Gender: user.GenderMale, Status: user.StatusEnabled, DeptID: deptID}.SetPassword("secret1")
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	env := itf.Setup(t, deptmodule.NewModule(nil), usermodule.NewModule(nil))
	ctx := env.Ctx
	depts := deptpersistence.NewDeptRepository()
	users := persistence.NewUserRepository()

	rd, err := depts.Create(ctx, dept.Dept{Name: "R&D", Status: dept.StatusEnabled})
	require.NoError(t, err)

	alice, err := users.Create(ctx, newUser(t, "alice", &rd.ID))
	require.NoError(t, err)
	require.Equal(t, "R&D", alice.DeptName)
	require.True(t, alice.CheckPassword("secret1"))

	_, err = users.Create(ctx, newUser(t, "alice", nil))
	require.ErrorIs(t, err, user.ErrUsernameTaken)

	missing := int64(424242)
	_, err = users.Create(ctx, newUser(t, "ghost", &missing))
	require.ErrorIs(t, err, user.ErrDeptNotFound)

	_, err = users.Create(ctx, newUser(t, "bob", nil))
	require.NoError(t, err)

	page, err := users.GetPaginated(ctx, &user.FindParams{Keywords: "ALI", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 1)
	n, err := users.Count(ctx, &user.FindParams{DeptID: &rd.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	n, err = users.Count(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	alice.Nickname = "Alice"
	alice.PasswordHash = ""
	updated, err := users.Update(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, "Alice", updated.Nickname)
	require.True(t, updated.CheckPassword("secret1"), "empty hash keeps the password")

	require.NoError(t, depts.Delete(ctx, rd.ID))
	reloaded, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.DeptID)
	require.Empty(t, reloaded.DeptName)

	require.NoError(t, users.Delete(ctx, alice.ID))
	require.ErrorIs(t, users.Delete(ctx, alice.ID), user.ErrNotFound)
	_, err = users.GetByID(ctx, alice.ID)
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestMemoryUserRepository(t *testing.T) {
	t.Parallel()

	depts := deptpersistence.NewMemoryDeptRepository(dept.Dept{ID: 1, Name: "R&D"})
	users := persistence.NewMemoryUserRepository(depts)
	ctx := t.Context()

	one := int64(1)
	alice, err := users.Create(ctx, newUser(t, "alice", &one))
	require.NoError(t, err)
	require.Equal(t, "R&D", alice.DeptName)

	_, err = users.Create(ctx, newUser(t, "ALICE", nil))
	require.ErrorIs(t, err, user.ErrUsernameTaken)

	two := int64(2)
	_, err = users.Create(ctx, newUser(t, "ghost", &two))
	require.ErrorIs(t, err, user.ErrDeptNotFound)

	for _, name := range []string{"bob", "carol", "dave"} {
		_, err := users.Create(ctx, newUser(t, name, nil))
		require.NoError(t, err)
	}
	page, err := users.GetPaginated(ctx, &user.FindParams{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Equal(t, "carol", page[0].Username)
	require.Len(t, page, 2)

	disabled := user.StatusDisabled
	n, err := users.Count(ctx, &user.FindParams{Status: &disabled})
	require.NoError(t, err)
	require.Zero(t, n)

	alice.PasswordHash = ""
	alice.Username = "renamed"
	updated, err := users.Update(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, "alice", updated.Username)
	require.True(t, updated.CheckPassword("secret1"))
}
