package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	var p Params
	where := []string{"status = " + p.Add(1), "username ILIKE " + p.Add("%a%")}
	q := Join("SELECT * FROM sys_user", JoinWhere(where...), "ORDER BY user_id", FormatLimitOffset(10, 20))
	require.Equal(t, "SELECT * FROM sys_user WHERE status = $1 AND username ILIKE $2 ORDER BY user_id LIMIT 10 OFFSET 20", q)
	require.Equal(t, []any{1, "%a%"}, p.Args())

	require.Equal(t, "SELECT 1", Join("SELECT 1", JoinWhere(), FormatLimitOffset(0, 0)))
	require.Equal(t, "OFFSET 5", FormatLimitOffset(0, 5))
}
