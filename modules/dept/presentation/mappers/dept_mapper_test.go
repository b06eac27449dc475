package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
)

func parent(id int64) *int64 { return &id }

func TestBuildTree(t *testing.T) {
	t.Parallel()

	items := []dept.Dept{
		{ID: 1, Name: "HQ"},
		{ID: 2, Name: "R&D", ParentID: parent(1)},
		{ID: 3, Name: "QA", ParentID: parent(2)},
		{ID: 4, Name: "Sales", ParentID: parent(1)},
		{ID: 5, Name: "Orphan", ParentID: parent(99)},
	}
	tree := BuildTree(items)

	require.Len(t, tree, 2)
	require.Equal(t, "HQ", tree[0].DeptName)
	require.Equal(t, "Orphan", tree[1].DeptName)
	require.Len(t, tree[0].Children, 2)
	require.Equal(t, "R&D", tree[0].Children[0].DeptName)
	require.Equal(t, "QA", tree[0].Children[0].Children[0].DeptName)
	require.Empty(t, tree[0].Children[1].Children)
}

func TestDetailFormatsTimes(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	d := DeptToDetail(dept.Dept{ID: 7, Name: "Ops", Status: dept.StatusEnabled, Description: "x", CreatedAt: at})
	require.Equal(t, "2024-03-01T08:30:00Z", d.CreateTime)
	require.Empty(t, d.UpdateTime)
	require.Equal(t, 1, d.Status)
}
