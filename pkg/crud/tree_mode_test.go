package crud

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/crud/table"
)

type deptQuery struct {
	DeptName string `json:"deptName"`
}

type deptOrchestrator = Orchestrator[dept, deptQuery, form.Data, form.Data, dept]

// A(children:[B(children:[C]), D]) plus a lone root E.
func deptForest() []dept {
	return []dept{
		{DeptID: 1, DeptName: "A", Children: []dept{
			{DeptID: 2, DeptName: "B", Children: []dept{{DeptID: 3, DeptName: "C"}}},
			{DeptID: 4, DeptName: "D"},
		}},
		{DeptID: 5, DeptName: "E"},
	}
}

func newDepts(t *testing.T, mutate func(*Config[dept, deptQuery, form.Data, form.Data, dept])) (*deptOrchestrator, *recordingNotifier) {
	t.Helper()
	cfg := Config[dept, deptQuery, form.Data, form.Data, dept]{
		Name:    "dept",
		Mode:    ModeTree,
		IDKey:   "deptId",
		NameKey: "deptName",
		API: API[dept, deptQuery, form.Data, form.Data, dept]{
			Tree:   func(context.Context, deptQuery) ([]dept, error) { return deptForest(), nil },
			Detail: func(_ context.Context, id ID) (dept, error) { return dept{DeptName: "detail-" + string(id)}, nil },
			Create: func(context.Context, form.Data) error { return nil },
			Update: func(context.Context, form.Data) error { return nil },
			Delete: func(context.Context, ID) error { return nil },
		},
		Columns: []table.Spec[dept]{
			{Title: "Name", Key: "deptName", Width: 250},
			{Title: "Sort", Key: "deptSort", Width: 120},
		},
		Table:            []table.Option{table.WithActionWidth(220)},
		RowActions:       []Action{ActionEdit, ActionDelete},
		CustomRowActions: []table.CustomButton{{ActionKey: "addChild", Text: "Add child", Icon: "add"}},
		PageActions:      []Action{ActionAdd, ActionToggleExpand},
		Defaults:         form.Data{"status": 1, "deptSort": 0},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	n := &recordingNotifier{}
	o, err := New(cfg, WithNotifier(n))
	require.NoError(t, err)
	return o, n
}

func TestTreeLoadCountsTopLevelNodes(t *testing.T) {
	t.Parallel()

	o, _ := newDepts(t, nil)
	require.Nil(t, o.Pagination(), "tree mode is never paginated")
	require.NoError(t, o.LoadDataList(context.Background()))

	require.Equal(t, 2, o.Total())
	require.Len(t, o.Items(), 2)
	require.False(t, o.IsExpanded(), "nothing is expanded unless asked")
	require.Nil(t, o.State().Pagination)
}

func TestTreeDefaultExpandAll(t *testing.T) {
	t.Parallel()

	o, _ := newDepts(t, func(c *Config[dept, deptQuery, form.Data, form.Data, dept]) {
		c.Tree.DefaultExpandAll = true
	})
	require.NoError(t, o.LoadDataList(context.Background()))
	require.Equal(t, []ID{"1", "2"}, o.ExpandedIDs())
	require.Equal(t, 2, o.ExpandedCount())
}

func TestToggleExpandTwiceRestoresState(t *testing.T) {
	t.Parallel()

	o, _ := newDepts(t, nil)
	ctx := context.Background()
	require.NoError(t, o.LoadDataList(ctx))

	before := o.ExpandedIDs()
	require.NoError(t, o.HandlePageAction(ctx, "toggle-expand"))
	require.Equal(t, []ID{"1", "2"}, o.ExpandedIDs())
	require.NoError(t, o.HandlePageAction(ctx, "toggle-expand"))
	require.Equal(t, before, o.ExpandedIDs())

	o.ExpandAll()
	o.ToggleExpand()
	require.Empty(t, o.ExpandedIDs())
	o.ToggleExpand()
	require.Equal(t, []ID{"1", "2"}, o.State().ExpandedIDs)

	o.CollapseAll()
	require.Zero(t, o.ExpandedCount())
}

func TestTreeChildrenAccessor(t *testing.T) {
	t.Parallel()

	o, _ := newDepts(t, nil)
	require.Len(t, o.Children(deptForest()[0]), 2)

	custom, _ := newDepts(t, func(c *Config[dept, deptQuery, form.Data, form.Data, dept]) {
		c.Tree.Children = func(d dept) []dept {
			if d.DeptID == 5 {
				return []dept{{DeptID: 6}}
			}
			return nil
		}
	})
	require.NoError(t, custom.LoadDataList(context.Background()))
	custom.ExpandAll()
	require.Equal(t, []ID{"5"}, custom.ExpandedIDs())
}

func TestTreeFetchFailure(t *testing.T) {
	t.Parallel()

	o, n := newDepts(t, func(c *Config[dept, deptQuery, form.Data, form.Data, dept]) {
		c.API.Tree = func(context.Context, deptQuery) ([]dept, error) { return nil, errors.New("timeout") }
	})
	require.NoError(t, o.LoadDataList(context.Background()))
	require.Empty(t, o.Items())
	require.Equal(t, []string{"加载数据失败"}, n.errors)
}

func TestCustomLoadReplacesFetch(t *testing.T) {
	t.Parallel()

	var gotQuery deptQuery
	o, _ := newDepts(t, func(c *Config[dept, deptQuery, form.Data, form.Data, dept]) {
		c.InitialQuery = deptQuery{DeptName: "R"}
		c.CustomLoad = func(_ context.Context, q PageQuery[deptQuery]) (PageResult[dept], error) {
			gotQuery = q.Search
			return PageResult[dept]{Records: []dept{{DeptID: 9}}, Total: 1}, nil
		}
	})
	require.NoError(t, o.LoadDataList(context.Background()))
	require.Equal(t, deptQuery{DeptName: "R"}, gotQuery)
	require.Equal(t, 1, o.Total())
}

func TestColumnsWireRowActions(t *testing.T) {
	t.Parallel()

	var children []string
	o, _ := newDepts(t, func(c *Config[dept, deptQuery, form.Data, form.Data, dept]) {
		c.RowHandlers = map[string]RowHandler[dept]{"addChild": func(_ context.Context, row dept) error {
			children = append(children, row.DeptName)
			return nil
		}}
	})

	cols := o.Columns(context.Background())
	require.Len(t, cols, 4)
	require.Equal(t, table.TypeSelection, cols[0].Type)
	require.Equal(t, table.TypeAction, cols[3].Type)
	require.Equal(t, 220, cols[3].Width)
	require.Equal(t, 50+250+120+220, o.ScrollWidth())

	row := dept{DeptID: 2, DeptName: "B"}
	buttons := cols[3].Buttons(row)
	keys := make([]string, len(buttons))
	for i, b := range buttons {
		keys[i] = b.Key
	}
	require.Equal(t, []string{"addChild", "edit", "delete"}, keys)

	buttons[0].OnClick()
	require.Equal(t, []string{"B"}, children)

	buttons[1].OnClick()
	f := o.Form()
	require.True(t, f.Visible)
	require.Equal(t, form.ModeUpdate, f.Mode)
	require.Equal(t, "detail-2", f.Data["deptName"])
}

func TestColumnsOmitUnhandledCustomActions(t *testing.T) {
	t.Parallel()

	o, _ := newDepts(t, nil)
	cols := o.Columns(context.Background())
	buttons := cols[len(cols)-1].Buttons(dept{DeptID: 1})
	require.Len(t, buttons, 2, "addChild has no handler")
}

func TestDetailColumns(t *testing.T) {
	t.Parallel()

	o, _ := newDepts(t, func(c *Config[dept, deptQuery, form.Data, form.Data, dept]) {
		c.DetailFields = []table.Spec[dept]{{Title: "Name", Key: "deptName"}}
	})
	cols := o.DetailColumns()
	require.Len(t, cols, 1)
	require.Equal(t, "R&D", cols[0].Text(dept{DeptName: "R&D"}))
}

func TestTreeAddUsesDefaultsAndMapPayload(t *testing.T) {
	t.Parallel()

	var created form.Data
	o, n := newDepts(t, func(c *Config[dept, deptQuery, form.Data, form.Data, dept]) {
		c.API.Create = func(_ context.Context, p form.Data) error {
			created = p
			return nil
		}
	})
	ctx := context.Background()
	require.NoError(t, o.HandlePageAction(ctx, "add"))
	require.Equal(t, form.Data{"status": 1, "deptSort": 0}, o.Form().Data)

	o.HandleFormDataUpdate(form.Data{"deptName": "Ops", "parentId": 1})
	require.NoError(t, o.HandleSubmit(ctx, o.Form().Data))
	require.Equal(t, form.Data{"status": json.Number("1"), "deptSort": json.Number("0"), "deptName": "Ops", "parentId": json.Number("1")}, created)
	require.Equal(t, []string{"新增成功"}, n.success)
}
