// Package screens binds the department REST endpoints to a crud screen.
package screens

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	"github.com/iota-uz/crudkit/modules/dept/presentation/viewmodels"
	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/crud/field"
	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/crud/table"
	"github.com/iota-uz/crudkit/pkg/restclient"
)

const (
	BasePath = "/dept"

	// ActionAddChild opens the add form under the clicked row.
	ActionAddChild = "addChild"

	// RootValue is the parentId option of a top level department.
	RootValue = 0
)

type (
	Entity = restclient.Entity[viewmodels.Dept, viewmodels.Query, dept.CreateDTO, dept.UpdateDTO, viewmodels.DeptDetail]
	Config = crud.Config[viewmodels.Dept, viewmodels.Query, dept.CreateDTO, dept.UpdateDTO, viewmodels.DeptDetail]
	Screen = crud.Orchestrator[viewmodels.Dept, viewmodels.Query, dept.CreateDTO, dept.UpdateDTO, viewmodels.DeptDetail]
)

var StatusOptions = []form.Option{
	{Label: "启用", Value: int(dept.StatusEnabled), Type: "success"},
	{Label: "禁用", Value: int(dept.StatusDisabled), Type: "error"},
}

func NewEntity(c *restclient.Client) *Entity {
	return restclient.NewEntity[viewmodels.Dept, viewmodels.Query, dept.CreateDTO, dept.UpdateDTO, viewmodels.DeptDetail](c, BasePath)
}

// NewConfig describes the department tree screen. The addChild row action
// needs the screen itself, so it is resolved through screen at click time.
func NewConfig(e *Entity, screen func() *Screen) Config {
	return Config{
		Name:    "dept",
		Mode:    crud.ModeTree,
		IDKey:   "deptId",
		NameKey: "deptName",
		API:     e.API(crud.ModeTree),
		Columns: []table.Spec[viewmodels.Dept]{
			{Title: "部门名称", Key: "deptName", Width: 250},
			{Title: "状态", Key: "status", Width: 120, RenderKind: table.RenderStatus, Options: StatusOptions},
			{Title: "排序", Key: "deptSort", Width: 120},
			{Title: "创建时间", Key: "createTime", Width: 200, RenderKind: table.RenderDateTime},
		},
		Table: []table.Option{
			table.WithActionWidth(220),
			table.WithActionOrder(table.ButtonCustom, table.ButtonEdit, table.ButtonDelete),
		},
		DetailFields: []table.Spec[viewmodels.DeptDetail]{
			{Title: "部门名称", Key: "deptName"},
			{Title: "状态", Key: "status", RenderKind: table.RenderStatus, Options: StatusOptions},
			{Title: "排序", Key: "deptSort"},
			{Title: "描述", Key: "description"},
			{Title: "创建时间", Key: "createTime", RenderKind: table.RenderDateTime},
			{Title: "更新时间", Key: "updateTime", RenderKind: table.RenderDateTime},
		},
		RowActions: []crud.Action{crud.ActionEdit, crud.ActionDelete},
		CustomRowActions: []table.CustomButton{
			{ActionKey: ActionAddChild, Text: "新增下级", Icon: "add", Style: table.StylePrimary, Tertiary: true},
		},
		RowHandlers: map[string]crud.RowHandler[viewmodels.Dept]{
			ActionAddChild: func(ctx context.Context, row viewmodels.Dept) error {
				s := screen()
				if err := s.HandleAdd(ctx); err != nil {
					return err
				}
				s.HandleFormDataUpdate(form.Data{"parentId": row.DeptID})
				return nil
			},
		},
		PageActions: []crud.Action{crud.ActionAdd, crud.ActionToggleExpand},
		Pagination:  crud.PaginationOptions{Disabled: true},
		Form: form.Config{
			Title:    "部门",
			GridCols: 1,
			Fields: []form.Field{
				{Key: "deptName", Label: "部门名称", Kind: form.KindInput, Required: true, Placeholder: "请输入部门名称"},
				{Key: "parentId", Label: "上级部门", Kind: form.KindTreeSelect, Placeholder: "请选择上级部门", Load: parentOptions(e)},
				{Key: "deptSort", Label: "排序", Kind: form.KindNumber},
				{Key: "status", Label: "状态", Kind: form.KindRadio, Required: true, Options: StatusOptions},
				{Key: "description", Label: "描述", Kind: form.KindTextarea, Validate: maxLen(500)},
			},
		},
		Defaults: form.Data{"status": int(dept.StatusEnabled), "deptSort": 0},
	}
}

// New builds the department screen on top of c.
func New(c *restclient.Client, opts ...crud.Option) (*Screen, error) {
	var s *Screen
	s, err := crud.New(NewConfig(NewEntity(c), func() *Screen { return s }), opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// parentOptions loads the tree for the parent picker. While editing, the
// department itself and its descendants are left out.
func parentOptions(e *Entity) form.LoadFunc {
	return func(ctx context.Context, mode form.Mode, data form.Data) ([]form.Option, error) {
		nodes, err := e.Tree(ctx, viewmodels.Query{})
		if err != nil {
			return nil, err
		}
		exclude := ""
		if mode == form.ModeUpdate {
			if v, ok := data["deptId"]; ok && v != nil {
				exclude = field.String(v)
			}
		}
		root := form.Option{Label: "顶级部门", Value: RootValue, Children: TreeOptions(nodes, exclude)}
		return []form.Option{root}, nil
	}
}

// TreeOptions turns department nodes into tree-select options, dropping the
// subtree rooted at exclude.
func TreeOptions(nodes []viewmodels.Dept, exclude string) []form.Option {
	out := make([]form.Option, 0, len(nodes))
	for _, n := range nodes {
		if exclude != "" && strconv.FormatInt(n.DeptID, 10) == exclude {
			continue
		}
		out = append(out, form.Option{
			Label:    n.DeptName,
			Value:    n.DeptID,
			Children: TreeOptions(n.Children, exclude),
		})
	}
	return out
}

func maxLen(n int) func(any) string {
	return func(v any) string {
		if s, ok := v.(string); ok && len([]rune(s)) > n {
			return fmt.Sprintf("最多 %d 个字符", n)
		}
		return ""
	}
}
