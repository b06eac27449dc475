// Package screens binds the user REST endpoints to a paginated crud screen.
package screens

import (
	"context"

	deptscreens "github.com/iota-uz/crudkit/modules/dept/presentation/screens"
	deptviewmodels "github.com/iota-uz/crudkit/modules/dept/presentation/viewmodels"
	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/modules/user/presentation/viewmodels"
	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/crud/pagination"
	"github.com/iota-uz/crudkit/pkg/crud/table"
	"github.com/iota-uz/crudkit/pkg/restclient"
)

const (
	BasePath = "/user"

	// ActionBatchDelete deletes the checked rows.
	ActionBatchDelete = "batch-delete"
)

type (
	Entity = restclient.Entity[viewmodels.User, viewmodels.Query, user.CreateDTO, user.UpdateDTO, viewmodels.UserDetail]
	Config = crud.Config[viewmodels.User, viewmodels.Query, user.CreateDTO, user.UpdateDTO, viewmodels.UserDetail]
	Screen = crud.Orchestrator[viewmodels.User, viewmodels.Query, user.CreateDTO, user.UpdateDTO, viewmodels.UserDetail]
)

var (
	StatusOptions = []form.Option{
		{Label: "启用", Value: int(user.StatusEnabled), Type: "success"},
		{Label: "禁用", Value: int(user.StatusDisabled), Type: "error"},
	}
	GenderOptions = []form.Option{
		{Label: "男", Value: int(user.GenderMale)},
		{Label: "女", Value: int(user.GenderFemale)},
	}
)

func NewEntity(c *restclient.Client) *Entity {
	return restclient.NewEntity[viewmodels.User, viewmodels.Query, user.CreateDTO, user.UpdateDTO, viewmodels.UserDetail](c, BasePath)
}

// NewConfig describes the user list. Departments for the picker are read
// through depts; pageSizes feeds the size picker.
func NewConfig(e *Entity, depts *deptscreens.Entity, pageSizes []int, screen func() *Screen) Config {
	return Config{
		Name:    "user",
		Mode:    crud.ModeList,
		IDKey:   "userId",
		NameKey: "username",
		API:     e.API(crud.ModeList),
		Columns: []table.Spec[viewmodels.User]{
			{Title: "用户名", Key: "username", Width: 100},
			{Title: "昵称", Key: "nickname", Width: 100},
			{Title: "部门", Key: "deptName", Width: 120},
			{Title: "邮箱", Key: "email", Width: 180},
			{Title: "手机号", Key: "phoneNumber", Width: 130},
			{Title: "状态", Key: "status", Width: 80, RenderKind: table.RenderStatus, Options: StatusOptions},
			{Title: "创建时间", Key: "createTime", Width: 200, RenderKind: table.RenderDateTime},
		},
		DetailFields: []table.Spec[viewmodels.UserDetail]{
			{Title: "用户名", Key: "username"},
			{Title: "昵称", Key: "nickname"},
			{Title: "部门", Key: "deptName"},
			{Title: "性别", Key: "gender", RenderKind: table.RenderStatus, Options: GenderOptions},
			{Title: "邮箱", Key: "email"},
			{Title: "手机号", Key: "phoneNumber"},
			{Title: "状态", Key: "status", RenderKind: table.RenderStatus, Options: StatusOptions},
			{Title: "创建时间", Key: "createTime", RenderKind: table.RenderDateTime},
			{Title: "更新时间", Key: "updateTime", RenderKind: table.RenderDateTime},
		},
		RowActions:  []crud.Action{crud.ActionView, crud.ActionEdit, crud.ActionDelete},
		PageActions: []crud.Action{crud.ActionAdd, crud.ActionRefresh},
		PageHandlers: map[string]crud.PageHandler{
			ActionBatchDelete: func(ctx context.Context) error {
				return screen().BatchDeleteSelected(ctx)
			},
		},
		Pagination: crud.PaginationOptions{
			Options: []pagination.Option{pagination.WithPageSizes(pageSizes...)},
		},
		Form: form.Config{
			Title:    "用户",
			GridCols: 2,
			Fields: []form.Field{
				{Key: "username", Label: "用户名", Kind: form.KindInput, Required: true, Placeholder: "请输入用户名"},
				{Key: "password", Label: "密码", Kind: form.KindPassword, Placeholder: "留空则不修改"},
				{Key: "nickname", Label: "昵称", Kind: form.KindInput, Required: true},
				{Key: "deptId", Label: "部门", Kind: form.KindTreeSelect, Placeholder: "请选择部门", Load: deptOptions(depts)},
				{Key: "email", Label: "邮箱", Kind: form.KindInput},
				{Key: "phoneNumber", Label: "手机号", Kind: form.KindInput},
				{Key: "gender", Label: "性别", Kind: form.KindRadio, Options: GenderOptions},
				{Key: "status", Label: "状态", Kind: form.KindRadio, Required: true, Options: StatusOptions},
			},
		},
		Defaults:              form.Data{"status": int(user.StatusEnabled), "gender": int(user.GenderMale)},
		TransformBeforeSubmit: dropEmptyPassword,
	}
}

// New builds the user screen on top of c.
func New(c *restclient.Client, pageSizes []int, opts ...crud.Option) (*Screen, error) {
	var s *Screen
	s, err := crud.New(NewConfig(NewEntity(c), deptscreens.NewEntity(c), pageSizes, func() *Screen { return s }), opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func deptOptions(depts *deptscreens.Entity) form.LoadFunc {
	return func(ctx context.Context, _ form.Mode, _ form.Data) ([]form.Option, error) {
		nodes, err := depts.Tree(ctx, deptviewmodels.Query{})
		if err != nil {
			return nil, err
		}
		return deptscreens.TreeOptions(nodes, ""), nil
	}
}

// dropEmptyPassword keeps the stored password when an edit leaves the field
// blank.
func dropEmptyPassword(data form.Data, mode form.Mode) form.Data {
	if mode != form.ModeUpdate {
		return data
	}
	if p, ok := data["password"].(string); ok && p == "" {
		out := data.Clone()
		delete(out, "password")
		return out
	}
	return data
}
