package crud

import (
	"context"
	"fmt"
	"slices"

	"github.com/iota-uz/crudkit/pkg/crud/field"
	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/crud/pagination"
	"github.com/iota-uz/crudkit/pkg/crud/table"
	"github.com/iota-uz/crudkit/pkg/crud/tree"
)

type Mode string

const (
	ModeList Mode = "list"
	ModeTree Mode = "tree"
)

// ID identifies one row. Numeric identifiers are carried in their decimal form.
type ID string

func (id ID) String() string { return string(id) }

// Action is a built-in row or page action.
type Action string

const (
	ActionAdd          Action = "add"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionView         Action = "view"
	ActionRefresh      Action = "refresh"
	ActionToggleExpand Action = "toggle-expand"
)

var (
	rowActions  = []Action{ActionEdit, ActionDelete, ActionView}
	pageActions = []Action{ActionAdd, ActionRefresh, ActionToggleExpand}
)

// PageQuery is the argument of a list fetch.
type PageQuery[TQuery any] struct {
	PageNum  int    `json:"pageNum" form:"pageNum"`
	PageSize int    `json:"pageSize" form:"pageSize"`
	Search   TQuery `json:"search" form:"-"`
}

type PageResult[TItem any] struct {
	Records []TItem `json:"records"`
	Total   int     `json:"total"`
}

// API binds the remote operations of one entity. Each one is optional; New
// rejects a configuration that declares a feature without its binding.
type API[TItem, TQuery, TCreate, TUpdate, TDetail any] struct {
	Page        func(ctx context.Context, q PageQuery[TQuery]) (PageResult[TItem], error)
	Tree        func(ctx context.Context, q TQuery) ([]TItem, error)
	Detail      func(ctx context.Context, id ID) (TDetail, error)
	Create      func(ctx context.Context, payload TCreate) error
	Update      func(ctx context.Context, payload TUpdate) error
	Delete      func(ctx context.Context, id ID) error
	BatchDelete func(ctx context.Context, ids []ID) error
}

type TreeOptions[TItem any] struct {
	// ChildrenKey names the row field holding children; "children" when empty.
	ChildrenKey string
	// Children overrides ChildrenKey.
	Children         func(TItem) []TItem
	DefaultExpandAll bool
}

type PaginationOptions struct {
	Disabled bool
	Options  []pagination.Option
}

// RowHandler runs a custom row action.
type RowHandler[TItem any] func(ctx context.Context, row TItem) error

// PageHandler runs a custom page action.
type PageHandler func(ctx context.Context) error

// LoadFunc replaces the built-in list or tree fetch.
type LoadFunc[TItem, TQuery any] func(ctx context.Context, q PageQuery[TQuery]) (PageResult[TItem], error)

// Config describes one entity screen. It is bound once by New and never
// changed afterwards.
type Config[TItem, TQuery, TCreate, TUpdate, TDetail any] struct {
	// Name labels logs and metrics.
	Name string
	Mode Mode

	IDKey    string
	IDFunc   func(TItem) ID
	NameKey  string
	NameFunc func(TItem) string

	API API[TItem, TQuery, TCreate, TUpdate, TDetail]

	Columns []table.Spec[TItem]
	Table   []table.Option
	Form    form.Config
	// DetailFields describe the read-only detail view.
	DetailFields []table.Spec[TDetail]

	// RowActions defaults to edit and delete when nil.
	RowActions       []Action
	CustomRowActions []table.CustomButton
	RowHandlers      map[string]RowHandler[TItem]

	PageActions  []Action
	PageHandlers map[string]PageHandler

	Tree       TreeOptions[TItem]
	Pagination PaginationOptions

	InitialQuery TQuery
	CustomLoad   LoadFunc[TItem, TQuery]

	Defaults     form.Data
	DefaultsFunc func() form.Data

	TransformBeforeSubmit func(data form.Data, mode form.Mode) form.Data
	TransformDetailToForm func(detail TDetail) form.Data
	// ToCreate and ToUpdate build payloads from submitted form data. When nil
	// the data is decoded into the payload type by its json field names.
	ToCreate func(data form.Data) (TCreate, error)
	ToUpdate func(data form.Data) (TUpdate, error)

	Messages Messages
}

func (c *Config[TItem, TQuery, TCreate, TUpdate, TDetail]) rowActions() []Action {
	if c.RowActions == nil {
		return []Action{ActionEdit, ActionDelete}
	}
	return c.RowActions
}

func (c *Config[TItem, TQuery, TCreate, TUpdate, TDetail]) hasRowAction(a Action) bool {
	return slices.Contains(c.rowActions(), a)
}

func (c *Config[TItem, TQuery, TCreate, TUpdate, TDetail]) hasPageAction(a Action) bool {
	return slices.Contains(c.PageActions, a)
}

func (c *Config[TItem, TQuery, TCreate, TUpdate, TDetail]) children() func(TItem) []TItem {
	if c.Tree.Children != nil {
		return c.Tree.Children
	}
	key := c.Tree.ChildrenKey
	if key == "" {
		key = tree.DefaultChildrenKey
	}
	return func(row TItem) []TItem {
		return field.Slice[TItem](row, key)
	}
}

func (c *Config[TItem, TQuery, TCreate, TUpdate, TDetail]) validate() error {
	invalid := func(format string, args ...any) error {
		return ErrInvalidConfig.Withf(format, args...)
	}
	missing := func(api, feature string) error {
		return ErrMissingAPI.Withf("%s API is required for %s", api, feature)
	}

	switch c.Mode {
	case ModeList:
		if c.API.Page == nil && c.CustomLoad == nil {
			return missing("page", "list mode")
		}
	case ModeTree:
		if c.API.Tree == nil && c.CustomLoad == nil {
			return missing("tree", "tree mode")
		}
	default:
		return invalid("unknown mode %q", c.Mode)
	}
	if c.IDKey == "" && c.IDFunc == nil {
		return invalid("an id key or id accessor is required")
	}

	for _, a := range c.rowActions() {
		if !slices.Contains(rowActions, a) {
			return invalid("%q is not a row action", a)
		}
	}
	for _, a := range c.PageActions {
		if !slices.Contains(pageActions, a) {
			return invalid("%q is not a page action", a)
		}
	}
	if c.hasPageAction(ActionToggleExpand) && c.Mode != ModeTree {
		return invalid("%s requires tree mode", ActionToggleExpand)
	}

	if c.hasRowAction(ActionEdit) {
		if c.API.Detail == nil {
			return missing("detail", "edit")
		}
		if c.API.Update == nil {
			return missing("update", "edit")
		}
	}
	if c.hasRowAction(ActionView) && c.API.Detail == nil {
		return missing("detail", "view")
	}
	if c.hasRowAction(ActionDelete) && c.API.Delete == nil {
		return missing("delete", "delete")
	}
	if c.hasPageAction(ActionAdd) && c.API.Create == nil {
		return missing("create", "add")
	}

	for key := range c.PageHandlers {
		if slices.Contains(pageActions, Action(key)) {
			return invalid("custom page action %q shadows a built-in action", key)
		}
	}
	for key := range c.RowHandlers {
		if slices.Contains(rowActions, Action(key)) {
			return invalid("custom row action %q shadows a built-in action", key)
		}
	}

	if err := c.Form.Validate(); err != nil {
		return fmt.Errorf("%w: form: %w", ErrInvalidConfig, err)
	}
	return nil
}
