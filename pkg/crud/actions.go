package crud

import (
	"context"

	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/crud/table"
)

// PageActions lists the declared built-in page actions.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) PageActions() []Action {
	return append([]Action(nil), o.cfg.PageActions...)
}

// HandlePageAction runs a page level action. Unknown keys only warn.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandlePageAction(ctx context.Context, key string) error {
	switch Action(key) {
	case ActionAdd:
		return o.HandleAdd(ctx)
	case ActionRefresh:
		return o.LoadDataList(ctx)
	case ActionToggleExpand:
		if o.expander != nil {
			o.ToggleExpand()
			return nil
		}
	}
	if h, ok := o.cfg.PageHandlers[key]; ok && h != nil {
		return h(ctx)
	}
	o.unknownAction("page_action", key)
	return nil
}

// HandleRowAction runs a row action: edit, view, delete (followed by a
// reload) or a custom handler. Unknown keys only warn.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleRowAction(ctx context.Context, key string, row TItem) error {
	switch Action(key) {
	case ActionEdit:
		return o.HandleEdit(ctx, row)
	case ActionView:
		return o.HandleView(ctx, row)
	case ActionDelete:
		return o.DeleteAndReload(ctx, row)
	}
	if h, ok := o.cfg.RowHandlers[key]; ok && h != nil {
		return h(ctx, row)
	}
	o.unknownAction("row_action", key)
	return nil
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) unknownAction(op, key string) {
	o.opLog(op).WithField("action", key).Warn("unknown action")
	o.metrics.record(o.cfg.Name, op, resultSkipped)
	o.notifyWarning(o.msgs.UnknownAction(key))
}

// Columns builds the table columns with every button bound to ctx. Handler
// errors are logged since buttons have no caller to return them to.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Columns(ctx context.Context) []table.Column[TItem] {
	run := func(key string) func(TItem) {
		return func(row TItem) {
			if err := o.HandleRowAction(ctx, key, row); err != nil {
				o.opLog("row_action").WithError(err).WithField("action", key).Error("row action failed")
			}
		}
	}

	h := table.Handlers[TItem]{Custom: make(map[string]func(TItem), len(o.cfg.RowHandlers))}
	buttons := table.Buttons{Custom: o.cfg.CustomRowActions}
	for _, a := range o.cfg.rowActions() {
		switch a {
		case ActionEdit:
			buttons.Edit, h.Edit = true, run(string(a))
		case ActionView:
			buttons.View, h.View = true, run(string(a))
		case ActionDelete:
			buttons.Delete, h.Delete = true, run(string(a))
		}
	}
	for key := range o.cfg.RowHandlers {
		h.Custom[key] = run(key)
	}

	opts := append([]table.Option{table.WithButtons(buttons)}, o.cfg.Table...)
	return table.Build(o.cfg.Columns, h, opts...)
}

// ScrollWidth is the total width of the table columns.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) ScrollWidth() int {
	return table.ScrollWidth(o.Columns(context.Background()))
}

// DetailColumns describes the fields of the detail view.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) DetailColumns() []table.Column[TDetail] {
	return table.Build(o.cfg.DetailFields, table.Handlers[TDetail]{}, table.WithoutSelection(), table.WithoutActions())
}

// FormConfig returns the form descriptors.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) FormConfig() form.Config {
	return o.cfg.Form
}

// ExpandAll expands every node with children. It is a no-op in list mode.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) ExpandAll() {
	if o.expander != nil {
		o.expander.ExpandAll()
	}
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) CollapseAll() {
	if o.expander != nil {
		o.expander.CollapseAll()
	}
}

// ToggleExpand collapses everything when anything is expanded, otherwise it
// expands everything.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) ToggleExpand() {
	if o.expander != nil {
		o.expander.Toggle()
	}
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) ExpandedIDs() []ID {
	if o.expander == nil {
		return nil
	}
	return o.expander.ExpandedIDs()
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) IsExpanded() bool {
	return o.expander != nil && o.expander.IsExpanded()
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) ExpandedCount() int {
	if o.expander == nil {
		return 0
	}
	return o.expander.ExpandedCount()
}

// Children returns the child rows of a tree node.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Children(row TItem) []TItem {
	return o.cfg.children()(row)
}
