package crud

import (
	"slices"

	"github.com/iota-uz/crudkit/pkg/crud/form"
	"github.com/iota-uz/crudkit/pkg/crud/pagination"
)

// FormState is the add/edit form. At most one form is open at a time.
type FormState struct {
	Visible bool
	Mode    form.Mode
	Loading bool
	Data    form.Data
}

// DetailState is the read-only detail view.
type DetailState[TDetail any] struct {
	Visible bool
	Loading bool
	Data    TDetail
}

// State is a point-in-time copy of an orchestrator's state.
type State[TItem, TQuery, TDetail any] struct {
	Loading      bool
	Items        []TItem
	Total        int
	SelectedIDs  []ID
	Query        TQuery
	Pagination   *pagination.State
	Form         FormState
	Detail       DetailState[TDetail]
	FieldOptions map[string][]form.Option
	ExpandedIDs  []ID
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) State() State[TItem, TQuery, TDetail] {
	o.mu.RLock()
	s := State[TItem, TQuery, TDetail]{
		Loading:     o.loading,
		Items:       slices.Clone(o.items),
		Total:       o.total,
		SelectedIDs: slices.Clone(o.selected),
		Query:       o.query,
		Form: FormState{
			Visible: o.form.Visible,
			Mode:    o.form.Mode,
			Loading: o.form.Loading,
			Data:    o.form.Data.Clone(),
		},
		Detail: o.detail,
	}
	o.mu.RUnlock()

	if o.pagination != nil {
		p := o.pagination.State()
		s.Pagination = &p
	}
	s.FieldOptions = o.cascade.Snapshot()
	if o.expander != nil {
		s.ExpandedIDs = o.expander.ExpandedIDs()
	}
	return s
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Loading() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.loading
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Total() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.total
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) SelectedIDs() []ID {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.selected)
}

// Form returns a copy of the form state.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Form() FormState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	f := o.form
	f.Data = f.Data.Clone()
	return f
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Detail() DetailState[TDetail] {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.detail
}

// HandleCheck replaces the selected row ids.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleCheck(ids []ID) {
	o.mu.Lock()
	o.selected = slices.Clone(ids)
	o.mu.Unlock()
}
