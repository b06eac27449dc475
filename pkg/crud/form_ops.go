package crud

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/iota-uz/crudkit/pkg/crud/form"
)

// HandleAdd opens the form in create mode seeded with the defaults only.
// Opening a form discards whatever the previous one held.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleAdd(ctx context.Context) error {
	if o.cfg.API.Create == nil {
		return ErrMissingAPI.Withf("create API is required for add")
	}
	o.mu.Lock()
	o.formSeq++
	seq := o.formSeq
	o.mu.Unlock()

	data := o.defaults()
	o.cascade.Load(ctx, form.ModeCreate, data, o.cfg.Form.Loaders())

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.formSeq {
		return nil
	}
	o.form = FormState{Visible: true, Mode: form.ModeCreate, Data: data}
	o.detail.Visible = false
	return nil
}

// HandleEdit fetches the detail of row and opens the form in update mode.
// When the fetch fails the form is closed, including one opened earlier.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleEdit(ctx context.Context, row TItem) error {
	const op = "detail"
	if o.cfg.API.Detail == nil {
		return ErrMissingAPI.Withf("detail API is required for edit")
	}

	o.mu.Lock()
	o.formSeq++
	seq := o.formSeq
	o.form.Loading = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		if seq == o.formSeq {
			o.form.Loading = false
		}
		o.mu.Unlock()
	}()

	started := time.Now()
	detail, err := o.cfg.API.Detail(ctx, o.RowID(row))
	o.metrics.observe(o.cfg.Name, op, started)
	var data form.Data
	if err == nil {
		data, err = o.detailToForm(detail)
	}
	if err != nil {
		o.mu.Lock()
		if seq == o.formSeq {
			o.form.Visible = false
		}
		o.mu.Unlock()
		o.fail(op, o.msgs.DetailError, err)
		return nil
	}
	o.cascade.Load(ctx, form.ModeUpdate, data, o.cfg.Form.Loaders())

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.formSeq {
		return nil
	}
	o.form = FormState{Visible: true, Mode: form.ModeUpdate, Data: data}
	o.detail.Visible = false
	o.metrics.record(o.cfg.Name, op, resultOK)
	return nil
}

// HandleView fetches the detail of row into the read-only detail view.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleView(ctx context.Context, row TItem) error {
	const op = "view"
	if o.cfg.API.Detail == nil {
		return ErrMissingAPI.Withf("detail API is required for view")
	}

	o.mu.Lock()
	o.detail.Loading = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.detail.Loading = false
		o.mu.Unlock()
	}()

	started := time.Now()
	detail, err := o.cfg.API.Detail(ctx, o.RowID(row))
	o.metrics.observe(o.cfg.Name, op, started)
	if err != nil {
		o.fail(op, o.msgs.DetailError, err)
		return nil
	}

	o.mu.Lock()
	o.detail.Data = detail
	o.detail.Visible = true
	o.form.Visible = false
	o.mu.Unlock()
	o.metrics.record(o.cfg.Name, op, resultOK)
	return nil
}

// HandleCloseDetail hides the detail view.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleCloseDetail() {
	o.mu.Lock()
	o.detail.Visible = false
	o.mu.Unlock()
}

// HandleCancel closes the form without saving. It is a no-op when the form
// is already closed.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleCancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.form.Visible {
		return
	}
	o.form.Visible = false
}

// HandleFormDataUpdate merges user edits into the open form.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleFormDataUpdate(partial form.Data) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.form.Data == nil {
		o.form.Data = form.Data{}
	}
	o.form.Data.Merge(partial)
}

// HandleSubmit creates or updates depending on the form mode. Unlike the
// other operations it returns API failures, after notifying them, so callers
// can keep the form open.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleSubmit(ctx context.Context, data form.Data) error {
	o.mu.RLock()
	mode := o.form.Mode
	o.mu.RUnlock()
	if mode == "" {
		mode = form.ModeCreate
	}

	op, failMsg, okMsg := "create", o.msgs.CreateError, o.msgs.CreateSuccess
	if mode == form.ModeUpdate {
		op, failMsg, okMsg = "update", o.msgs.UpdateError, o.msgs.UpdateSuccess
	}
	switch {
	case mode == form.ModeCreate && o.cfg.API.Create == nil:
		return ErrMissingAPI.Withf("create API is required for submit")
	case mode == form.ModeUpdate && o.cfg.API.Update == nil:
		return ErrMissingAPI.Withf("update API is required for submit")
	}

	o.mu.Lock()
	o.form.Loading = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.form.Loading = false
		o.mu.Unlock()
	}()

	if verrs := o.cfg.Form.Check(data); verrs != nil {
		o.notifyWarning(validationMessage(verrs))
		o.metrics.record(o.cfg.Name, op, resultSkipped)
		return ErrValidation.Wrap(verrs)
	}

	submit := data.Clone()
	if o.cfg.TransformBeforeSubmit != nil {
		submit = o.cfg.TransformBeforeSubmit(submit, mode)
	}

	started := time.Now()
	err := o.send(ctx, mode, submit)
	o.metrics.observe(o.cfg.Name, op, started)
	if err != nil {
		o.fail(op, failMsg, err)
		return fmt.Errorf("crud: %s %s: %w", op, o.cfg.Name, err)
	}

	o.mu.Lock()
	o.form.Visible = false
	o.mu.Unlock()
	o.metrics.record(o.cfg.Name, op, resultOK)
	o.notifySuccess(okMsg)
	return nil
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) send(ctx context.Context, mode form.Mode, data form.Data) error {
	if mode == form.ModeUpdate {
		payload, err := o.toUpdate(data)
		if err != nil {
			return fmt.Errorf("build update payload: %w", err)
		}
		return o.cfg.API.Update(ctx, payload)
	}
	payload, err := o.toCreate(data)
	if err != nil {
		return fmt.Errorf("build create payload: %w", err)
	}
	return o.cfg.API.Create(ctx, payload)
}

func validationMessage(verrs map[string]string) string {
	msgs := make([]string, 0, len(verrs))
	for _, m := range verrs {
		msgs = append(msgs, m)
	}
	slices.Sort(msgs)
	return strings.Join(msgs, "; ")
}
