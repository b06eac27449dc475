package crud

import (
	"context"
	"time"

	"github.com/iota-uz/crudkit/pkg/notify"
)

// HandleDelete asks for confirmation naming row and, only when confirmed,
// deletes it. onSuccess runs after a successful deletion.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleDelete(ctx context.Context, row TItem, onSuccess func(ctx context.Context)) error {
	const op = "delete"
	if o.cfg.API.Delete == nil {
		return ErrMissingAPI.Withf("delete API is required for delete")
	}

	name := o.RowName(row)
	if !o.confirm(ctx, op, notify.Confirmation{
		Title:        o.msgs.DeleteTitle,
		Content:      o.msgs.DeleteContent(name),
		PositiveText: o.msgs.PositiveText,
		NegativeText: o.msgs.NegativeText,
	}) {
		return nil
	}

	started := time.Now()
	err := o.cfg.API.Delete(ctx, o.RowID(row))
	o.metrics.observe(o.cfg.Name, op, started)
	if err != nil {
		o.fail(op, o.msgs.DeleteError, err)
		return nil
	}
	o.metrics.record(o.cfg.Name, op, resultOK)
	o.notifySuccess(o.msgs.DeleteSuccess(name))
	if onSuccess != nil {
		onSuccess(ctx)
	}
	return nil
}

// DeleteAndReload is HandleDelete followed by a reload, as wired to the
// delete button of each row.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) DeleteAndReload(ctx context.Context, row TItem) error {
	return o.HandleDelete(ctx, row, o.reload)
}

// HandleBatchDelete deletes ids in one API call after confirmation. Without
// a batch API or with nothing selected it only warns.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) HandleBatchDelete(ctx context.Context, ids []ID, onSuccess func(ctx context.Context)) error {
	const op = "batch_delete"
	if o.cfg.API.BatchDelete == nil {
		o.notifyWarning(o.msgs.BatchDeleteUnavailable)
		o.metrics.record(o.cfg.Name, op, resultSkipped)
		return nil
	}
	if len(ids) == 0 {
		o.notifyWarning(o.msgs.EmptySelection)
		o.metrics.record(o.cfg.Name, op, resultSkipped)
		return nil
	}

	count := len(ids)
	if !o.confirm(ctx, op, notify.Confirmation{
		Title:        o.msgs.BatchDeleteTitle,
		Content:      o.msgs.BatchDeleteContent(count),
		PositiveText: o.msgs.PositiveText,
		NegativeText: o.msgs.NegativeText,
	}) {
		return nil
	}

	started := time.Now()
	err := o.cfg.API.BatchDelete(ctx, append([]ID(nil), ids...))
	o.metrics.observe(o.cfg.Name, op, started)
	if err != nil {
		o.fail(op, o.msgs.BatchDeleteError, err)
		return nil
	}
	o.metrics.record(o.cfg.Name, op, resultOK)
	o.notifySuccess(o.msgs.BatchDeleteSuccess(count))
	if onSuccess != nil {
		onSuccess(ctx)
	}
	return nil
}

// BatchDeleteSelected runs HandleBatchDelete on the current selection and
// reloads on success.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) BatchDeleteSelected(ctx context.Context) error {
	return o.HandleBatchDelete(ctx, o.SelectedIDs(), o.reload)
}

// confirm treats a failing prompt as a decline.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) confirm(ctx context.Context, op string, c notify.Confirmation) bool {
	ok, err := o.confirmer.Confirm(ctx, c)
	if err != nil {
		o.opLog(op).WithError(err).Warn("confirmation failed")
		ok = false
	}
	if !ok {
		o.metrics.record(o.cfg.Name, op, resultDeclined)
	}
	return ok
}
