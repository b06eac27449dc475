package crud

import (
	"context"
	"time"
)

// LoadDataList fetches the tree or the current page and replaces the rows.
// A missing API binding is returned as an error; fetch failures are notified
// and leave the previous rows in place. A response that arrives after a newer
// load was started is discarded.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) LoadDataList(ctx context.Context) error {
	const op = "load"

	fetch, err := o.fetcher()
	if err != nil {
		return err
	}

	q := PageQuery[TQuery]{}
	if o.pagination != nil {
		q.PageNum = o.pagination.Page()
		q.PageSize = o.pagination.PageSize()
	}

	o.mu.Lock()
	o.generation++
	gen := o.generation
	o.loading = true
	q.Search = o.query
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		if gen == o.generation {
			o.loading = false
		}
		o.mu.Unlock()
	}()

	started := time.Now()
	res, err := fetch(ctx, q)
	o.metrics.observe(o.cfg.Name, op, started)
	if err != nil {
		o.fail(op, o.msgs.LoadError, err)
		return nil
	}

	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		o.opLog(op).WithField("generation", gen).Debug("discarding stale load")
		o.metrics.record(o.cfg.Name, op, resultStale)
		return nil
	}
	o.items = res.Records
	o.total = res.Total
	o.selected = nil
	o.mu.Unlock()

	if o.pagination != nil {
		o.pagination.SetItemCount(res.Total)
	}
	if o.expander != nil && o.cfg.Tree.DefaultExpandAll {
		o.expander.ExpandAll()
	}
	o.metrics.record(o.cfg.Name, op, resultOK)
	return nil
}

func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) fetcher() (LoadFunc[TItem, TQuery], error) {
	if o.cfg.CustomLoad != nil {
		return o.cfg.CustomLoad, nil
	}
	switch o.cfg.Mode {
	case ModeTree:
		if o.cfg.API.Tree == nil {
			return nil, ErrMissingAPI.Withf("tree API is required for tree mode")
		}
		return func(ctx context.Context, q PageQuery[TQuery]) (PageResult[TItem], error) {
			nodes, err := o.cfg.API.Tree(ctx, q.Search)
			if err != nil {
				return PageResult[TItem]{}, err
			}
			// total counts top-level nodes only
			return PageResult[TItem]{Records: nodes, Total: len(nodes)}, nil
		}, nil
	default:
		if o.cfg.API.Page == nil {
			return nil, ErrMissingAPI.Withf("page API is required for list mode")
		}
		return o.cfg.API.Page, nil
	}
}

// ResetPaginationAndLoad moves to the first page and reloads, as after a new
// search.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) ResetPaginationAndLoad(ctx context.Context) error {
	if o.pagination != nil {
		o.pagination.Reset()
	}
	return o.LoadDataList(ctx)
}

// Search replaces the query and reloads from the first page.
func (o *Orchestrator[TItem, TQuery, TCreate, TUpdate, TDetail]) Search(ctx context.Context, q TQuery) error {
	o.SetQuery(q)
	return o.ResetPaginationAndLoad(ctx)
}
