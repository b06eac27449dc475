package restclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/form"
	"github.com/pkg/errors"

	"github.com/iota-uz/crudkit/pkg/crud"
)

// BatchDeleteRequest is the body of DELETE on an entity base path.
type BatchDeleteRequest struct {
	IDs []crud.ID `json:"ids"`
}

// Entity binds the REST endpoints under basePath:
//
//	GET    /page    paginated list
//	GET    /tree    whole tree
//	GET    /{id}    detail
//	POST   /        create
//	PUT    /        update
//	DELETE /{id}    delete
//	DELETE /        batch delete
//
// Query structs are encoded with their form tags.
type Entity[TItem, TQuery, TCreate, TUpdate, TDetail any] struct {
	client   *Client
	basePath string
	encoder  *form.Encoder
}

func NewEntity[TItem, TQuery, TCreate, TUpdate, TDetail any](c *Client, basePath string) *Entity[TItem, TQuery, TCreate, TUpdate, TDetail] {
	return &Entity[TItem, TQuery, TCreate, TUpdate, TDetail]{
		client:   c,
		basePath: basePath,
		encoder:  form.NewEncoder(),
	}
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) encode(q TQuery) (url.Values, error) {
	values, err := e.encoder.Encode(q)
	if err != nil {
		return nil, errors.Wrap(err, "encode query")
	}
	if values == nil {
		values = url.Values{}
	}
	return values, nil
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) Page(ctx context.Context, q crud.PageQuery[TQuery]) (crud.PageResult[TItem], error) {
	values, err := e.encode(q.Search)
	if err != nil {
		return crud.PageResult[TItem]{}, err
	}
	values.Set("pageNum", strconv.Itoa(q.PageNum))
	values.Set("pageSize", strconv.Itoa(q.PageSize))

	var out crud.PageResult[TItem]
	if err := e.client.Do(ctx, http.MethodGet, e.basePath+"/page", values, nil, &out); err != nil {
		return crud.PageResult[TItem]{}, err
	}
	return out, nil
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) Tree(ctx context.Context, q TQuery) ([]TItem, error) {
	values, err := e.encode(q)
	if err != nil {
		return nil, err
	}
	var out []TItem
	if err := e.client.Do(ctx, http.MethodGet, e.basePath+"/tree", values, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) Detail(ctx context.Context, id crud.ID) (TDetail, error) {
	var out TDetail
	if err := e.client.Do(ctx, http.MethodGet, e.basePath+"/"+url.PathEscape(string(id)), nil, nil, &out); err != nil {
		var zero TDetail
		return zero, err
	}
	return out, nil
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) Create(ctx context.Context, payload TCreate) error {
	return e.client.Do(ctx, http.MethodPost, e.basePath, nil, payload, nil)
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) Update(ctx context.Context, payload TUpdate) error {
	return e.client.Do(ctx, http.MethodPut, e.basePath, nil, payload, nil)
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) Delete(ctx context.Context, id crud.ID) error {
	return e.client.Do(ctx, http.MethodDelete, e.basePath+"/"+url.PathEscape(string(id)), nil, nil, nil)
}

func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) BatchDelete(ctx context.Context, ids []crud.ID) error {
	return e.client.Do(ctx, http.MethodDelete, e.basePath, nil, BatchDeleteRequest{IDs: ids}, nil)
}

// API returns the orchestrator binding. Page is left out for tree screens and
// Tree for list screens so the orchestrator mode decides what is fetched.
func (e *Entity[TItem, TQuery, TCreate, TUpdate, TDetail]) API(mode crud.Mode) crud.API[TItem, TQuery, TCreate, TUpdate, TDetail] {
	api := crud.API[TItem, TQuery, TCreate, TUpdate, TDetail]{
		Detail:      e.Detail,
		Create:      e.Create,
		Update:      e.Update,
		Delete:      e.Delete,
		BatchDelete: e.BatchDelete,
	}
	switch mode {
	case crud.ModeTree:
		api.Tree = e.Tree
	default:
		api.Page = e.Page
	}
	return api
}
