package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/form"
	"github.com/gorilla/mux"

	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	"github.com/iota-uz/crudkit/modules/dept/presentation/mappers"
	"github.com/iota-uz/crudkit/modules/dept/presentation/viewmodels"
	"github.com/iota-uz/crudkit/modules/dept/services"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/composables"
	"github.com/iota-uz/crudkit/pkg/httpapi"
	"github.com/iota-uz/crudkit/pkg/middleware"
	"github.com/iota-uz/crudkit/pkg/serrors"
)

type DeptAPIController struct {
	app      application.Application
	depts    *services.DeptService
	decoder  *form.Decoder
	basePath string
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

func NewDeptAPIController(app application.Application) application.Controller {
	return &DeptAPIController{
		app:      app,
		depts:    app.Service(services.DeptService{}).(*services.DeptService),
		decoder:  form.NewDecoder(),
		basePath: "/dept",
	}
}

func (c *DeptAPIController) Key() string {
	return c.basePath
}

func (c *DeptAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/tree", c.Tree).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Detail).Methods(http.MethodGet)

	tx := middleware.WithTransaction()
	router.Handle("", tx(http.HandlerFunc(c.Create))).Methods(http.MethodPost)
	router.Handle("", tx(http.HandlerFunc(c.Update))).Methods(http.MethodPut)
	router.Handle("", tx(http.HandlerFunc(c.BatchDelete))).Methods(http.MethodDelete)
	router.Handle("/{id:[0-9]+}", tx(http.HandlerFunc(c.Delete))).Methods(http.MethodDelete)
}

func (c *DeptAPIController) Tree(w http.ResponseWriter, r *http.Request) {
	var q viewmodels.Query
	if err := c.decoder.Decode(&q, r.URL.Query()); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "DEPT_INVALID_QUERY", "invalid query", nil)
		return
	}
	items, err := c.depts.List(r.Context(), q.Keywords)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, mappers.BuildTree(items))
}

func (c *DeptAPIController) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := c.depts.GetByID(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, mappers.DeptToDetail(d))
}

func (c *DeptAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto dept.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeInvalidJSON, "invalid json", nil)
		return
	}
	created, err := c.depts.Create(r.Context(), &dto)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusCreated, mappers.DeptToDetail(created))
}

func (c *DeptAPIController) Update(w http.ResponseWriter, r *http.Request) {
	var dto dept.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeInvalidJSON, "invalid json", nil)
		return
	}
	updated, err := c.depts.Update(r.Context(), &dto)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, mappers.DeptToDetail(updated))
}

func (c *DeptAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.depts.Delete(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *DeptAPIController) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeInvalidJSON, "invalid json", nil)
		return
	}
	if len(req.IDs) == 0 {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidation, "ids: required", map[string]string{"ids": "required"})
		return
	}
	ids := make([]int64, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, httpapi.CodeValidation, "ids: invalid id "+strconv.Quote(raw), map[string]string{"ids": "invalid"})
			return
		}
		ids = append(ids, id)
	}
	if err := c.depts.DeleteMany(r.Context(), ids); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *DeptAPIController) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		composables.UseLogger(r.Context(), c.app.Logger()).WithError(err).Error("dept request failed")
	}
	_ = httpapi.WriteServiceError(w, status, err)
}

func statusFor(err error) int {
	var verrs serrors.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dept.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dept.ErrParentNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dept.ErrParentCycle), errors.Is(err, dept.ErrHasChildren):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "DEPT_INVALID_ID", "invalid id", nil)
		return 0, false
	}
	return id, true
}
