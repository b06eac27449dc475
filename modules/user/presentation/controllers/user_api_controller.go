package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/form"
	"github.com/gorilla/mux"

	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/modules/user/presentation/mappers"
	"github.com/iota-uz/crudkit/modules/user/presentation/viewmodels"
	"github.com/iota-uz/crudkit/modules/user/services"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/composables"
	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/httpapi"
	"github.com/iota-uz/crudkit/pkg/middleware"
	"github.com/iota-uz/crudkit/pkg/serrors"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type UserAPIController struct {
	app      application.Application
	users    *services.UserService
	decoder  *form.Decoder
	basePath string
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

func NewUserAPIController(app application.Application) application.Controller {
	return &UserAPIController{
		app:      app,
		users:    app.Service(services.UserService{}).(*services.UserService),
		decoder:  form.NewDecoder(),
		basePath: "/user",
	}
}

func (c *UserAPIController) Key() string {
	return c.basePath
}

func (c *UserAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/page", c.Page).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Detail).Methods(http.MethodGet)

	tx := middleware.WithTransaction()
	router.Handle("", tx(http.HandlerFunc(c.Create))).Methods(http.MethodPost)
	router.Handle("", tx(http.HandlerFunc(c.Update))).Methods(http.MethodPut)
	router.Handle("", tx(http.HandlerFunc(c.BatchDelete))).Methods(http.MethodDelete)
	router.Handle("/{id:[0-9]+}", tx(http.HandlerFunc(c.Delete))).Methods(http.MethodDelete)
}

func (c *UserAPIController) Page(w http.ResponseWriter, r *http.Request) {
	var q viewmodels.PageQuery
	if err := c.decoder.Decode(&q, r.URL.Query()); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "USER_INVALID_QUERY", "invalid query", nil)
		return
	}
	if q.PageNum < 1 {
		q.PageNum = 1
	}
	switch {
	case q.PageSize < 1:
		q.PageSize = defaultPageSize
	case q.PageSize > maxPageSize:
		q.PageSize = maxPageSize
	}

	params := mappers.QueryToFindParams(q.Query)
	params.Limit = q.PageSize
	params.Offset = (q.PageNum - 1) * q.PageSize
	users, total, err := c.users.GetPaginated(r.Context(), params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	records := make([]viewmodels.User, 0, len(users))
	for _, u := range users {
		records = append(records, mappers.UserToViewModel(u))
	}
	_ = httpapi.WriteData(w, http.StatusOK, crud.PageResult[viewmodels.User]{Records: records, Total: int(total)})
}

func (c *UserAPIController) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := c.users.GetByID(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, mappers.UserToDetail(u))
}

func (c *UserAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto user.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeInvalidJSON, "invalid json", nil)
		return
	}
	created, err := c.users.Create(r.Context(), &dto)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusCreated, mappers.UserToDetail(created))
}

func (c *UserAPIController) Update(w http.ResponseWriter, r *http.Request) {
	var dto user.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeInvalidJSON, "invalid json", nil)
		return
	}
	updated, err := c.users.Update(r.Context(), &dto)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, mappers.UserToDetail(updated))
}

func (c *UserAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.users.Delete(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *UserAPIController) BatchDelete(w http.ResponseWriter, r *http.Request) {
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
	if err := c.users.DeleteMany(r.Context(), ids); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *UserAPIController) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		composables.UseLogger(r.Context(), c.app.Logger()).WithError(err).Error("user request failed")
	}
	_ = httpapi.WriteServiceError(w, status, err)
}

func statusFor(err error) int {
	var verrs serrors.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, user.ErrDeptNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "USER_INVALID_ID", "invalid id", nil)
		return 0, false
	}
	return id, true
}
