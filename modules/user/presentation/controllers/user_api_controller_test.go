package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	deptmodule "github.com/iota-uz/crudkit/modules/dept"
	"github.com/iota-uz/crudkit/modules/dept/domain/aggregates/dept"
	deptpersistence "github.com/iota-uz/crudkit/modules/dept/infrastructure/persistence"
	usermodule "github.com/iota-uz/crudkit/modules/user"
	"github.com/iota-uz/crudkit/modules/user/domain/aggregates/user"
	"github.com/iota-uz/crudkit/modules/user/infrastructure/persistence"
	"github.com/iota-uz/crudkit/modules/user/presentation/viewmodels"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/httpapi"
)

func ptr[T any](v T) *T { return &v }

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	depts := deptpersistence.NewMemoryDeptRepository(dept.Dept{ID: 1, Name: "R&D", Status: dept.StatusEnabled})
	seed := make([]user.User, 0, 12)
	for i := 1; i <= 12; i++ {
		seed = append(seed, user.User{
			ID: int64(i), Username: "user" + string(rune('a'+i-1)), Nickname: "User", Status: user.StatusEnabled,
			Gender: user.GenderMale, DeptID: ptr(int64(1)),
		})
	}
	users := persistence.NewMemoryUserRepository(depts, seed...)

	app := application.New(&application.ApplicationOptions{})
	require.NoError(t, application.Load(app,
		deptmodule.NewModule(&deptmodule.ModuleOptions{Repository: depts}),
		usermodule.NewModule(&usermodule.ModuleOptions{Repository: users}),
	))
	r := mux.NewRouter()
	for _, c := range app.Controllers() {
		c.Register(r)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Data
}

func TestPage(t *testing.T) {
	t.Parallel()

	h := newRouter(t)
	rec := do(t, h, http.MethodGet, "/user/page", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[crud.PageResult[viewmodels.User]](t, rec)
	require.Equal(t, 12, page.Total)
	require.Len(t, page.Records, 10)
	require.Equal(t, "R&D", page.Records[0].DeptName)

	rec = do(t, h, http.MethodGet, "/user/page?pageNum=2&pageSize=5&username=user", "")
	page = decodeData[crud.PageResult[viewmodels.User]](t, rec)
	require.Len(t, page.Records, 5)
	require.Equal(t, int64(6), page.Records[0].UserID)

	rec = do(t, h, http.MethodGet, "/user/page?username=userc", "")
	page = decodeData[crud.PageResult[viewmodels.User]](t, rec)
	require.Equal(t, 1, page.Total)

	rec = do(t, h, http.MethodGet, "/user/page?status=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUpdateDetail(t *testing.T) {
	t.Parallel()

	h := newRouter(t)
	rec := do(t, h, http.MethodPost, "/user", `{"username":"zoe","password":"secret1","nickname":"Zoe","status":1,"deptId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[viewmodels.UserDetail](t, rec)
	require.Equal(t, int64(13), created.UserID)
	require.Equal(t, 1, created.Gender)
	require.NotContains(t, rec.Body.String(), "secret1")

	rec = do(t, h, http.MethodPost, "/user", `{"username":"zoe","password":"secret1","nickname":"Zoe","status":1}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/user", `{"username":"zed","password":"secret1","nickname":"Zed","status":1,"deptId":9}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/user", `{"username":"z","status":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Contains(t, env.Meta, "username")

	rec = do(t, h, http.MethodPut, "/user", `{"userId":13,"nickname":"Zoey","status":0,"gender":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/user/13", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeData[viewmodels.UserDetail](t, rec)
	require.Equal(t, "Zoey", detail.Nickname)
	require.Equal(t, "zoe", detail.Username)
	require.Equal(t, 0, detail.Status)

	rec = do(t, h, http.MethodGet, "/user/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/user", `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	h := newRouter(t)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/user/1", "").Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/user/1", "").Code)

	require.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodDelete, "/user", `{"ids":[]}`).Code)
	require.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodDelete, "/user", `{"ids":["x"]}`).Code)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/user", `{"ids":["2","3"]}`).Code)

	page := decodeData[crud.PageResult[viewmodels.User]](t, do(t, h, http.MethodGet, "/user/page", ""))
	require.Equal(t, 9, page.Total)
}

func TestWrongMethodOnKnownPath(t *testing.T) {
	t.Parallel()

	h := newRouter(t)
	require.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPatch, "/user/page", "").Code)
	require.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/user/1", "{}").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/user/page", "").Code)
}
