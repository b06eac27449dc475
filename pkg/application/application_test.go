package application

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type stubController struct {
	key  string
	hits *int
}

func (c stubController) Key() string { return c.key }

func (c stubController) Register(r *mux.Router) {
	r.HandleFunc(c.key, func(http.ResponseWriter, *http.Request) { *c.hits++ })
}

type stubService struct{ name string }

type stubModule struct {
	name string
	err  error
}

func (m stubModule) Name() string { return m.name }

func (m stubModule) Register(app Application) error {
	if m.err != nil {
		return m.err
	}
	app.RegisterServices(&stubService{name: m.name})
	return nil
}

func TestControllersKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	var hits int
	app.RegisterControllers(stubController{"/b", &hits}, stubController{"/a", &hits})
	app.RegisterControllers(stubController{"/b", &hits})

	keys := make([]string, 0)
	for _, c := range app.Controllers() {
		keys = append(keys, c.Key())
	}
	require.Equal(t, []string{"/b", "/a"}, keys)
	require.NotNil(t, app.EventPublisher())
	require.NotNil(t, app.Logger())
}

func TestServiceRegistry(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	require.NoError(t, Load(app, stubModule{name: "dept"}))

	svc := app.Service(stubService{}).(*stubService)
	require.Equal(t, "dept", svc.name)
	require.Len(t, app.Services(), 1)
	require.Panics(t, func() { app.Service(struct{}{}) })
}

func TestLoadStopsOnFailure(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	boom := errors.New("boom")
	err := Load(app, stubModule{name: "user", err: boom}, stubModule{name: "dept"})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "user")
	require.Empty(t, app.Services())
}
