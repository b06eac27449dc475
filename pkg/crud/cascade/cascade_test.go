package cascade

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/crudkit/pkg/crud/form"
)

func TestLoadPassesModeAndSnapshot(t *testing.T) {
	t.Parallel()

	var gotMode form.Mode
	var gotID any
	current := form.Data{"deptId": 7}
	l := New(nil)
	l.Load(context.Background(), form.ModeUpdate, current, []form.Field{{
		Key: "parentId",
		Load: func(_ context.Context, mode form.Mode, data form.Data) ([]form.Option, error) {
			gotMode = mode
			gotID = data["deptId"]
			data["deptId"] = 99
			return []form.Option{{Label: "Root", Value: 1}}, nil
		},
	}})

	require.Equal(t, form.ModeUpdate, gotMode)
	require.Equal(t, 7, gotID)
	require.Equal(t, 7, current["deptId"], "loaders see a snapshot")

	opts, ok := l.Options("parentId")
	require.True(t, ok)
	require.Equal(t, []form.Option{{Label: "Root", Value: 1}}, opts)
}

func TestLoadRunsConcurrently(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	slow := func(context.Context, form.Mode, form.Data) ([]form.Option, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		return []form.Option{{Label: "x", Value: "x"}}, nil
	}

	l := New(nil)
	l.Load(context.Background(), form.ModeCreate, nil, []form.Field{
		{Key: "a", Load: slow},
		{Key: "b", Load: slow},
		{Key: "c", Load: slow},
	})

	require.Equal(t, int32(3), peak.Load())
	require.Len(t, l.Snapshot(), 3)
}

func TestFailingLoaderIsIsolated(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)

	l := New(log)
	l.Load(context.Background(), form.ModeCreate, form.Data{}, []form.Field{
		{Key: "broken", Load: func(context.Context, form.Mode, form.Data) ([]form.Option, error) {
			return nil, errors.New("backend down")
		}},
		{Key: "panicky", Load: func(context.Context, form.Mode, form.Data) ([]form.Option, error) {
			panic("nil map")
		}},
		{Key: "fine", Load: func(context.Context, form.Mode, form.Data) ([]form.Option, error) {
			return []form.Option{{Label: "ok", Value: 1}}, nil
		}},
		{Key: "static"},
	})

	broken, ok := l.Options("broken")
	require.True(t, ok)
	require.Empty(t, broken)
	require.NotNil(t, broken)

	panicky, ok := l.Options("panicky")
	require.True(t, ok)
	require.Empty(t, panicky)

	fine, _ := l.Options("fine")
	require.Len(t, fine, 1)

	_, ok = l.Options("static")
	require.False(t, ok)

	require.Contains(t, buf.String(), "backend down")
	require.Contains(t, buf.String(), "field=broken")
}

func TestReloadOverwritesPerField(t *testing.T) {
	t.Parallel()

	calls := 0
	field := form.Field{Key: "parentId", Load: func(context.Context, form.Mode, form.Data) ([]form.Option, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("gone")
		}
		return []form.Option{{Label: "Root", Value: 1}}, nil
	}}

	l := New(nil)
	l.Load(context.Background(), form.ModeCreate, nil, []form.Field{field})
	opts, _ := l.Options("parentId")
	require.Len(t, opts, 1)

	l.Load(context.Background(), form.ModeCreate, nil, []form.Field{field})
	opts, _ = l.Options("parentId")
	require.Empty(t, opts)
}
