package eventbus

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type created struct {
	Name string
}

type deleted struct {
	ID string
}

func TestPublishWithoutSubscribersWarns(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.WarnLevel)

	bus := New(log)
	bus.Subscribe(func(e *created) { t.Error("should not be called") })
	bus.Publish(&deleted{ID: "1"})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublishDeliversByType(t *testing.T) {
	t.Parallel()

	bus := New(nil)
	var names []string
	bus.Subscribe(func(e *created) { names = append(names, e.Name) })
	bus.Subscribe(func(ctx context.Context, e *created) { names = append(names, "ctx:"+e.Name) })

	bus.Publish(&created{Name: "R&D"})
	bus.Publish(context.Background(), &created{Name: "Sales"})

	require.Equal(t, []string{"R&D", "ctx:Sales"}, names)
}

func TestPublishSurvivesPanics(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)

	bus := New(log)
	called := false
	bus.Subscribe(func(*created) { panic("boom") })
	bus.Subscribe(func(*created) { called = true })
	bus.Publish(&created{})

	require.True(t, called)
	require.Contains(t, buf.String(), "panicked: boom")
}

func TestPublishE(t *testing.T) {
	t.Parallel()

	bus := New(nil)
	require.ErrorIs(t, bus.PublishE(&created{}), ErrNoSubscribers)

	failure := errors.New("write failed")
	bus.Subscribe(func(*created) error { return failure })
	bus.Subscribe(func(*created) error { return nil })
	bus.Subscribe(func(*created) (int, error) { return 0, nil })

	err := bus.PublishE(&created{})
	require.ErrorIs(t, err, failure)
	require.ErrorIs(t, err, ErrInvalidHandlerReturn)
}

func TestSubscribeRejectsNonFunctions(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { New(nil).Subscribe("nope") })
}

func TestUnsubscribeAndClear(t *testing.T) {
	t.Parallel()

	bus := New(nil)
	h := func(*created) {}
	bus.Subscribe(h)
	bus.Subscribe(func(*deleted) {})
	require.Equal(t, 2, bus.SubscribersCount())

	bus.Unsubscribe(h)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Clear()
	require.Zero(t, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler any
		args    []any
		want    bool
	}{
		{"exact", func(*created) {}, []any{&created{}}, true},
		{"other type", func(*created) {}, []any{&deleted{}}, false},
		{"too few", func(*created) {}, nil, false},
		{"too many", func(*created) {}, []any{&created{}, &created{}}, false},
		{"interface param", func(context.Context) {}, []any{context.Background()}, true},
		{"nil pointer", func(*created) {}, []any{nil}, true},
		{"nil value", func(int) {}, []any{nil}, false},
		{"not a func", 42, []any{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, MatchSignature(tc.handler, tc.args))
		})
	}
}
