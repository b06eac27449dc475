package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/crudkit/pkg/eventbus"
)

func TestConsoleNotifier(t *testing.T) {
	color.NoColor = true

	buf := &bytes.Buffer{}
	n := NewConsoleNotifier(buf)
	n.Success("新增成功")
	n.Error("删除失败")
	n.Warning("请先选择要删除的数据")

	require.Equal(t, "✓ 新增成功\n✗ 删除失败\n! 请先选择要删除的数据\n", buf.String())
}

func TestPromptConfirmer(t *testing.T) {
	color.NoColor = true

	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tc := range cases {
		out := &bytes.Buffer{}
		p := NewPromptConfirmer(strings.NewReader(tc.input), out)
		got, err := p.Confirm(context.Background(), Confirmation{
			Title:        "删除确认",
			Content:      `确定要删除 "R&D" 吗？此操作不可撤销。`,
			PositiveText: "确定删除",
			NegativeText: "取消",
		})
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "input %q", tc.input)
		require.Contains(t, out.String(), "删除确认")
		require.Contains(t, out.String(), "[y] 确定删除 / [N] 取消")
	}
}

func TestPromptConfirmerHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := NewPromptConfirmer(strings.NewReader("y\n"), &bytes.Buffer{}).Confirm(ctx, Confirmation{})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ok)
}

func TestBusNotifier(t *testing.T) {
	t.Parallel()

	bus := eventbus.New(nil)
	var got []Notification
	bus.Subscribe(func(n *Notification) { got = append(got, *n) })

	n := NewBusNotifier(bus)
	n.Success("ok")
	n.Warning("careful")
	n.Error("broken")

	require.Equal(t, []Notification{
		{Level: LevelSuccess, Message: "ok"},
		{Level: LevelWarning, Message: "careful"},
		{Level: LevelError, Message: "broken"},
	}, got)
}

func TestLogNotifierAndMulti(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)

	bus := eventbus.New(nil)
	count := 0
	bus.Subscribe(func(*Notification) { count++ })

	n := Multi(NewLogNotifier(log), NewBusNotifier(bus), Nop())
	n.Error("更新失败")
	n.Success("更新成功")

	require.Equal(t, 2, count)
	require.Contains(t, buf.String(), "更新失败")
	require.Contains(t, buf.String(), "component=notify")
}

func TestStaticConfirmer(t *testing.T) {
	t.Parallel()

	ok, err := StaticConfirmer(true).Confirm(context.Background(), Confirmation{})
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = StaticConfirmer(false).Confirm(context.Background(), Confirmation{})
	require.False(t, ok)
}
