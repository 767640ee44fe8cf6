package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/window"
)

type recordingSinks struct {
	calls []string
}

func (s *recordingSinks) InvokeShortcut(ctx context.Context, name string) error {
	s.calls = append(s.calls, "shortcut "+name)
	return nil
}

func (s *recordingSinks) SwitchDesktop(ctx context.Context, dir dispatch.DesktopDirection) error {
	s.calls = append(s.calls, "desktop "+string(dir))
	return nil
}

func (s *recordingSinks) InjectKeys(ctx context.Context, events []dispatch.KeyEvent) error {
	s.calls = append(s.calls, "keys")
	return nil
}

func setupLocalRouter(t *testing.T) *recordingSinks {
	t.Helper()
	sinks := &recordingSinks{}
	d, err := dispatch.New(window.NewContext(), dispatch.Sinks{
		Shortcuts: sinks,
		Desktops:  sinks,
		Keys:      sinks,
	}, dispatch.Options{HistorySize: 8})
	require.NoError(t, err)

	previous := GetRouter()
	SetRouter(NewLocalRouter(d))
	t.Cleanup(func() { SetRouter(previous) })
	return sinks
}

type failingRouter struct{}

func (failingRouter) NotifyActiveWindow(ctx context.Context, info window.Info) error {
	return errors.New("bus gone")
}

func (failingRouter) ActiveWindow(ctx context.Context) (window.Info, error) {
	return window.Info{}, errors.New("bus gone")
}

func (failingRouter) InvokeGesture(ctx context.Context, code uint8) (dispatch.Result, error) {
	return dispatch.Result{}, errors.New("bus gone")
}

func (failingRouter) History(ctx context.Context, limit int) ([]dispatch.Result, error) {
	return nil, errors.New("bus gone")
}

func TestCommands_NoRouter(t *testing.T) {
	previous := GetRouter()
	SetRouter(nil)
	t.Cleanup(func() { SetRouter(previous) })

	ctx := context.Background()
	for _, resp := range []*CommandResponse{
		GetWindowCommand(ctx),
		NotifyWindowCommand(ctx, NotifyWindowRequest{Class: "x"}),
		InvokeGestureCommand(ctx, InvokeGestureRequest{Gesture: "0"}),
		HistoryCommand(ctx, HistoryRequest{}),
	} {
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Error, "not available")
	}
}

func TestWindowCommands(t *testing.T) {
	setupLocalRouter(t)
	ctx := context.Background()

	resp := GetWindowCommand(ctx)
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, window.Info{}, resp.Data)

	resp = NotifyWindowCommand(ctx, NotifyWindowRequest{Title: "Chat", Class: "org.telegram.desktop", Name: "telegram-desktop"})
	require.Equal(t, "ok", resp.Status)

	resp = GetWindowCommand(ctx)
	assert.Equal(t, window.Info{Title: "Chat", Class: "org.telegram.desktop", Name: "telegram-desktop"}, resp.Data)
}

func TestInvokeGestureCommand(t *testing.T) {
	sinks := setupLocalRouter(t)
	ctx := context.Background()

	resp := InvokeGestureCommand(ctx, InvokeGestureRequest{Gesture: "3-pinch-out"})
	require.Equal(t, "ok", resp.Status, resp.Error)
	result := resp.Data.(dispatch.Result)
	assert.Equal(t, uint8(11), result.Code)
	assert.True(t, result.Performed)

	resp = InvokeGestureCommand(ctx, InvokeGestureRequest{Gesture: "0"})
	require.Equal(t, "ok", resp.Status)

	assert.Equal(t, []string{"shortcut view_zoom_in", "shortcut Cycle Overview Opposite"}, sinks.calls)
}

func TestInvokeGestureCommand_Invalid(t *testing.T) {
	sinks := setupLocalRouter(t)
	ctx := context.Background()

	tests := []struct {
		gesture string
		errMsg  string
	}{
		{"", "gesture is required"},
		{"14", "unknown gesture"},
		{"5-swipe-up", "unknown gesture"},
	}

	for _, tt := range tests {
		resp := InvokeGestureCommand(ctx, InvokeGestureRequest{Gesture: tt.gesture})
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Error, tt.errMsg)
	}
	assert.Empty(t, sinks.calls)
}

func TestInvokeGestureCommand_SinkFailure(t *testing.T) {
	previous := GetRouter()
	SetRouter(failingRouter{})
	t.Cleanup(func() { SetRouter(previous) })

	resp := InvokeGestureCommand(context.Background(), InvokeGestureRequest{Gesture: "3-swipe-up"})
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "failed to invoke 3-swipe-up: bus gone")
}

func TestHistoryCommand(t *testing.T) {
	setupLocalRouter(t)
	ctx := context.Background()

	for _, g := range []string{"0", "1", "10"} {
		require.Equal(t, "ok", InvokeGestureCommand(ctx, InvokeGestureRequest{Gesture: g}).Status)
	}

	resp := HistoryCommand(ctx, HistoryRequest{Limit: 2})
	require.Equal(t, "ok", resp.Status)
	results := resp.Data.([]dispatch.Result)
	require.Len(t, results, 2)
	assert.Equal(t, "3-pinch-in", results[0].Gesture)
	assert.Equal(t, "3-swipe-down", results[1].Gesture)

	resp = HistoryCommand(ctx, HistoryRequest{Limit: -1})
	assert.Equal(t, "error", resp.Status)
}

func TestListGesturesCommand(t *testing.T) {
	resp := ListGesturesCommand()
	require.Equal(t, "ok", resp.Status)

	gestures := resp.Data.([]GestureInfo)
	require.Len(t, gestures, 14)

	byName := map[string]GestureInfo{}
	for _, g := range gestures {
		byName[g.Name] = g
	}

	right := byName["3-swipe-right"]
	assert.Equal(t, uint8(3), right.Code)
	assert.Equal(t, 3, right.Fingers)
	assert.Equal(t, "desktop:previous", right.Action)
	assert.Equal(t, "key:Escape[1:1 1:0]", right.Overrides["org.telegram.desktop"])
	assert.Equal(t, "app:org.kde.dolphin/go_back", right.Overrides["org.kde.dolphin"])

	left := byName["3-swipe-left"]
	assert.Len(t, left.Overrides, 1)

	assert.Empty(t, byName["4-swipe-up"].Action)
	assert.Empty(t, byName["4-swipe-up"].Overrides)
	assert.Equal(t, "shortcut:view_zoom_in", byName["3-pinch-out"].Action)
}
