package desktop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/window"
)

func TestNewSinks_RoutesThroughBus(t *testing.T) {
	bus := newFakeBus()
	bus.names = []string{"org.kde.dolphin-42"}
	bus.replies["org.kde.dolphin-42"+isActiveKey] = []interface{}{true}

	windows := window.NewContext()
	d, err := dispatch.New(windows, NewSinks(bus, "/nonexistent/ydotool"), dispatch.Options{})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = d.Dispatch(ctx, 11)
	require.NoError(t, err)

	_, err = d.Dispatch(ctx, 6)
	require.NoError(t, err)

	windows.Update("Home", "org.kde.dolphin", "dolphin")
	result, err := d.Dispatch(ctx, 3)
	require.NoError(t, err)
	assert.True(t, result.Performed)

	assert.Equal(t, []string{
		"org.kde.kglobalaccel invokeShortcut",
		"org.kde.KWin nextDesktop",
		"org.kde.dolphin-42 isActiveWindow",
		"org.kde.dolphin-42 activateAction",
	}, bus.methods())

	windows.Update("Chat", "org.telegram.desktop", "telegram-desktop")
	_, err = d.Dispatch(ctx, 3)
	assert.ErrorIs(t, err, dispatch.ErrSubprocessSpawn)
}
