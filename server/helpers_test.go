package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/chyk-ink/gestures-helper/commands"
	"github.com/chyk-ink/gestures-helper/desktop"
	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/window"
)

// recordingSinks stands in for KWin, Dolphin and ydotool
type recordingSinks struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *recordingSinks) add(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.err
}

func (s *recordingSinks) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *recordingSinks) InvokeShortcut(ctx context.Context, name string) error {
	return s.add("shortcut " + name)
}

func (s *recordingSinks) SwitchDesktop(ctx context.Context, dir dispatch.DesktopDirection) error {
	return s.add("desktop " + string(dir))
}

func (s *recordingSinks) ActivateAction(ctx context.Context, action string) (bool, error) {
	return true, s.add("app " + action)
}

func (s *recordingSinks) InjectKeys(ctx context.Context, events []dispatch.KeyEvent) error {
	return s.add("keys")
}

// setupRouter installs a LocalRouter backed by recording sinks
func setupRouter(t *testing.T) (*commands.LocalRouter, *recordingSinks) {
	t.Helper()

	sinks := &recordingSinks{}
	d, err := dispatch.New(window.NewContext(), dispatch.Sinks{
		Shortcuts:  sinks,
		Desktops:   sinks,
		AppActions: map[string]dispatch.AppActionInvoker{dispatch.FileManagerClass: sinks},
		Keys:       sinks,
	}, dispatch.Options{HistorySize: 16})
	require.NoError(t, err)

	router := commands.NewLocalRouter(d)
	previous := commands.GetRouter()
	commands.SetRouter(router)
	t.Cleanup(func() { commands.SetRouter(previous) })

	return router, sinks
}

// loopbackBus delivers client calls straight to a Service, converting
// returned *dbus.Error values the way the real bus would
type loopbackBus struct {
	svc   *Service
	names []string
}

func (b *loopbackBus) Call(ctx context.Context, dest, path, method string, args ...interface{}) ([]interface{}, error) {
	if dest != ServiceName || path != ObjectPath {
		return nil, desktop.Classify(dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"})
	}

	var (
		body    []interface{}
		dbusErr *dbus.Error
	)

	switch strings.TrimPrefix(method, Interface+".") {
	case "NotifyActiveWindow":
		dbusErr = b.svc.NotifyActiveWindow(args[0].(string), args[1].(string), args[2].(string))
	case "GetActiveWindow":
		var title, class, name string
		title, class, name, dbusErr = b.svc.GetActiveWindow()
		body = []interface{}{title, class, name}
	case "InvokeGesture":
		dbusErr = b.svc.InvokeGesture(args[0].(uint8))
	case "History":
		var data string
		data, dbusErr = b.svc.History(args[0].(uint32))
		body = []interface{}{data}
	case "Quit":
		dbusErr = b.svc.Quit()
	default:
		return nil, desktop.Classify(dbus.Error{Name: "org.freedesktop.DBus.Error.UnknownMethod"})
	}

	if dbusErr != nil {
		return nil, desktop.Classify(*dbusErr)
	}
	return body, nil
}

func (b *loopbackBus) ListNames(ctx context.Context) ([]string, error) {
	if b.names == nil {
		return nil, errors.New("not connected")
	}
	return b.names, nil
}
