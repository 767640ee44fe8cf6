// Package desktop contains the action sinks that talk to the KDE Plasma
// session: KWin and kglobalaccel over D-Bus, Dolphin windows, and ydotool
// for synthetic key events.
package desktop

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/chyk-ink/gestures-helper/dispatch"
)

// Bus is the subset of the session bus the sinks need
type Bus interface {
	// Call invokes iface.method on dest at path and returns the reply body
	Call(ctx context.Context, dest, path, method string, args ...interface{}) ([]interface{}, error)
	// ListNames returns every name currently owned on the bus
	ListNames(ctx context.Context) ([]string, error)
}

// SessionBus is a Bus backed by a godbus connection
type SessionBus struct {
	conn *dbus.Conn
}

// NewSessionBus opens a private connection to the user's session bus
func NewSessionBus() (*SessionBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, dispatch.RemoteUnavailable(errors.Wrap(err, "failed to connect to session bus"))
	}
	return &SessionBus{conn: conn}, nil
}

// NewBus wraps an existing connection
func NewBus(conn *dbus.Conn) *SessionBus {
	return &SessionBus{conn: conn}
}

func (b *SessionBus) Conn() *dbus.Conn {
	return b.conn
}

func (b *SessionBus) Close() error {
	return b.conn.Close()
}

func (b *SessionBus) Call(ctx context.Context, dest, path, method string, args ...interface{}) ([]interface{}, error) {
	call := b.conn.Object(dest, dbus.ObjectPath(path)).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return nil, Classify(errors.Wrapf(call.Err, "call %s on %s%s", method, dest, path))
	}
	return call.Body, nil
}

func (b *SessionBus) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := b.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, Classify(errors.Wrap(err, "failed to list bus names"))
	}
	return names, nil
}

// D-Bus error names meaning the peer is not there to answer
var unavailableErrors = map[string]bool{
	"org.freedesktop.DBus.Error.ServiceUnknown": true,
	"org.freedesktop.DBus.Error.NameHasNoOwner": true,
	"org.freedesktop.DBus.Error.NoReply":        true,
	"org.freedesktop.DBus.Error.Disconnected":   true,
	"org.freedesktop.DBus.Error.Timeout":        true,
	"org.freedesktop.DBus.Error.TimedOut":       true,
	"org.freedesktop.DBus.Error.NoServer":       true,
}

// Classify tags err with a dispatch failure kind. Error replies naming a
// missing or silent peer are ErrRemoteUnavailable, other error replies are
// ErrRemoteCall, and anything that never produced a reply (closed
// connection, expired context) is ErrRemoteUnavailable.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, dispatch.ErrRemoteUnavailable) || errors.Is(err, dispatch.ErrRemoteCall) {
		return err
	}

	if name, ok := ErrorName(err); ok {
		if unavailableErrors[name] {
			return dispatch.RemoteUnavailable(err)
		}
		return dispatch.RemoteCall(err)
	}

	return dispatch.RemoteUnavailable(err)
}

// ErrorName returns the D-Bus error name carried by err, if any
func ErrorName(err error) (string, bool) {
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name, true
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Name, true
	}
	return "", false
}
