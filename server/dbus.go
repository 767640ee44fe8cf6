package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/chyk-ink/gestures-helper/commands"
	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/gesture"
	"github.com/chyk-ink/gestures-helper/utils"
	"github.com/chyk-ink/gestures-helper/window"
)

// D-Bus identity of the helper
const (
	ServiceName = commands.ServiceName
	ObjectPath  = "/ink/chyk/GesturesHelper"
	Interface   = "ink.chyk.GesturesHelper"

	ErrNameUnknownGesture = Interface + ".Error.UnknownGesture"
	ErrNameActionSink     = Interface + ".Error.ActionSink"
)

// Service is the object exported on the session bus. Every exported method
// is a D-Bus method of Interface.
type Service struct {
	router commands.Router
	quit   func()
}

func NewService(router commands.Router, quit func()) *Service {
	return &Service{router: router, quit: quit}
}

// NotifyActiveWindow is called by the KWin script on every focus change
func (s *Service) NotifyActiveWindow(title, class, name string) *dbus.Error {
	utils.Verbose("active window: title=%q class=%q name=%q", title, class, name)
	err := s.router.NotifyActiveWindow(context.Background(), window.Info{Title: title, Class: class, Name: name})
	if err != nil {
		return toDBusError(err)
	}
	return nil
}

func (s *Service) GetActiveWindow() (string, string, string, *dbus.Error) {
	info, err := s.router.ActiveWindow(context.Background())
	if err != nil {
		return "", "", "", toDBusError(err)
	}
	return info.Title, info.Class, info.Name, nil
}

// InvokeGesture is called by the gesture source with a gesture code
func (s *Service) InvokeGesture(code byte) *dbus.Error {
	if _, err := s.router.InvokeGesture(context.Background(), code); err != nil {
		return toDBusError(err)
	}
	return nil
}

// History returns the most recent dispatches as a JSON array
func (s *Service) History(limit uint32) (string, *dbus.Error) {
	results, err := s.router.History(context.Background(), int(limit))
	if err != nil {
		return "", toDBusError(err)
	}
	data, err := json.Marshal(results)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

// Quit stops the service after the reply has been sent
func (s *Service) Quit() *dbus.Error {
	utils.Info("quit requested over D-Bus")
	if s.quit != nil {
		go s.quit()
	}
	return nil
}

func toDBusError(err error) *dbus.Error {
	var sinkErr *dispatch.ActionSinkError
	switch {
	case errors.Is(err, gesture.ErrUnknownGesture):
		return dbus.NewError(ErrNameUnknownGesture, []interface{}{err.Error()})
	case errors.As(err, &sinkErr):
		return dbus.NewError(ErrNameActionSink, []interface{}{err.Error()})
	default:
		return dbus.MakeFailedError(err)
	}
}

// Introspection returns the introspection tree of the exported object
func Introspection(svc *Service) *introspect.Node {
	return &introspect.Node{
		Name: ObjectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: introspect.Methods(svc),
			},
		},
	}
}

// Export publishes svc on conn and claims ServiceName. The name is not
// queued for: a second instance fails instead of waiting.
func Export(conn *dbus.Conn, svc *Service) error {
	if err := conn.Export(svc, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export %s: %w", ObjectPath, err)
	}

	introspectable := introspect.NewIntrospectable(Introspection(svc))
	if err := conn.Export(introspectable, ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection data: %w", err)
	}

	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request name %s: %w", ServiceName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s is already owned, is another gestures-helper running?", ServiceName)
	}

	return nil
}

// busExporter is the part of *dbus.Conn that Unexport needs
type busExporter interface {
	Export(v interface{}, path dbus.ObjectPath, iface string) error
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

// Unexport removes the exported objects and releases the bus name. Every
// step is attempted; failures are joined.
func Unexport(conn busExporter) error {
	var errs []error

	for _, iface := range []string{Interface, "org.freedesktop.DBus.Introspectable"} {
		if err := conn.Export(nil, ObjectPath, iface); err != nil {
			errs = append(errs, fmt.Errorf("failed to unexport %s: %w", iface, err))
		}
	}

	if _, err := conn.ReleaseName(ServiceName); err != nil {
		errs = append(errs, fmt.Errorf("failed to release %s: %w", ServiceName, err))
	}

	return errors.Join(errs...)
}
