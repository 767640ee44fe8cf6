package dispatch

import (
	"fmt"
	"strings"
)

// Action is the single outbound effect chosen for a gesture. The set of
// implementations is closed: InvokeShortcut, SwitchDesktop, AppAction and
// InjectKey.
type Action interface {
	fmt.Stringer
	action()
}

// InvokeShortcut triggers a window manager global shortcut by name
type InvokeShortcut struct {
	Name string
}

// DesktopDirection selects the neighbouring virtual desktop
type DesktopDirection string

const (
	PreviousDesktop DesktopDirection = "previous"
	NextDesktop     DesktopDirection = "next"
)

// SwitchDesktop moves to the previous or next virtual desktop
type SwitchDesktop struct {
	Direction DesktopDirection
}

// AppAction invokes a named action on the focused instance of an application
type AppAction struct {
	Service string
	Action  string
}

// KeyEvent is a single evdev key transition
type KeyEvent struct {
	Code    int
	Pressed bool
}

// String renders the event in ydotool's "<code>:<state>" notation
func (k KeyEvent) String() string {
	state := 0
	if k.Pressed {
		state = 1
	}
	return fmt.Sprintf("%d:%d", k.Code, state)
}

// InjectKey synthesizes a sequence of key events
type InjectKey struct {
	Key    string
	Events []KeyEvent
}

func (InvokeShortcut) action() {}
func (SwitchDesktop) action()  {}
func (AppAction) action()      {}
func (InjectKey) action()      {}

func (a InvokeShortcut) String() string {
	return "shortcut:" + a.Name
}

func (a SwitchDesktop) String() string {
	return "desktop:" + string(a.Direction)
}

func (a AppAction) String() string {
	return "app:" + a.Service + "/" + a.Action
}

func (a InjectKey) String() string {
	events := make([]string, len(a.Events))
	for i, e := range a.Events {
		events[i] = e.String()
	}
	return fmt.Sprintf("key:%s[%s]", a.Key, strings.Join(events, " "))
}

// KeyPress returns the press and release events for a key code
func KeyPress(code int) []KeyEvent {
	return []KeyEvent{{Code: code, Pressed: true}, {Code: code, Pressed: false}}
}
