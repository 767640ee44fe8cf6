package dispatch

import (
	"github.com/chyk-ink/gestures-helper/gesture"
	"github.com/chyk-ink/gestures-helper/window"
)

// window classes with per-application overrides
const (
	MessagingAppClass = "org.telegram.desktop"
	FileManagerClass  = "org.kde.dolphin"
)

// global shortcut names registered by KWin
const (
	ShortcutOverviewOpposite = "Cycle Overview Opposite"
	ShortcutOverview         = "Cycle Overview"
	ShortcutZoomOut          = "view_zoom_out"
	ShortcutZoomIn           = "view_zoom_in"
)

// file manager actions
const (
	FileManagerBack    = "go_back"
	FileManagerForward = "go_forward"
)

// evdev key code for Escape
const keyEscape = 1

// Resolve maps a gesture and the focused window to at most one action.
// The second return value is false when the gesture has no mapping.
func Resolve(g gesture.Gesture, w window.Info) (Action, bool) {
	switch g {
	case gesture.ThreeSwipeUp:
		return InvokeShortcut{Name: ShortcutOverviewOpposite}, true

	case gesture.ThreeSwipeDown:
		return InvokeShortcut{Name: ShortcutOverview}, true

	case gesture.ThreeSwipeRight:
		switch w.Class {
		case MessagingAppClass:
			return InjectKey{Key: "Escape", Events: KeyPress(keyEscape)}, true
		case FileManagerClass:
			return AppAction{Service: FileManagerClass, Action: FileManagerBack}, true
		}
		return SwitchDesktop{Direction: PreviousDesktop}, true

	case gesture.FourSwipeRight:
		return SwitchDesktop{Direction: PreviousDesktop}, true

	case gesture.ThreeSwipeLeft:
		if w.Class == FileManagerClass {
			return AppAction{Service: FileManagerClass, Action: FileManagerForward}, true
		}
		return SwitchDesktop{Direction: NextDesktop}, true

	case gesture.FourSwipeLeft:
		return SwitchDesktop{Direction: NextDesktop}, true

	case gesture.ThreePinchIn:
		return InvokeShortcut{Name: ShortcutZoomOut}, true

	case gesture.ThreePinchOut:
		return InvokeShortcut{Name: ShortcutZoomIn}, true

	case gesture.FourSwipeUp, gesture.FourSwipeDown,
		gesture.TwoPinchIn, gesture.TwoPinchOut,
		gesture.FourPinchIn, gesture.FourPinchOut:
		return nil, false
	}

	return nil, false
}
