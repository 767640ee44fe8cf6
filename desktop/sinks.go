package desktop

import "github.com/chyk-ink/gestures-helper/dispatch"

// NewSinks wires the KDE Plasma adapters into a dispatch.Sinks
func NewSinks(bus Bus, ydotoolPath string) dispatch.Sinks {
	kwin := NewKWin(bus)
	return dispatch.Sinks{
		Shortcuts: kwin,
		Desktops:  kwin,
		AppActions: map[string]dispatch.AppActionInvoker{
			dispatch.FileManagerClass: NewDolphin(bus),
		},
		Keys: NewYdotool(ydotoolPath),
	}
}
