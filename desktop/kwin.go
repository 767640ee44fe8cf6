package desktop

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/chyk-ink/gestures-helper/dispatch"
)

const (
	KGlobalAccelService  = "org.kde.kglobalaccel"
	kwinComponentPath    = "/component/kwin"
	invokeShortcutMethod = "org.kde.kglobalaccel.Component.invokeShortcut"

	KWinService   = "org.kde.KWin"
	kwinPath      = "/KWin"
	kwinInterface = "org.kde.KWin"
)

// KWin invokes global shortcuts and switches virtual desktops
type KWin struct {
	bus Bus
}

func NewKWin(bus Bus) *KWin {
	return &KWin{bus: bus}
}

func (k *KWin) InvokeShortcut(ctx context.Context, name string) error {
	_, err := k.bus.Call(ctx, KGlobalAccelService, kwinComponentPath, invokeShortcutMethod, name)
	if err != nil {
		return errors.Wrapf(err, "failed to invoke shortcut %q", name)
	}
	return nil
}

func (k *KWin) SwitchDesktop(ctx context.Context, dir dispatch.DesktopDirection) error {
	var method string
	switch dir {
	case dispatch.PreviousDesktop:
		method = "previousDesktop"
	case dispatch.NextDesktop:
		method = "nextDesktop"
	default:
		return dispatch.RemoteCall(fmt.Errorf("unknown desktop direction %q", dir))
	}

	_, err := k.bus.Call(ctx, KWinService, kwinPath, kwinInterface+"."+method)
	if err != nil {
		return errors.Wrapf(err, "failed to switch to %s desktop", dir)
	}
	return nil
}
