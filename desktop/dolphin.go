package desktop

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/utils"
)

const (
	DolphinServicePrefix  = "org.kde.dolphin"
	dolphinMainWindowPath = "/dolphin/Dolphin_1"
	isActiveWindowMethod  = "org.kde.dolphin.MainWindow.isActiveWindow"
	activateActionMethod  = "org.kde.KMainWindow.activateAction"
)

// Dolphin runs KXMLGUI actions on the focused Dolphin window. Each running
// instance owns its own bus name starting with DolphinServicePrefix.
type Dolphin struct {
	bus Bus
}

func NewDolphin(bus Bus) *Dolphin {
	return &Dolphin{bus: bus}
}

// Instances returns the bus names of all running Dolphin processes
func (d *Dolphin) Instances(ctx context.Context) ([]string, error) {
	names, err := d.bus.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	var instances []string
	for _, name := range names {
		if strings.HasPrefix(name, DolphinServicePrefix) {
			instances = append(instances, name)
		}
	}
	return instances, nil
}

// ActivateAction triggers action on the first instance reporting an active
// window. It returns false without error when no instance is active.
func (d *Dolphin) ActivateAction(ctx context.Context, action string) (bool, error) {
	instances, err := d.Instances(ctx)
	if err != nil {
		return false, err
	}

	for _, name := range instances {
		active, err := d.isActive(ctx, name)
		if err != nil {
			// instance may be shutting down
			utils.Warn("skipping %s: %v", name, err)
			continue
		}
		if !active {
			continue
		}

		if _, err := d.bus.Call(ctx, name, dolphinMainWindowPath, activateActionMethod, action); err != nil {
			return false, errors.Wrapf(err, "failed to activate %q on %s", action, name)
		}
		utils.Verbose("activated %s on %s", action, name)
		return true, nil
	}

	return false, nil
}

func (d *Dolphin) isActive(ctx context.Context, name string) (bool, error) {
	body, err := d.bus.Call(ctx, name, dolphinMainWindowPath, isActiveWindowMethod)
	if err != nil {
		return false, err
	}
	if len(body) != 1 {
		return false, dispatch.RemoteCall(errors.Errorf("isActiveWindow returned %d values", len(body)))
	}
	active, ok := body[0].(bool)
	if !ok {
		return false, dispatch.RemoteCall(errors.Errorf("isActiveWindow returned %T, expected bool", body[0]))
	}
	return active, nil
}
