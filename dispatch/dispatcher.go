// Package dispatch turns a gesture code plus the focused window into exactly
// one desktop action and hands it to the matching sink.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chyk-ink/gestures-helper/gesture"
	"github.com/chyk-ink/gestures-helper/utils"
	"github.com/chyk-ink/gestures-helper/window"
)

// ShortcutInvoker triggers window manager global shortcuts
type ShortcutInvoker interface {
	InvokeShortcut(ctx context.Context, name string) error
}

// DesktopSwitcher moves between virtual desktops
type DesktopSwitcher interface {
	SwitchDesktop(ctx context.Context, dir DesktopDirection) error
}

// AppActionInvoker runs a named action on the focused instance of an
// application. It reports false when no instance is focused.
type AppActionInvoker interface {
	ActivateAction(ctx context.Context, action string) (bool, error)
}

// KeyInjector synthesizes key events
type KeyInjector interface {
	InjectKeys(ctx context.Context, events []KeyEvent) error
}

// Sinks groups the outbound adapters. AppActions is keyed by the service
// name used in AppAction.Service.
type Sinks struct {
	Shortcuts  ShortcutInvoker
	Desktops   DesktopSwitcher
	AppActions map[string]AppActionInvoker
	Keys       KeyInjector
}

// Options tunes how sinks are called
type Options struct {
	// CallTimeout bounds a single sink invocation, zero disables it
	CallTimeout time.Duration
	// Retries is how many extra attempts are made when the target service
	// is unavailable
	Retries       int
	RetryInterval time.Duration
	// HistorySize is the number of recent dispatches kept, zero disables it
	HistorySize int
}

// Result describes the outcome of a single dispatch
type Result struct {
	ID        string      `json:"id"`
	Code      uint8       `json:"code"`
	Gesture   string      `json:"gesture"`
	Window    window.Info `json:"window"`
	Action    string      `json:"action,omitempty"`
	Performed bool        `json:"performed"`
	Error     string      `json:"error,omitempty"`
	Time      time.Time   `json:"time"`
	Duration  string      `json:"duration"`
}

// Dispatcher routes gestures to sinks. It is safe for concurrent use.
type Dispatcher struct {
	windows *window.Context
	sinks   Sinks
	opts    Options
	history *History
}

func New(windows *window.Context, sinks Sinks, opts Options) (*Dispatcher, error) {
	if windows == nil {
		return nil, fmt.Errorf("window context is required")
	}
	if opts.Retries < 0 {
		return nil, fmt.Errorf("retries must not be negative, got %d", opts.Retries)
	}

	d := &Dispatcher{
		windows: windows,
		sinks:   sinks,
		opts:    opts,
	}

	if opts.HistorySize > 0 {
		history, err := NewHistory(opts.HistorySize)
		if err != nil {
			return nil, err
		}
		d.history = history
	}

	return d, nil
}

// Windows returns the window context the dispatcher reads from
func (d *Dispatcher) Windows() *window.Context {
	return d.windows
}

// History returns the recent dispatch log, or nil when disabled
func (d *Dispatcher) History() *History {
	return d.history
}

// Dispatch validates code, resolves it against the focused window and runs
// at most one action. Unmapped gestures succeed without side effects.
func (d *Dispatcher) Dispatch(ctx context.Context, code uint8) (Result, error) {
	started := time.Now()
	result := Result{
		ID:   uuid.New().String(),
		Code: code,
		Time: started,
	}

	g, err := gesture.FromCode(code)
	if err != nil {
		utils.Warn("rejected gesture: %v", err)
		return result, err
	}
	result.Gesture = g.String()

	info := d.windows.Snapshot()
	result.Window = info

	log := utils.WithFields(logrus.Fields{
		"id":      result.ID,
		"gesture": g.String(),
		"class":   info.Class,
	})

	action, ok := Resolve(g, info)
	if !ok {
		log.Debug("gesture has no action")
		d.record(result, started)
		return result, nil
	}
	result.Action = action.String()

	performed, err := d.invoke(ctx, action)
	result.Performed = performed
	if err != nil {
		result.Error = err.Error()
		log.WithError(err).Warn("dispatch failed")
		d.record(result, started)
		return result, err
	}

	log.WithField("action", action.String()).Debugf("dispatched (performed=%v)", performed)
	d.record(result, started)
	return result, nil
}

func (d *Dispatcher) record(r Result, started time.Time) {
	r.Duration = time.Since(started).String()
	if d.history != nil {
		d.history.Add(r)
	}
}

// invoke calls the sink for action, retrying only while the target is
// unavailable and the retry budget lasts
func (d *Dispatcher) invoke(ctx context.Context, action Action) (bool, error) {
	var performed bool
	attempt := 0

	operation := func() error {
		attempt++
		callCtx := ctx
		if d.opts.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, d.opts.CallTimeout)
			defer cancel()
		}

		var err error
		performed, err = d.call(callCtx, action)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRemoteUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}

	// WithMaxRetries treats 0 as unlimited
	var base backoff.BackOff = &backoff.StopBackOff{}
	if d.opts.Retries > 0 {
		base = backoff.WithMaxRetries(backoff.NewConstantBackOff(d.opts.RetryInterval), uint64(d.opts.Retries))
	}
	policy := backoff.WithContext(base, ctx)

	notify := func(err error, wait time.Duration) {
		utils.Verbose("attempt %d of %s failed, retrying in %s: %v", attempt, action, wait, err)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return false, &ActionSinkError{
			Sink:   sinkName(action),
			Action: action,
			Kind:   KindOf(err),
			Err:    err,
		}
	}

	return performed, nil
}

func (d *Dispatcher) call(ctx context.Context, action Action) (bool, error) {
	switch a := action.(type) {
	case InvokeShortcut:
		if d.sinks.Shortcuts == nil {
			return false, RemoteUnavailable(errors.New("no shortcut sink configured"))
		}
		return true, d.sinks.Shortcuts.InvokeShortcut(ctx, a.Name)

	case SwitchDesktop:
		if d.sinks.Desktops == nil {
			return false, RemoteUnavailable(errors.New("no desktop sink configured"))
		}
		return true, d.sinks.Desktops.SwitchDesktop(ctx, a.Direction)

	case AppAction:
		sink, ok := d.sinks.AppActions[a.Service]
		if !ok || sink == nil {
			return false, RemoteUnavailable(fmt.Errorf("no action sink configured for %s", a.Service))
		}
		return sink.ActivateAction(ctx, a.Action)

	case InjectKey:
		if d.sinks.Keys == nil {
			return false, SubprocessSpawn(errors.New("no key injector configured"))
		}
		return true, d.sinks.Keys.InjectKeys(ctx, a.Events)
	}

	return false, fmt.Errorf("unsupported action %T", action)
}

func sinkName(action Action) string {
	switch a := action.(type) {
	case InvokeShortcut:
		return "shortcut"
	case SwitchDesktop:
		return "desktop"
	case AppAction:
		return a.Service
	case InjectKey:
		return "keyboard"
	}
	return "unknown"
}
