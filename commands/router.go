package commands

import (
	"context"

	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/window"
)

// LocalRouter serves commands from the in-process dispatcher
type LocalRouter struct {
	dispatcher *dispatch.Dispatcher
}

func NewLocalRouter(d *dispatch.Dispatcher) *LocalRouter {
	return &LocalRouter{dispatcher: d}
}

func (r *LocalRouter) NotifyActiveWindow(ctx context.Context, info window.Info) error {
	r.dispatcher.Windows().Update(info.Title, info.Class, info.Name)
	return nil
}

func (r *LocalRouter) ActiveWindow(ctx context.Context) (window.Info, error) {
	return r.dispatcher.Windows().Snapshot(), nil
}

func (r *LocalRouter) InvokeGesture(ctx context.Context, code uint8) (dispatch.Result, error) {
	return r.dispatcher.Dispatch(ctx, code)
}

func (r *LocalRouter) History(ctx context.Context, limit int) ([]dispatch.Result, error) {
	history := r.dispatcher.History()
	if history == nil {
		return []dispatch.Result{}, nil
	}
	return history.Recent(limit), nil
}
