package commands

import (
	"context"
	"fmt"

	"github.com/chyk-ink/gestures-helper/window"
)

// NotifyWindowRequest carries the identity of the newly focused window
type NotifyWindowRequest struct {
	Title string `json:"title"`
	Class string `json:"class"`
	Name  string `json:"name"`
}

// NotifyWindowCommand replaces the active window record
func NotifyWindowCommand(ctx context.Context, req NotifyWindowRequest) *CommandResponse {
	r, err := requireRouter()
	if err != nil {
		return NewErrorResponse(err)
	}

	info := window.Info{Title: req.Title, Class: req.Class, Name: req.Name}
	if err := r.NotifyActiveWindow(ctx, info); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to update active window: %w", err))
	}

	return NewSuccessResponse(info)
}

// GetWindowCommand returns the last reported active window
func GetWindowCommand(ctx context.Context) *CommandResponse {
	r, err := requireRouter()
	if err != nil {
		return NewErrorResponse(err)
	}

	info, err := r.ActiveWindow(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to get active window: %w", err))
	}

	return NewSuccessResponse(info)
}
