package commands

import (
	"context"
	"fmt"

	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/gesture"
	"github.com/chyk-ink/gestures-helper/window"
)

// InvokeGestureRequest names a gesture by code ("11") or by name ("3-pinch-out")
type InvokeGestureRequest struct {
	Gesture string `json:"gesture"`
}

// GestureInfo describes one gesture and what it does
type GestureInfo struct {
	Code      uint8             `json:"code"`
	Name      string            `json:"name"`
	Fingers   int               `json:"fingers"`
	Motion    gesture.Motion    `json:"motion"`
	Direction gesture.Direction `json:"direction"`
	Action    string            `json:"action,omitempty"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// window classes with their own mapping, listed by ListGesturesCommand
var overrideClasses = []string{dispatch.MessagingAppClass, dispatch.FileManagerClass}

// InvokeGestureCommand dispatches a gesture as if the gesture source had sent it
func InvokeGestureCommand(ctx context.Context, req InvokeGestureRequest) *CommandResponse {
	if req.Gesture == "" {
		return NewErrorResponse(fmt.Errorf("gesture is required"))
	}

	g, err := gesture.Parse(req.Gesture)
	if err != nil {
		return NewErrorResponse(err)
	}

	r, err := requireRouter()
	if err != nil {
		return NewErrorResponse(err)
	}

	result, err := r.InvokeGesture(ctx, g.Code())
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to invoke %s: %w", g, err))
	}

	return NewSuccessResponse(result)
}

// ListGesturesCommand lists every gesture with its default action and the
// per-application overrides
func ListGesturesCommand() *CommandResponse {
	all := gesture.All()
	gestures := make([]GestureInfo, 0, len(all))

	for _, g := range all {
		info := GestureInfo{
			Code:      g.Code(),
			Name:      g.String(),
			Fingers:   g.Fingers(),
			Motion:    g.Motion(),
			Direction: g.Direction(),
		}

		def, ok := dispatch.Resolve(g, window.Info{})
		if ok {
			info.Action = def.String()
		}

		for _, class := range overrideClasses {
			action, ok := dispatch.Resolve(g, window.Info{Class: class})
			if !ok || action.String() == info.Action {
				continue
			}
			if info.Overrides == nil {
				info.Overrides = map[string]string{}
			}
			info.Overrides[class] = action.String()
		}

		gestures = append(gestures, info)
	}

	return NewSuccessResponse(gestures)
}
