package commands

import (
	"context"
	"fmt"

	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/window"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// Router is the running helper as seen by commands. Inside the service it is
// backed by the dispatcher itself, in the CLI by a D-Bus client talking to
// the service.
type Router interface {
	NotifyActiveWindow(ctx context.Context, info window.Info) error
	ActiveWindow(ctx context.Context) (window.Info, error)
	InvokeGesture(ctx context.Context, code uint8) (dispatch.Result, error)
	History(ctx context.Context, limit int) ([]dispatch.Result, error)
}

// router is set once at startup via SetRouter
var router Router

// SetRouter installs the process-wide router.
// The service installs a LocalRouter before exporting any interface, the CLI
// installs a D-Bus client before running a command.
func SetRouter(r Router) {
	router = r
}

// GetRouter returns the current router.
// Returns nil if SetRouter has not been called yet.
func GetRouter() Router {
	return router
}

func requireRouter() (Router, error) {
	if router == nil {
		return nil, fmt.Errorf("gestures-helper service is not available")
	}
	return router, nil
}
