package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/chyk-ink/gestures-helper/commands"
	"github.com/chyk-ink/gestures-helper/utils"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP and the WebSocket transports
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"window_notify":    handleWindowNotify,
		"window_get":       handleWindowGet,
		"gesture_invoke":   handleGestureInvoke,
		"gestures_list":    handleGesturesList,
		"dispatch_history": handleDispatchHistory,
		"server.shutdown":  handleServerShutdown,
	}
}

// paramsError marks errors caused by the caller's params
type paramsError struct {
	err error
}

func (e *paramsError) Error() string {
	return e.err.Error()
}

func (e *paramsError) Unwrap() error {
	return e.err
}

func invalidParams(format string, args ...interface{}) error {
	return &paramsError{err: fmt.Errorf(format, args...)}
}

func errorCode(err error) (int, string) {
	var pe *paramsError
	if errors.As(err, &pe) {
		return ErrCodeInvalidParams, "Invalid params"
	}
	return ErrCodeServerError, "Server error"
}

func responseData(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

type WindowNotifyParams struct {
	Title string `json:"title"`
	Class string `json:"class"`
	Name  string `json:"name"`
}

func handleWindowNotify(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, invalidParams("'params' is required with fields: title, class, name")
	}

	var p WindowNotifyParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams("invalid parameters: %v. Expected fields: title, class, name", err)
	}

	response := commands.NotifyWindowCommand(ctx, commands.NotifyWindowRequest{
		Title: p.Title,
		Class: p.Class,
		Name:  p.Name,
	})
	if _, err := responseData(response); err != nil {
		return nil, err
	}

	return okResponse, nil
}

func handleWindowGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return responseData(commands.GetWindowCommand(ctx))
}

// GestureInvokeParams names the gesture either by name or by code
type GestureInvokeParams struct {
	Gesture string `json:"gesture,omitempty"`
	Code    *int   `json:"code,omitempty"`
}

func handleGestureInvoke(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, invalidParams("'params' is required with fields: gesture or code")
	}

	var p GestureInvokeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams("invalid parameters: %v. Expected fields: gesture or code", err)
	}

	name := p.Gesture
	if p.Code != nil {
		if name != "" {
			return nil, invalidParams("'gesture' and 'code' are mutually exclusive")
		}
		name = strconv.Itoa(*p.Code)
	}
	if name == "" {
		return nil, invalidParams("'gesture' or 'code' is required")
	}

	return responseData(commands.InvokeGestureCommand(ctx, commands.InvokeGestureRequest{Gesture: name}))
}

func handleGesturesList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return responseData(commands.ListGesturesCommand())
}

type DispatchHistoryParams struct {
	Limit int `json:"limit,omitempty"`
}

func handleDispatchHistory(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p DispatchHistoryParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, invalidParams("invalid parameters: %v. Expected fields: limit", err)
		}
	}

	return responseData(commands.HistoryCommand(ctx, commands.HistoryRequest{Limit: p.Limit}))
}

var (
	shutdownMu   sync.Mutex
	shutdownFunc func()
)

// setShutdownFunc installs what server.shutdown calls
func setShutdownFunc(fn func()) {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	shutdownFunc = fn
}

func handleServerShutdown(ctx context.Context, params json.RawMessage) (interface{}, error) {
	shutdownMu.Lock()
	fn := shutdownFunc
	shutdownMu.Unlock()

	if fn == nil {
		return nil, fmt.Errorf("shutdown is not available")
	}

	utils.Info("shutdown requested over JSON-RPC")
	// reply first, then stop
	go fn()
	return okResponse, nil
}
