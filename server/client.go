package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chyk-ink/gestures-helper/desktop"
	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/gesture"
	"github.com/chyk-ink/gestures-helper/window"
)

// Client talks to a running helper over the session bus
type Client struct {
	bus desktop.Bus
}

func NewClient(bus desktop.Bus) *Client {
	return &Client{bus: bus}
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	return c.bus.Call(ctx, ServiceName, ObjectPath, Interface+"."+method, args...)
}

// Running reports whether some process owns ServiceName
func (c *Client) Running(ctx context.Context) (bool, error) {
	names, err := c.bus.ListNames(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == ServiceName {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) NotifyActiveWindow(ctx context.Context, info window.Info) error {
	_, err := c.call(ctx, "NotifyActiveWindow", info.Title, info.Class, info.Name)
	return err
}

func (c *Client) ActiveWindow(ctx context.Context) (window.Info, error) {
	body, err := c.call(ctx, "GetActiveWindow")
	if err != nil {
		return window.Info{}, err
	}

	if len(body) != 3 {
		return window.Info{}, fmt.Errorf("GetActiveWindow returned %d values, expected 3", len(body))
	}

	var fields [3]string
	for i, v := range body {
		s, ok := v.(string)
		if !ok {
			return window.Info{}, fmt.Errorf("GetActiveWindow returned %T at position %d, expected string", v, i)
		}
		fields[i] = s
	}

	return window.Info{Title: fields[0], Class: fields[1], Name: fields[2]}, nil
}

// InvokeGesture asks the service to dispatch code. The service only reports
// success or failure, so the result carries the gesture but no outcome.
func (c *Client) InvokeGesture(ctx context.Context, code uint8) (dispatch.Result, error) {
	result := dispatch.Result{Code: code}
	if g, err := gesture.FromCode(code); err == nil {
		result.Gesture = g.String()
	}

	_, err := c.call(ctx, "InvokeGesture", code)
	if err != nil {
		if name, ok := desktop.ErrorName(err); ok && name == ErrNameUnknownGesture {
			return result, &gesture.UnknownGestureError{Code: int(code)}
		}
		return result, err
	}

	return result, nil
}

func (c *Client) History(ctx context.Context, limit int) ([]dispatch.Result, error) {
	if limit < 0 {
		limit = 0
	}

	body, err := c.call(ctx, "History", uint32(limit))
	if err != nil {
		return nil, err
	}
	if len(body) != 1 {
		return nil, fmt.Errorf("History returned %d values, expected 1", len(body))
	}
	data, ok := body[0].(string)
	if !ok {
		return nil, fmt.Errorf("History returned %T, expected string", body[0])
	}

	var results []dispatch.Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return results, nil
}

// Quit asks the running service to shut down
func (c *Client) Quit(ctx context.Context) error {
	_, err := c.call(ctx, "Quit")
	return err
}
