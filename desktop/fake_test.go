package desktop

import (
	"context"
	"strings"
	"sync"
)

type busCall struct {
	Dest   string
	Path   string
	Method string
	Args   []interface{}
}

// fakeBus answers calls from a table keyed by "dest method"
type fakeBus struct {
	mu       sync.Mutex
	calls    []busCall
	names    []string
	namesErr error
	replies  map[string][]interface{}
	errs     map[string]error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		replies: map[string][]interface{}{},
		errs:    map[string]error{},
	}
}

func (f *fakeBus) Call(ctx context.Context, dest, path, method string, args ...interface{}) ([]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, busCall{Dest: dest, Path: path, Method: method, Args: args})
	key := dest + " " + method
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.replies[key], nil
}

func (f *fakeBus) ListNames(ctx context.Context) ([]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	return f.names, nil
}

func (f *fakeBus) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		out = append(out, c.Dest+" "+c.Method[strings.LastIndex(c.Method, ".")+1:])
	}
	return out
}
