package daemon

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chyk-ink/gestures-helper/utils"
)

// ShutdownHook runs cleanup functions when the helper exits, on SIGINT,
// SIGTERM or a normal return. Hooks run in reverse registration order, so
// a resource is released before the ones it was built on.
type ShutdownHook struct {
	mu    sync.Mutex
	hooks []namedHook
}

type namedHook struct {
	name string
	fn   func() error
}

func NewShutdownHook() *ShutdownHook {
	return &ShutdownHook{}
}

// Register adds a cleanup function. The name is used for logging and in
// the error returned by Shutdown.
func (s *ShutdownHook) Register(name string, cleanupFn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, namedHook{name: name, fn: cleanupFn})
	utils.Verbose("Registered shutdown hook: %s", name)
}

// Shutdown runs every registered hook once, even when some fail, and
// returns the joined failures. Later calls are no-ops until new hooks are
// registered.
func (s *ShutdownHook) Shutdown() error {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	if len(hooks) == 0 {
		return nil
	}

	utils.Verbose("Executing %d shutdown hook(s)", len(hooks))
	var errs []error

	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		utils.Verbose("Running shutdown hook: %s", hook.name)
		if err := hook.fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
			utils.Warn("Shutdown hook %s failed: %v", hook.name, err)
		}
	}

	return errors.Join(errs...)
}

// Count returns the number of pending hooks
func (s *ShutdownHook) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hooks)
}
