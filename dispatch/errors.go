package dispatch

import (
	"errors"
	"fmt"
)

// Failure kinds reported by action sinks
var (
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrRemoteCall        = errors.New("remote call failed")
	ErrSubprocessSpawn   = errors.New("subprocess could not be spawned")
)

type sinkFault struct {
	kind error
	err  error
}

func (f *sinkFault) Error() string {
	return fmt.Sprintf("%v: %v", f.kind, f.err)
}

func (f *sinkFault) Unwrap() []error {
	return []error{f.kind, f.err}
}

// RemoteUnavailable marks err as "target service not running or unreachable"
func RemoteUnavailable(err error) error {
	return &sinkFault{kind: ErrRemoteUnavailable, err: err}
}

// RemoteCall marks err as "target service reachable but answered with an error"
func RemoteCall(err error) error {
	return &sinkFault{kind: ErrRemoteCall, err: err}
}

// SubprocessSpawn marks err as "helper process could not be launched"
func SubprocessSpawn(err error) error {
	return &sinkFault{kind: ErrSubprocessSpawn, err: err}
}

// KindOf returns the failure kind of a sink error. Unclassified errors are
// treated as failed remote calls.
func KindOf(err error) error {
	switch {
	case errors.Is(err, ErrRemoteUnavailable):
		return ErrRemoteUnavailable
	case errors.Is(err, ErrSubprocessSpawn):
		return ErrSubprocessSpawn
	default:
		return ErrRemoteCall
	}
}

// ActionSinkError is returned by Dispatch when the selected sink fails.
// errors.Is matches both the failure kind and the underlying cause.
type ActionSinkError struct {
	Sink   string
	Action Action
	Kind   error
	Err    error
}

func (e *ActionSinkError) Error() string {
	return fmt.Sprintf("%s sink: action %s failed: %v", e.Sink, e.Action, e.Err)
}

func (e *ActionSinkError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
