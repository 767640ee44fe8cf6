package desktop

import (
	"context"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/utils"
)

const DefaultYdotoolPath = "ydotool"

// Ydotool injects key events by launching the ydotool client. The process
// is not waited on by the caller; it is reaped in the background.
type Ydotool struct {
	path string
}

func NewYdotool(path string) *Ydotool {
	if path == "" {
		path = DefaultYdotoolPath
	}
	return &Ydotool{path: path}
}

func (y *Ydotool) Path() string {
	return y.path
}

// Args returns the ydotool command line for events, e.g. "key 1:1 1:0"
func (y *Ydotool) Args(events []dispatch.KeyEvent) []string {
	args := make([]string, 0, len(events)+1)
	args = append(args, "key")
	for _, e := range events {
		args = append(args, e.String())
	}
	return args
}

// InjectKeys starts a single ydotool process for all events so presses and
// releases keep their order
func (y *Ydotool) InjectKeys(ctx context.Context, events []dispatch.KeyEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return dispatch.SubprocessSpawn(err)
	}

	cmd := utils.DetachedCommand(y.path, y.Args(events)...)

	if err := cmd.Start(); err != nil {
		return dispatch.SubprocessSpawn(errors.Wrapf(err, "failed to start %s", y.path))
	}

	pid := cmd.Process.Pid
	utils.Verbose("started %s %v (pid %d)", y.path, cmd.Args[1:], pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			utils.Warn("%s (pid %d) exited: %v", y.path, pid, err)
		}
	}()

	return nil
}

// Available reports whether the ydotool binary can be found
func (y *Ydotool) Available() (string, error) {
	return exec.LookPath(y.path)
}
