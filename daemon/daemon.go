package daemon

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sevlyar/go-daemon"

	"github.com/chyk-ink/gestures-helper/desktop"
	"github.com/chyk-ink/gestures-helper/server"
)

const (
	// DaemonEnvVar is the environment variable that marks a daemon child process
	DaemonEnvVar = "GESTURES_HELPER_DAEMON_CHILD"

	killTimeout = 10 * time.Second
)

// Daemonize detaches the process and returns the child process handle
// If the returned process is nil, this is the child process
// If the returned process is non-nil, this is the parent process
func Daemonize(logFile string) (*os.Process, error) {
	// no PID file needed, the bus name already guarantees a single instance
	ctx := &daemon.Context{
		PidFileName: "",
		PidFilePerm: 0,
		LogFileName: logFile,
		LogFilePerm: 0640,
		WorkDir:     "/",
		Umask:       027,
		Args:        os.Args,
		Env:         append(os.Environ(), fmt.Sprintf("%s=1", DaemonEnvVar)),
	}

	child, err := ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}

	return child, nil
}

// IsChild returns true if this is the daemon child process
func IsChild() bool {
	return os.Getenv(DaemonEnvVar) == "1"
}

// KillServer asks the running helper to quit through its D-Bus interface
func KillServer(bus desktop.Bus) error {
	ctx, cancel := context.WithTimeout(context.Background(), killTimeout)
	defer cancel()

	client := server.NewClient(bus)

	running, err := client.Running(ctx)
	if err != nil {
		return fmt.Errorf("failed to query session bus: %w", err)
	}
	if !running {
		return fmt.Errorf("server is not running (%s has no owner)", server.ServiceName)
	}

	if err := client.Quit(ctx); err != nil {
		return fmt.Errorf("failed to send quit: %w", err)
	}

	return nil
}
