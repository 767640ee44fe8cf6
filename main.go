package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chyk-ink/gestures-helper/cli"
	"github.com/chyk-ink/gestures-helper/daemon"
	"github.com/chyk-ink/gestures-helper/utils"
)

func main() {
	// cleanup registry shared with the server
	hooks := daemon.NewShutdownHook()
	cli.SetShutdownHook(hooks)

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case sig := <-sigChan:
		utils.Info("Received %s, shutting down", sig)
		if err := hooks.Shutdown(); err != nil {
			utils.Error("Cleanup failed: %v", err)
		}
		os.Exit(0)
	case err := <-done:
		if cleanupErr := hooks.Shutdown(); cleanupErr != nil {
			utils.Error("Cleanup failed: %v", cleanupErr)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
