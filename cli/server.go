package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chyk-ink/gestures-helper/config"
	"github.com/chyk-ink/gestures-helper/daemon"
	"github.com/chyk-ink/gestures-helper/desktop"
	"github.com/chyk-ink/gestures-helper/server"
	"github.com/chyk-ink/gestures-helper/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the gestures-helper service.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gestures-helper service",
	Long: `Claims ink.chyk.GesturesHelper on the session bus and serves gesture and
focus notifications. With --listen, JSON-RPC is also served over HTTP (/rpc)
and WebSocket (/ws).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// GetBool/GetString cannot fail for defined flags
		if cmd.Flags().Changed("listen") {
			cfg.HTTP.Listen, _ = cmd.Flags().GetString("listen")
		}
		if cmd.Flags().Changed("cors") {
			cfg.HTTP.CORS, _ = cmd.Flags().GetBool("cors")
		}
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		if cfg.HTTP.Listen != "" {
			addr, err := utils.NormalizeListenAddr(cfg.HTTP.Listen)
			if err != nil {
				return err
			}
			cfg.HTTP.Listen = addr
		}

		if isDaemon && !daemon.IsChild() {
			if err := checkListenAddr(cfg.HTTP.Listen); err != nil {
				return err
			}

			_, err := daemon.Daemonize(cfg.Daemon.LogFile)
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, registering %s on the session bus\n", server.ServiceName)
			return nil
		}

		utils.Verbose("%s", cfg)
		return server.StartServer(cfg, shutdownHook)
	},
}

// checkListenAddr fails early when the JSON-RPC port is taken, since the
// daemon child could only report it in its log
func checkListenAddr(addr string) error {
	if addr == "" {
		return nil
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port %q", portStr)
	}
	if host == "localhost" {
		host = "127.0.0.1"
	}

	if !utils.IsPortAvailable(host, port) {
		return fmt.Errorf("port %d is not available on %s", port, host)
	}
	return nil
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the running gestures-helper service",
	Long:  `Calls the Quit method of ink.chyk.GesturesHelper on the session bus.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := desktop.NewSessionBus()
		if err != nil {
			return err
		}
		defer bus.Close()

		if err := daemon.KillServer(bus); err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Also serve JSON-RPC on this address (e.g., 'localhost:12000' or '12000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support for the JSON-RPC listener")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
}
