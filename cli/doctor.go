package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chyk-ink/gestures-helper/commands"
	"github.com/chyk-ink/gestures-helper/config"
	"github.com/chyk-ink/gestures-helper/desktop"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Long:  `Checks the session bus, KWin, kglobalaccel, Dolphin and ydotool for better troubleshooting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		req := commands.DoctorRequest{
			Version: GetVersion(),
			Ydotool: desktop.NewYdotool(cfg.Ydotool.Path),
		}

		bus, err := desktop.NewSessionBus()
		if err != nil {
			req.BusError = err
		} else {
			defer bus.Close()
			req.Bus = bus
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return printResponse(commands.DoctorCommand(ctx, req))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  `Prints the configuration after applying the config file and GESTURES_HELPER_* environment variables.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Println(cfg.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}
