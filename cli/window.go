package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chyk-ink/gestures-helper/commands"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Active window commands",
	Long:  `Inspect or override the active window record held by the running service.`,
}

var windowGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the active window",
	Long:  `Prints the title, class and name last reported by the KWin script.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context) *commands.CommandResponse {
			return commands.GetWindowCommand(ctx)
		})
	},
}

var windowNotifyCmd = &cobra.Command{
	Use:   "notify <title> <class> <name>",
	Short: "Report a focus change",
	Long:  `Replaces the active window record, the same way the KWin script does on focus change.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context) *commands.CommandResponse {
			return commands.NotifyWindowCommand(ctx, commands.NotifyWindowRequest{
				Title: args[0],
				Class: args[1],
				Name:  args[2],
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)

	windowCmd.AddCommand(windowGetCmd)
	windowCmd.AddCommand(windowNotifyCmd)
}
