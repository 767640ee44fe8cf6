package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chyk-ink/gestures-helper/commands"
)

var gestureCmd = &cobra.Command{
	Use:   "gesture",
	Short: "Gesture commands",
	Long:  `List the known gestures or send one to the running service.`,
}

var gestureInvokeCmd = &cobra.Command{
	Use:   "invoke <code|name>",
	Short: "Dispatch a gesture through the running service",
	Long: `Sends a gesture to the running service exactly as the gesture source would.
The gesture is given by code (0-13) or by name, e.g. "3-pinch-out".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context) *commands.CommandResponse {
			return commands.InvokeGestureCommand(ctx, commands.InvokeGestureRequest{Gesture: args[0]})
		})
	},
}

var gestureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List gestures and their actions",
	Long:  `Lists every gesture code with its default action and per-application overrides.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ListGesturesCommand())
	},
}

func init() {
	rootCmd.AddCommand(gestureCmd)

	gestureCmd.AddCommand(gestureInvokeCmd)
	gestureCmd.AddCommand(gestureListCmd)
}
