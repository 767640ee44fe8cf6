package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chyk-ink/gestures-helper/commands"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent dispatches",
	Long:  `Prints the most recent gesture dispatches of the running service, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context) *commands.CommandResponse {
			return commands.HistoryCommand(ctx, commands.HistoryRequest{Limit: historyLimit})
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show, 0 for all")
}
