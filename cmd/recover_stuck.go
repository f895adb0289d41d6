package main

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var olderThan time.Duration

var recoverStuckCmd = &cobra.Command{
	Use:   "recover-stuck",
	Short: "Mark topics stuck in processing as failed",
	Long: `recover-stuck moves every topic whose generation has been processing for
longer than --older-than to failed, so its owner can retry.

Without --older-than the generation.stuck_after setting is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer application.Close()

		threshold := olderThan
		if threshold == 0 {
			threshold = application.Cfg.Generation.StuckAfter
		}
		n, err := application.Services.NoteLifecycle.RecoverStuck(cmd.Context(), threshold)
		if err != nil {
			return err
		}
		out := color.New(color.FgGreen)
		if n > 0 {
			out = color.New(color.FgYellow, color.Bold)
		}
		out.Fprintf(cmd.OutOrStdout(), "recovered %d topics\n", n)
		return nil
	},
}

func init() {
	recoverStuckCmd.Flags().DurationVar(&olderThan, "older-than", 0, "age after which a processing topic counts as stuck (e.g. 30m)")
	rootCmd.AddCommand(recoverStuckCmd)
}
