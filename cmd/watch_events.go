package main

import (
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	types "github.com/yungbote/studynotes-backend/internal/domain"
)

var watchEventsCmd = &cobra.Command{
	Use:   "watch-events",
	Short: "Print topic status events from Redis as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := newApp(ctx, nil)
		if err != nil {
			return err
		}
		defer application.Close()

		if application.Cfg.Redis.Addr == "" {
			return errors.New("redis.addr is not configured; nothing to watch")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		if err := application.Clients.TopicEvents.StartForwarder(ctx, func(evt types.TopicStatusEvent) {
			_ = enc.Encode(evt)
		}); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchEventsCmd)
}
