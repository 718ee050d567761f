package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bnfm/core/service"
	"bnfm/logger"
)

var pollOnce bool

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll the station for the currently playing track",
	Long:  `Runs the acquire/compare/persist/notify cycle on a fixed interval, or once with --once for cron-style scheduling.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := setup()

		deps, err := buildTrackService(cfg)
		if err != nil {
			logger.Fatal("startup failed", logger.ErrorField(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if pollOnce {
			if err := deps.svc.Poll(ctx); err != nil {
				logger.Error("poll cycle failed", logger.ErrorField(err))
				os.Exit(1)
			}
			return
		}

		service.NewPoller(deps.svc, time.Duration(cfg.PollInterval)*time.Second).Run(ctx)
	},
}

func init() {
	pollCmd.Flags().BoolVar(&pollOnce, "once", false, "run a single poll cycle and exit")
	rootCmd.AddCommand(pollCmd)
}
