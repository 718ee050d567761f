package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bnfm/logger"
	"bnfm/notify"
	"bnfm/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the track-history API and websocket notifications",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := setup()

		deps, err := buildTrackService(cfg)
		if err != nil {
			logger.Fatal("startup failed", logger.ErrorField(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hub := notify.NewHub()
		go hub.Run(ctx)
		go notify.NewRedisChannel(deps.rdb, notify.Topic).Relay(ctx, hub)

		srv := server.New(cfg, deps.svc, hub).HTTPServer()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown", logger.ErrorField(err))
			}
		}()

		logger.Info("server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
