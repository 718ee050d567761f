package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bnfm/core/art"
	"bnfm/db"
	"bnfm/logger"
	"bnfm/queue"
	"bnfm/repository"
	"bnfm/storage"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the album-art cache-population worker",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := setup()

		rdb, err := db.ConnectRedis(cfg)
		if err != nil {
			logger.Fatal("connecting Redis", logger.ErrorField(err))
		}

		store, err := storage.NewMinioStore(cfg)
		if err != nil {
			logger.Fatal("connecting MinIO", logger.ErrorField(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pop := art.NewPopulator(repository.NewRedisAlbumArtRepository(rdb), store)
		art.NewWorker(queue.NewRedisQueue(rdb, art.QueueKey), pop).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
