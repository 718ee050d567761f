package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bnfm/config"
	"bnfm/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bnfm",
	Short: "BN Mallorca now-playing service",
	Long:  `bnfm tracks what BN Mallorca Radio is playing: it polls the stream, enriches tracks with album art, keeps the play history and notifies subscribers.`,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging; every subcommand
// starts here.
func setup() *config.Config {
	cfg := config.Load()
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})
	return cfg
}
