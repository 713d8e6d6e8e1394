package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"vincit.fi/meme-generator/backend"
	"vincit.fi/meme-generator/common"
	"vincit.fi/meme-generator/common/logger"
)

const shutdownTimeout = 5 * time.Second

var configFile string

var rootCmd = &cobra.Command{
	Use:           "meme-generator",
	Short:         "Caption images and read the captions aloud",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML, TOML or JSON)")
	common.RegisterFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error.Printf("%s", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	params, err := common.LoadParams(cmd.Flags(), configFile)
	if err != nil {
		return err
	}
	logger.Initialize(logger.StringToLogLevel(params.LogLevel()))

	brokers := backend.InitializeEventBrokers(params.EventQueueSize())
	services, err := backend.InitializeServices(params, brokers)
	if err != nil {
		return err
	}
	defer services.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services.SpeechService.Start()
	services.Server.Start()

	<-ctx.Done()
	logger.Info.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return services.Server.Shutdown(shutdownCtx)
}
