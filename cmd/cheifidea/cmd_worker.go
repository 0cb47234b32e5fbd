package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/aashikantkumar/cheifidea/config"
	"github.com/aashikantkumar/cheifidea/internal/logger"

	"github.com/spf13/cobra"
)

// cheifidea worker
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume marketplace events and maintain ratings and rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := boot("cheifidea-worker")
		if err != nil {
			return err
		}
		defer a.Close()
		if a.cfg.Kafka.Broker == "" {
			return errors.New("worker: KAFKA_BROKER is not set")
		}

		reader := config.NewKafkaReader(a.cfg.Kafka)
		defer reader.Close()

		logger.FromContext(ctx).Info().
			Str("topic", a.cfg.Kafka.Topic).
			Str("group", a.cfg.Kafka.GroupID).
			Msg("worker started")
		a.consumer(reader).Start(ctx)
		return nil
	},
}
