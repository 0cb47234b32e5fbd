package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/aashikantkumar/cheifidea/config"
	httpapi "github.com/aashikantkumar/cheifidea/internal/api/http"
	"github.com/aashikantkumar/cheifidea/internal/auth"
	"github.com/aashikantkumar/cheifidea/internal/logger"
	"github.com/aashikantkumar/cheifidea/internal/media"
	"github.com/aashikantkumar/cheifidea/internal/service"
	"github.com/aashikantkumar/cheifidea/internal/storage"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveMigrate bool
	serveConsume bool
)

// cheifidea serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := boot("cheifidea-api")
		if err != nil {
			return err
		}
		defer a.Close()
		cfg := a.cfg
		log := logger.FromContext(ctx)

		if serveMigrate {
			if err := a.migrate(ctx); err != nil {
				return err
			}
		}

		uploader, err := media.New(ctx, cfg.Media, cfg.PublicBaseURL)
		if err != nil {
			return err
		}

		var publisher service.EventPublisher
		var worker *service.Consumer
		if cfg.Kafka.Broker != "" {
			writer := config.NewKafkaWriter(cfg.Kafka)
			defer writer.Close()
			publisher = storage.NewKafkaPublisher(writer)
			if serveConsume {
				reader := config.NewKafkaReader(cfg.Kafka)
				defer reader.Close()
				worker = a.consumer(reader)
			}
			log.Info().Str("broker", cfg.Kafka.Broker).Str("topic", cfg.Kafka.Topic).Msg("publishing events to kafka")
		} else {
			publisher = a.consumer(nil)
			log.Info().Msg("no kafka broker configured, applying events inline")
		}

		tokens := auth.NewIssuer(cfg.Auth)
		aggregator := a.aggregator()
		handler := httpapi.NewHandler(httpapi.Services{
			Accounts:  service.NewAccountService(a.store, a.store.Unit(), tokens),
			Users:     service.NewUserService(a.store, uploader),
			Chefs:     service.NewChefService(a.store, a.store.Unit(), uploader),
			Catalog:   service.NewCatalogService(a.store),
			Bookings:  service.NewBookingService(a.store, a.store.Unit(), service.NewPricingPolicy(cfg.Pricing), service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}, publisher),
			Reviews:   service.NewReviewService(a.store, aggregator, a.reviewCache(), publisher),
			Admin:     service.NewAdminService(a.store),
			Analytics: service.NewAnalyticsService(a.analyticsCache(), a.store, a.store),
		}, tokens, cfg.IsProduction())

		opts := httpapi.RouterOptions{CORSOrigins: cfg.CORSOrigins}
		if cfg.Media.Driver == "local" {
			opts.UploadDir = cfg.Media.UploadDir
		}
		router := httpapi.NewRouter(handler, opts)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return httpapi.StartServer(gctx, cfg.HTTPAddr, router)
		})
		if worker != nil {
			g.Go(func() error {
				worker.Start(gctx)
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Ensure the schema or indexes before serving")
	serveCmd.Flags().BoolVar(&serveConsume, "consume", false, "Also run the event consumer when a Kafka broker is configured")
}
