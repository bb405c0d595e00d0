package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"stockrating/clients/fred"
	kafka_client "stockrating/clients/kafka"
	mongo_client "stockrating/clients/mongo"
	rabbitmq_client "stockrating/clients/rabbitmq"
	"stockrating/clients/screener"
	"stockrating/clients/yahoo"
	"stockrating/config"
	"stockrating/services"
)

func setupLogger(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func setupSentry(cfg *config.Config) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Environment,
		EnableTracing:    true,
		TracesSampleRate: cfg.Sentry.SampleRate,
	}); err != nil {
		zap.L().Error("Sentry initialization failed: ", zap.Any("error", err.Error()))
	}
}

// setupServices wires the provider sources and event publishers named in
// cfg into the package level services. Optional backends that fail to
// connect are logged and skipped. The returned func releases connections.
func setupServices(ctx context.Context, cfg *config.Config) func() {
	var closers []func()

	var macro services.MacroSource
	if cfg.Fred.APIKey != "" {
		macro = fred.NewClient(cfg.Fred.APIKey,
			fred.WithBaseURL(cfg.Fred.BaseURL),
			fred.WithTimeout(cfg.Fred.Timeout),
			fred.WithRateLimit(cfg.Fred.RateLimit))
	} else {
		zap.L().Warn("FRED_API_KEY not set, economic climate analysis will score 0")
	}

	var supplements []services.SupplementSource
	if cfg.Screener.URL != "" {
		supplements = append(supplements, screener.NewClient(cfg.Screener.URL))
	}

	var cache services.SnapshotCache
	if cfg.Mongo.URI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := mongo_client.Connect(connectCtx, cfg.Mongo.URI)
		if err == nil {
			var snapshots *mongo_client.SnapshotCache
			snapshots, err = mongo_client.NewSnapshotCache(connectCtx, client, cfg.Mongo.Database, cfg.Mongo.Collection, cfg.Mongo.TTL)
			if err == nil {
				cache = snapshots
			}
			closers = append(closers, func() {
				if err := client.Disconnect(context.Background()); err != nil {
					zap.L().Error("Error disconnecting from MongoDB", zap.Error(err))
				}
			})
		}
		cancel()
		if err != nil {
			zap.L().Error("Snapshot cache disabled", zap.Error(err))
		}
	}

	services.MetricsService = services.NewMetricsService(yahoo.NewClient(cfg.Yahoo.RateLimit), macro, cache, supplements...)

	var publishers []services.EventPublisher
	if cfg.Kafka.BootstrapServers != "" {
		producer, err := kafka_client.NewProducer(cfg.Kafka.BootstrapServers, cfg.Kafka.Topic)
		if err != nil {
			zap.L().Error("Kafka publisher disabled", zap.Error(err))
		} else {
			publishers = append(publishers, producer)
			closers = append(closers, producer.Close)
		}
	}
	if cfg.RabbitMQ.Server != "" {
		publisher, err := rabbitmq_client.Dial(cfg.RabbitMQ.Server, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Pass, cfg.RabbitMQ.Queue)
		if err != nil {
			zap.L().Error("RabbitMQ publisher disabled", zap.Error(err))
		} else {
			publishers = append(publishers, publisher)
			closers = append(closers, publisher.Close)
		}
	}
	services.EventService = services.NewEventService(publishers...)

	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
