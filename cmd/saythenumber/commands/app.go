package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"saythenumber/cache"
	"saythenumber/client"
	"saythenumber/config"
	"saythenumber/history"
	"saythenumber/metrics"
	"saythenumber/orchestrator"
	"saythenumber/shared/kafka"
	"saythenumber/storage"
)

// app is the dependency graph shared by the commands
type app struct {
	orch      *orchestrator.Orchestrator
	recorder  *history.Recorder
	collector *metrics.Collector
	exporter  *history.Exporter

	logger  *zap.Logger
	cancel  context.CancelFunc
	closers []func() error
}

// drainTimeout bounds how long Close waits for a cancelled attempt to settle
const drainTimeout = 5 * time.Second

// buildApp assembles the orchestrator and its collaborators. Optional
// backends that fail to connect are logged and skipped. Attempts run under a
// child of ctx that Close cancels.
func buildApp(parent context.Context, cfg *config.Config, logger *zap.Logger) *app {
	ctx, cancel := context.WithCancel(parent)

	opts := cfg.ClientOptions()
	opts.Logger = logger.Named("client")
	var converter orchestrator.Converter = client.NewConversionClient(cfg.APIURL, opts)

	a := &app{
		logger:    logger,
		cancel:    cancel,
		recorder:  history.NewRecorder(cfg.HistorySize),
		collector: metrics.NewCollector(),
	}

	if cfg.Redis.Addr != "" {
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			logger.Warn("⚠️  Redis unavailable, answers will not be cached", zap.Error(err))
		} else {
			converter = cache.NewCachingConverter(converter, store, logger.Named("cache"))
			a.closers = append(a.closers, store.Close)
			logger.Info("✅ Answer cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	observers := []orchestrator.Observer{a.recorder, a.collector}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Logger:  logger.Named("kafka"),
		})
		if err != nil {
			logger.Warn("⚠️  Kafka unavailable, attempts will not be published", zap.Error(err))
		} else {
			observers = append(observers, publisher)
			a.closers = append(a.closers, publisher.Close)
		}
	}

	if cfg.S3.Bucket != "" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:       cfg.S3.Region,
			Profile:      cfg.S3.Profile,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			logger.Warn("⚠️  S3 unavailable, history export disabled", zap.Error(err))
		} else {
			a.exporter = history.NewExporter(s3, cfg.S3.Bucket, cfg.S3.Prefix)
		}
	}

	a.orch = orchestrator.New(converter,
		orchestrator.WithMaxDigits(cfg.MaxDigits),
		orchestrator.WithLogger(logger.Named("orchestrator")),
		orchestrator.WithObservers(observers...),
		orchestrator.WithBaseContext(ctx),
	)
	return a
}

// Close cancels the in-flight attempt and waits for its observers to run,
// then releases optional backends in reverse order.
func (a *app) Close() error {
	a.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := a.orch.Wait(ctx); err != nil {
		a.logger.Warn("Closing backends before the attempt settled", zap.Error(err))
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
