package main

import (
	"context"
	"log/slog"
	"time"

	availabilityapp "bookingengine/internal/app/handlers/availability"
	pricingapp "bookingengine/internal/app/handlers/pricing"
	searchapp "bookingengine/internal/app/handlers/search"
	"bookingengine/internal/app/middleware"
	appoutbox "bookingengine/internal/app/outbox"
	"bookingengine/internal/app/queries"
	"bookingengine/internal/app/uow"
	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/infra/broker/kafka"
	"bookingengine/internal/infra/config"
	mongodb "bookingengine/internal/infra/db/mongo"
	ginserver "bookingengine/internal/infra/http/gin"
	"bookingengine/internal/infra/obs"
	infraoutbox "bookingengine/internal/infra/outbox"
	"bookingengine/internal/infra/storage/memory"
)

type application struct {
	handlers   ginserver.Handlers
	uowFactory uow.UoWFactory
	worker     *infraoutbox.Worker
	ready      func(ctx context.Context) error
	closers    []func(ctx context.Context) error
}

type storage struct {
	factory uow.UoWFactory
	outbox  interface {
		appoutbox.Outbox
		infraoutbox.Source
	}
	ready  func(ctx context.Context) error
	closer func(ctx context.Context) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if store.closer != nil {
		app.closers = append(app.closers, store.closer)
	}
	app.uowFactory = store.factory
	app.ready = store.ready

	var producer infraoutbox.Producer = obs.LogPublisher{Logger: logger}
	if cfg.KafkaEnabled() {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig("bookingengine"))
		if err != nil {
			app.close(logger)
			return nil, err
		}
		producer = kp
		app.closers = append(app.closers, func(context.Context) error { return kp.Close() })
	}
	app.worker = &infraoutbox.Worker{
		Source:      store.outbox,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger.With("component", "outbox"),
	}

	policy := domainpricing.LoadPolicy(cfg.PricingPolicy, logger)
	encoder := appoutbox.JSONEventEncoder{Headers: map[string]string{"source": "bookingengine"}}

	bus := queries.NewInMemoryBus()
	queries.RegisterHandler(bus, availabilityapp.CheckAvailabilityKey, &availabilityapp.CheckAvailabilityHandler{
		UoWFactory: store.factory,
	})
	queries.RegisterHandler(bus, availabilityapp.GetOccupancyKey, &availabilityapp.GetOccupancyHandler{
		UoWFactory: store.factory,
	})
	queries.RegisterHandler(bus, pricingapp.QuoteStayKey, &pricingapp.QuoteStayHandler{
		UoWFactory:     store.factory,
		Policy:         &policy,
		Outbox:         store.outbox,
		Encoder:        encoder,
		RoundingPlaces: cfg.RoundingPlaces,
		Logger:         logger,
	})
	queries.RegisterHandler(bus, searchapp.SearchStaysKey, &searchapp.SearchStaysHandler{
		UoWFactory:     store.factory,
		Policy:         &policy,
		Concurrency:    cfg.SearchConcurrency,
		RoundingPlaces: cfg.RoundingPlaces,
		Now:            func() time.Time { return time.Now().UTC() },
	})

	queryBus := middleware.ChainQueries(
		bus,
		middleware.Logging(logger),
		middleware.Timeout(cfg.QueryTimeout),
	)
	app.handlers = ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Queries: queryBus},
		Pricing:      ginserver.PricingHandler{Queries: queryBus},
		Search:       ginserver.SearchHandler{Queries: queryBus},
	}
	return app, nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	if cfg.StorageMode != config.StorageMongo {
		logger.Info("using in-memory storage")
		return storage{factory: memory.NewStore(), outbox: memory.NewOutbox()}, nil
	}
	client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, err
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		_ = client.Close(ctx)
		return storage{}, err
	}
	box, err := infraoutbox.NewStore(ctx, client.DB)
	if err != nil {
		_ = client.Close(ctx)
		return storage{}, err
	}
	logger.Info("using mongo storage", "db", cfg.MongoDB)
	return storage{
		factory: mongodb.NewFactory(client.DB),
		outbox:  box,
		ready:   client.Ping,
		closer:  client.Close,
	}, nil
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
