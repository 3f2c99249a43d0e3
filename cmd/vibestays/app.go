package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vibestays/internal/app/commands"
	leadapp "vibestays/internal/app/handlers/leads"
	listingapp "vibestays/internal/app/handlers/listings"
	reviewapp "vibestays/internal/app/handlers/reviews"
	"vibestays/internal/app/middleware"
	appoutbox "vibestays/internal/app/outbox"
	"vibestays/internal/app/policies"
	"vibestays/internal/app/queries"
	authsvc "vibestays/internal/app/services/auth"
	"vibestays/internal/app/uow"
	domainadmin "vibestays/internal/domain/admin"
	domainauth "vibestays/internal/domain/auth"
	"vibestays/internal/infra/broker/kafka"
	rediscache "vibestays/internal/infra/cache/redis"
	"vibestays/internal/infra/config"
	mongodb "vibestays/internal/infra/db/mongo"
	"vibestays/internal/infra/db/postgres"
	ginserver "vibestays/internal/infra/http/gin"
	"vibestays/internal/infra/inbox"
	"vibestays/internal/infra/obs"
	"vibestays/internal/infra/outbox"
	"vibestays/internal/infra/security"
	"vibestays/internal/infra/storage/memory"
	"vibestays/internal/infra/storage/s3"
)

const (
	clientID           = "vibestays-api"
	catalogCacheGroup  = "vibestays-catalog-cache"
	shutdownDrainLimit = 5 * time.Second
)

// storage is everything that depends on the selected driver.
type storage struct {
	factory     uow.UoWFactory
	box         appoutbox.Outbox
	queue       outbox.Queue
	idempotency middleware.IdempotencyStore
	admins      domainadmin.Repository
	sessions    domainauth.SessionStore
	inbox       kafka.Inbox
}

type application struct {
	cfg        config.Config
	logger     *slog.Logger
	handlers   ginserver.Handlers
	health     obs.HealthHandlers
	auth       *authsvc.Service
	manage     *listingapp.ManageListingsHandler
	worker     *outbox.Worker
	cache      *rediscache.CachedListingRepository
	inbox      kafka.Inbox
	background []func(ctx context.Context) error
	closers    []func(ctx context.Context) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *obs.Metrics) (_ *application, err error) {
	app := &application{
		cfg:    cfg,
		logger: logger,
		health: obs.HealthHandlers{Checks: map[string]obs.Check{}},
	}
	defer func() {
		if err != nil {
			app.close(logger)
		}
	}()

	envelope := outbox.Envelope{TopicPrefix: cfg.KafkaTopicPrefix}
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		if producer, err = kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig(clientID)); err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return producer.Close() })
	}

	var cacheClient rediscache.KeyValue
	if cfg.RedisAddr != "" {
		client, err := rediscache.NewClient(ctx, rediscache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		cacheClient = client
		app.closers = append(app.closers, func(context.Context) error { return client.Close() })
		app.health.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	var deliverer memory.Deliverer
	if producer != nil {
		deliverer = outbox.Relay{Producer: producer, Envelope: envelope, Observer: metrics}
	}
	store, err := app.openStorage(ctx, cfg, deliverer, cacheClient)
	if err != nil {
		return nil, err
	}
	app.inbox = store.inbox
	if producer != nil && store.queue != nil {
		app.worker = &outbox.Worker{
			Queue:    store.queue,
			Producer: producer,
			Envelope: envelope,
			Observer: metrics,
			Logger:   logger,
			Interval: cfg.OutboxPollInterval,
			Backoff:  cfg.RetryBackoff,
		}
		app.background = append(app.background, app.worker.Run)
	}
	if app.cache != nil && len(cfg.KafkaBrokers) > 0 {
		app.background = append(app.background, app.runCatalogConsumer)
	}

	var uploader listingapp.ImageUploader = s3.NoopUploader{}
	if cfg.S3Endpoint != "" {
		client, err := s3.NewClient(s3.Options{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicEndpoint,
		}, logger)
		if err != nil {
			return nil, err
		}
		uploader = client
		app.health.Checks["s3"] = client.Ping
	}

	enc := appoutbox.JSONEventEncoder{}
	factory := store.factory
	app.manage = &listingapp.ManageListingsHandler{UoWFactory: factory, Outbox: store.box, Encoder: enc, Logger: logger}

	cmdBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	listingapp.Register(cmdBus, queryBus,
		&listingapp.SearchCatalogHandler{UoWFactory: factory, Observer: metrics},
		&listingapp.FeaturedListingsHandler{UoWFactory: factory},
		&listingapp.GetListingHandler{UoWFactory: factory},
		&listingapp.AdminListListingsHandler{UoWFactory: factory},
		app.manage,
		&listingapp.UploadListingImageHandler{UoWFactory: factory, Uploader: uploader, Logger: logger},
	)
	reviewapp.Register(cmdBus, queryBus,
		&reviewapp.SubmitReviewHandler{UoWFactory: factory, Outbox: store.box, Encoder: enc, Logger: logger},
		&reviewapp.ListListingReviewsHandler{UoWFactory: factory},
		&reviewapp.AdminListReviewsHandler{UoWFactory: factory},
		&reviewapp.ModerationHandler{UoWFactory: factory, Outbox: store.box, Encoder: enc, Logger: logger},
	)
	leadapp.Register(cmdBus, queryBus,
		&leadapp.SubmitInquiryHandler{UoWFactory: factory, Outbox: store.box, Encoder: enc, Observer: metrics, Logger: logger},
		&leadapp.AdminListInquiriesHandler{UoWFactory: factory},
		&leadapp.MarkInquiryHandledHandler{UoWFactory: factory, Outbox: store.box, Encoder: enc, Logger: logger},
	)

	policy := policies.AdminPolicy{}
	cmds := middleware.ChainCommands(cmdBus,
		middleware.Instrument(metrics, logger),
		middleware.Authorization(policy),
		middleware.Idempotency(store.idempotency, nil),
		middleware.OutboxFlush(store.box),
		middleware.Transaction(factory),
	)
	qs := middleware.ChainQueries(queryBus,
		middleware.InstrumentQueries(metrics, logger),
		middleware.QueryAuthorization(policy),
	)

	app.auth = &authsvc.Service{
		Users:      store.admins,
		Sessions:   store.sessions,
		Passwords:  security.BcryptHasher{Cost: bcrypt.DefaultCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	app.handlers = ginserver.Handlers{
		Listing:        ginserver.ListingHandler{Commands: cmds, Queries: qs, Logger: logger},
		Inquiry:        ginserver.InquiryHandler{Commands: cmds, Logger: logger},
		Auth:           ginserver.AuthHandler{Service: app.auth, Logger: logger},
		Admin:          ginserver.AdminHandler{Commands: cmds, Queries: qs, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: app.auth, Logger: logger}.Handle,
		FormLimiter:    ginserver.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst),
		Metrics:        metrics.Handler(),
	}
	return app, nil
}

func (a *application) openStorage(ctx context.Context, cfg config.Config, deliverer memory.Deliverer, cache rediscache.KeyValue) (storage, error) {
	var (
		st  storage
		err error
	)
	switch cfg.StorageDriver {
	case config.DriverMongo:
		st, err = a.openMongo(ctx, cfg)
	case config.DriverPostgres:
		st, err = a.openPostgres(ctx, cfg, deliverer)
	default:
		factory := memory.NewFactory()
		st = storage{
			factory:     factory,
			box:         memory.NewOutbox(deliverer),
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
			admins:      memory.NewAdminRepository(),
			sessions:    memory.NewSessionStore(),
		}
		a.logger.Warn("memory storage selected; data is lost on restart")
	}
	if err != nil {
		return storage{}, err
	}
	if cache != nil {
		if cfg.StorageDriver != config.DriverMongo {
			st.sessions = rediscache.NewSessionStore(cache)
		}
		st.factory = a.withCatalogCache(st.factory, cache, cfg.CatalogCacheTTL)
	}
	return st, nil
}

// withCatalogCache swaps the factory's listing repository for the cached decorator.
func (a *application) withCatalogCache(factory uow.UoWFactory, client rediscache.KeyValue, ttl time.Duration) uow.UoWFactory {
	switch f := factory.(type) {
	case memory.Factory:
		a.cache = rediscache.NewCachedListingRepository(f.ListingsRepo, client, ttl, a.logger)
		f.ListingsRepo = a.cache
		return f
	case mongodb.Factory:
		a.cache = rediscache.NewCachedListingRepository(f.ListingsRepo, client, ttl, a.logger)
		f.ListingsRepo = a.cache
		return f
	case postgres.Factory:
		a.cache = rediscache.NewCachedListingRepository(f.ListingsRepo, client, ttl, a.logger)
		f.ListingsRepo = a.cache
		return f
	default:
		return factory
	}
}

func (a *application) openMongo(ctx context.Context, cfg config.Config) (storage, error) {
	client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, err
	}
	a.closers = append(a.closers, client.Close)
	a.health.Checks["mongo"] = client.Ping
	if err := client.EnsureIndexes(ctx); err != nil {
		return storage{}, err
	}
	box, err := outbox.NewStore(ctx, client.DB)
	if err != nil {
		return storage{}, err
	}
	idem, err := mongodb.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return storage{}, err
	}
	seen, err := inbox.NewStore(ctx, client.DB, catalogCacheGroup)
	if err != nil {
		return storage{}, err
	}
	return storage{
		factory:     mongodb.NewFactory(client.DB),
		box:         box,
		queue:       box,
		idempotency: idem,
		admins:      mongodb.NewAdminRepository(client.DB),
		sessions:    mongodb.NewSessionStore(client.DB),
		inbox:       seen,
	}, nil
}

func (a *application) openPostgres(ctx context.Context, cfg config.Config, deliverer memory.Deliverer) (storage, error) {
	client, err := postgres.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return storage{}, err
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.health.Checks["postgres"] = client.Ping
	if err := client.Migrate(); err != nil {
		return storage{}, err
	}
	return storage{
		factory:     postgres.NewFactory(client.DB),
		box:         memory.NewOutbox(deliverer),
		idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		admins:      postgres.NewAdminRepository(client.DB),
		sessions:    memory.NewSessionStore(),
	}, nil
}

func (a *application) runCatalogConsumer(ctx context.Context) error {
	consumer, err := kafka.NewConsumer(a.cfg.KafkaBrokers, catalogCacheGroup, nil, a.catalogHandler(), a.logger)
	if err != nil {
		return err
	}
	defer consumer.Close()
	a.logger.Info("catalog cache consumer started", "topics", kafka.CatalogTopics(a.cfg.KafkaTopicPrefix))
	return consumer.Run(ctx, kafka.CatalogTopics(a.cfg.KafkaTopicPrefix))
}

func (a *application) catalogHandler() kafka.MessageHandler {
	return kafka.Deduplicating{
		Inbox: a.inbox,
		Next:  kafka.CatalogInvalidationHandler{Cache: a.cache, Logger: a.logger},
	}
}

func (a *application) ensureBootstrapAdmin(ctx context.Context, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	user, created, err := a.auth.EnsureAdmin(ctx, authsvc.CreateAdminParams{
		Email:    cfg.AdminEmail,
		Name:     cfg.AdminName,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		return err
	}
	if created {
		a.logger.Info("bootstrap admin created", "email", user.Email)
	}
	return nil
}

func (a *application) importFixtures(ctx context.Context, path string) (listingapp.ImportResult, error) {
	items, err := loadFixtures(path)
	if err != nil {
		return listingapp.ImportResult{}, err
	}
	res, err := a.manage.Import(ctx, listingapp.ImportListingsCommand{Items: items})
	if err != nil {
		return res, err
	}
	// outside the command bus nothing else flushes the outbox
	return res, a.manage.Outbox.Flush(ctx)
}

// drain publishes whatever the worker has not picked up yet.
func (a *application) drain(logger *slog.Logger) {
	if a.worker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownDrainLimit)
	defer cancel()
	if err := a.worker.Drain(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("outbox drain on shutdown failed", "error", err)
	}
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown close failed", "error", err)
		}
	}
	a.closers = nil
}
