package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bikely/internal/app/commands"
	availabilityapp "bikely/internal/app/handlers/availability"
	bookingapp "bikely/internal/app/handlers/booking"
	"bikely/internal/app/middleware"
	appoutbox "bikely/internal/app/outbox"
	"bikely/internal/app/policies"
	"bikely/internal/app/queries"
	appuow "bikely/internal/app/uow"
	"bikely/internal/domain/bikes"
	"bikely/internal/domain/pricing"
	"bikely/internal/domain/shared/money"
	"bikely/internal/infra/broker/kafka"
	"bikely/internal/infra/config"
	"bikely/internal/infra/db/mongo"
	ginserver "bikely/internal/infra/http/gin"
	"bikely/internal/infra/inbox"
	"bikely/internal/infra/jobs"
	sendgridnotify "bikely/internal/infra/notify/sendgrid"
	"bikely/internal/infra/obs"
	infraoutbox "bikely/internal/infra/outbox"
	stripepay "bikely/internal/infra/payments/stripe"
	"bikely/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.ServiceFeeCents = 300
		cfg.Currency = "EUR"
		cfg.ExpirySweepSpec = "@every 10m"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	app.start(ctx, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	sweep    *jobs.ExpirySweep
	cfg      config.Config

	mongoClient *mongo.Client
	producer    *kafka.Producer
	consumer    *kafka.Consumer
	worker      *infraoutbox.Worker

	seedRepo *memory.BikeRepository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{cfg: cfg}

	var (
		uowFactory appuow.UoWFactory
		outboxDest appoutbox.Outbox
		idStore    middleware.IdempotencyStore
		pending    jobs.PendingLister
	)

	if cfg.MongoURI != "" {
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		app.mongoClient = client

		bookingRepo := mongo.NewBookingRepository(client.DB)
		uowFactory = mongo.Factory{
			DB:           client.DB,
			BikeRepo:     mongo.NewBikeRepository(client.DB),
			CalendarRepo: mongo.NewCalendarRepository(client.DB),
			BookingRepo:  bookingRepo,
		}
		idStore = mongo.NewIdempotencyStore(client.DB)
		pending = bookingRepo

		outboxStore := infraoutbox.NewStore(client.DB)
		outboxDest = outboxStore

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, err
			}
			app.producer = producer
			app.worker = &infraoutbox.Worker{
				Store:       outboxStore,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
			consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "bikely-projections", nil, &inbox.EventHandler{
				Store:  inbox.NewStore(client.DB, "bikely-projections"),
				Logger: logger,
			})
			if err != nil {
				logger.Warn("event consumer unavailable", "error", err)
			} else {
				app.consumer = consumer
			}
		}
	} else {
		bikeRepo := memory.NewBikeRepository()
		bookingRepo := memory.NewBookingRepository()
		uowFactory = memory.Factory{
			BikeRepo:     bikeRepo,
			CalendarRepo: memory.NewCalendarRepository(),
			BookingRepo:  bookingRepo,
		}
		idStore = memory.NewIdempotencyStore()
		outboxDest = memory.NewOutbox()
		pending = bookingRepo
		app.seedRepo = bikeRepo
	}

	var payments policies.PaymentsPort
	if cfg.StripeKey != "" {
		payments = stripepay.New(cfg.StripeKey)
	} else {
		logger.Warn("stripe key missing, using in-memory payments")
		payments = memory.NewPayments()
	}
	var notifier policies.Notifier
	if cfg.SendGridKey != "" {
		notifier = sendgridnotify.New(cfg.SendGridKey, cfg.SendGridFrom, nil, logger)
	}

	quoter := pricing.FixedFeeQuoter{ServiceFee: money.Must(cfg.ServiceFeeCents, cfg.Currency)}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: uowFactory,
		Quoter:     quoter,
		Payments:   payments,
		Notifier:   notifier,
		Outbox:     outboxDest,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		UoWFactory: uowFactory,
		Payments:   payments,
		Notifier:   notifier,
		Outbox:     outboxDest,
	})
	commands.RegisterHandler(commandBus, bookingapp.DeclineBookingCommand{}.Key(), &bookingapp.DeclineBookingHandler{
		UoWFactory: uowFactory,
		Payments:   payments,
		Notifier:   notifier,
		Outbox:     outboxDest,
	})
	commands.RegisterHandler(commandBus, bookingapp.PickUpBookingCommand{}.Key(), &bookingapp.PickUpBookingHandler{
		UoWFactory: uowFactory,
		Notifier:   notifier,
		Outbox:     outboxDest,
	})
	commands.RegisterHandler(commandBus, bookingapp.ReturnBookingCommand{}.Key(), &bookingapp.ReturnBookingHandler{
		UoWFactory: uowFactory,
		Notifier:   notifier,
		Outbox:     outboxDest,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListBookingsQuery{}.Key(), &bookingapp.ListBookingsHandler{
		UoWFactory: uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxDest),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.sweep = &jobs.ExpirySweep{
		Commands: commandBusWithMiddleware,
		Lister:   pending,
		TTL:      cfg.PendingTTL,
		Logger:   logger,
	}

	app.handlers = ginserver.Handlers{
		Booking:      ginserver.BookingHandler{Commands: commandBusWithMiddleware},
		Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Me:           ginserver.MeHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Identity:     ginserver.IdentityMiddleware{}.Handle,
	}
	return app, nil
}

func (a *application) start(ctx context.Context, logger *slog.Logger) {
	if a.seedRepo != nil {
		a.seedDemoData(ctx, logger)
	}
	if a.worker != nil {
		go func() {
			if err := a.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	if a.consumer != nil {
		go func() {
			topics := []string{a.cfg.KafkaTopicPrefix + "booking.events.v1", a.cfg.KafkaTopicPrefix + "calendar.events.v1"}
			if err := a.consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event consumer stopped", "error", err)
			}
		}()
	}
	spec := a.cfg.ExpirySweepSpec
	if spec == "" {
		spec = "@every 10m"
	}
	runner, err := jobs.Schedule(spec, a.sweep)
	if err != nil {
		logger.Error("expiry sweep not scheduled", "error", err, "spec", spec)
		return
	}
	runner.Start()
	go func() {
		<-ctx.Done()
		runner.Stop()
	}()
}

func (a *application) ready() error {
	if a.mongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.mongoClient.Ping(ctx)
}

func (a *application) close() {
	if a.producer != nil {
		_ = a.producer.Close()
	}
	if a.consumer != nil {
		_ = a.consumer.Close()
	}
}

func (a *application) seedDemoData(ctx context.Context, logger *slog.Logger) {
	now := time.Now()
	bike, err := bikes.NewBike(bikes.CreateParams{
		ID:        "bike-demo-1",
		Owner:     "owner-demo",
		Title:     "Demo Gravel Bike",
		City:      "Hamburg",
		BikeType:  "gravel",
		DailyRate: money.Must(1800, a.cfg.Currency),
		Now:       now,
	})
	if err != nil {
		logger.Error("demo bike invalid", "error", err)
		return
	}
	if err := bike.Activate(now); err != nil {
		logger.Error("demo bike activation failed", "error", err)
		return
	}
	if err := a.seedRepo.Save(ctx, bike); err != nil {
		logger.Error("cannot store demo bike", "error", err)
		return
	}
	logger.Info("demo bike seeded", "bike_id", bike.ID)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
