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

	"github.com/joho/godotenv"

	appoutbox "lendme/internal/app/outbox"
	"lendme/internal/app/services/bookings"
	"lendme/internal/app/services/items"
	"lendme/internal/app/services/requests"
	"lendme/internal/app/services/users"
	domainbooking "lendme/internal/domain/booking"
	domainitem "lendme/internal/domain/item"
	domainrequest "lendme/internal/domain/request"
	domainuser "lendme/internal/domain/user"
	"lendme/internal/infra/broker/kafka"
	"lendme/internal/infra/config"
	mongodb "lendme/internal/infra/db/mongo"
	ginserver "lendme/internal/infra/http/gin"
	"lendme/internal/infra/obs"
	infraoutbox "lendme/internal/infra/outbox"
	"lendme/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	obs.RegisterMetrics()

	stores, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer stores.close(logger)

	app := buildApplication(cfg, stores, logger)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: stores.ready,
	}, app)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("kafka producer close failed", "error", err)
			}
		}()
		worker := &infraoutbox.Worker{
			Store:       stores.outbox,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
			Logger:      logger,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
		logger.Info("outbox worker started", "brokers", cfg.KafkaBrokers, "interval", cfg.OutboxPollInterval)
	} else {
		logger.Warn("KAFKA_BROKERS not set, events stay in the outbox")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// storeSet bundles one storage backend behind the domain repository
// interfaces so the service wiring does not care which one is active.
type storeSet struct {
	users    domainuser.Repository
	items    domainitem.Repository
	comments domainitem.CommentRepository
	bookings domainbooking.Repository
	requests domainrequest.Repository
	outbox   interface {
		appoutbox.Recorder
		infraoutbox.Store
	}
	mongo *mongodb.Client
}

func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storeSet, error) {
	if cfg.Store != "mongo" {
		return &storeSet{
			users:    memory.NewUserRepository(),
			items:    memory.NewItemRepository(),
			comments: memory.NewCommentRepository(),
			bookings: memory.NewBookingRepository(),
			requests: memory.NewRequestRepository(),
			outbox:   memory.NewOutbox(),
		}, nil
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	logger.Info("mongo connected", "db", cfg.MongoDB)
	return &storeSet{
		users:    mongodb.NewUserRepository(client.DB),
		items:    mongodb.NewItemRepository(client.DB),
		comments: mongodb.NewCommentRepository(client.DB),
		bookings: mongodb.NewBookingRepository(client.DB),
		requests: mongodb.NewRequestRepository(client.DB),
		outbox:   mongodb.NewOutboxStore(client.DB),
		mongo:    client,
	}, nil
}

func (s *storeSet) ready() error {
	if s.mongo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.mongo.Ping(ctx)
}

func (s *storeSet) close(logger *slog.Logger) {
	if s.mongo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.mongo.Close(ctx); err != nil {
		logger.Error("mongo close failed", "error", err)
	}
}

func buildApplication(cfg config.Config, stores *storeSet, logger *slog.Logger) ginserver.Handlers {
	encoder := appoutbox.JSONEncoder{}

	usersSvc := &users.Service{Users: stores.users}
	bookingsSvc := &bookings.Service{
		Bookings: stores.bookings,
		Users:    usersSvc,
		Outbox:   stores.outbox,
		Encoder:  encoder,
		Logger:   logger,
		Clock:    time.Now,
	}
	itemsSvc := &items.Service{
		Items:    stores.items,
		Comments: stores.comments,
		Users:    usersSvc,
		Bookings: bookingsSvc,
		Outbox:   stores.outbox,
		Encoder:  encoder,
		Logger:   logger,
		Clock:    time.Now,
	}
	requestsSvc := &requests.Service{
		Requests: stores.requests,
		Users:    usersSvc,
		Items:    itemsSvc,
		Clock:    time.Now,
	}
	bookingsSvc.Items = itemsSvc
	itemsSvc.Requests = requestsSvc

	return ginserver.Handlers{
		User:    ginserver.UserHandler{Users: usersSvc},
		Item:    ginserver.ItemHandler{Items: itemsSvc},
		Booking: ginserver.BookingHandler{Bookings: bookingsSvc},
		Request: ginserver.RequestHandler{Requests: requestsSvc},
	}
}
