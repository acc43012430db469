package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/cache"
	"github.com/Domenick1991/travelease/internal/email"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/Domenick1991/travelease/internal/notify"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	bootLog := logging.New(os.Stderr, "info", "text")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fatal(bootLog, "load config", err)
	}
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format).With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		fatal(logger, "connect postgres", err)
	}
	defer pool.Close()

	redisClient := cache.NewClient(cfg.Redis)
	defer redisClient.Close()
	redisCache := cache.NewRedisCache(redisClient, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		repository.NewFlightRepository(pool),
		repository.NewRoomRepository(pool),
		userRepo,
		repository.NewActivityRepository(pool),
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		cfg.Booking.DefaultCurrency,
		booking.WithCache(redisCache),
		booking.WithEvents(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotifier(notify.NewKafkaDispatcher(producer, cfg.Kafka.NotificationsTopic)),
		booking.WithLogger(logger),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(cfg.SMTP, logger)

	go func() {
		if err := consumer.Consume(ctx, notificationHandler(sender, logger)); err != nil {
			logger.Error(ctx, "consumer stopped", "error", err)
			stop()
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	logger.Info(ctx, "worker started", "topic", cfg.Kafka.NotificationsTopic)
	for {
		select {
		case <-expireTicker.C:
			expireBookings(ctx, bookingService, logger)
		case <-ctx.Done():
			logger.Info(context.Background(), "shutting down")
			return
		}
	}
}

func fatal(log logging.Logger, msg string, err error) {
	log.Error(context.Background(), msg, "error", err)
	os.Exit(1)
}
