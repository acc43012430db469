package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/auth"
	"github.com/Domenick1991/travelease/internal/bootstrap"
	"github.com/Domenick1991/travelease/internal/cache"
	"github.com/Domenick1991/travelease/internal/clock"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/Domenick1991/travelease/internal/notify"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/Domenick1991/travelease/internal/service/account"
	"github.com/Domenick1991/travelease/internal/service/admin"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/Domenick1991/travelease/internal/service/flights"
	"github.com/Domenick1991/travelease/internal/service/otp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		fatal(logger, "connect postgres", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		fatal(logger, "migrate", err)
	}

	redisClient := cache.NewClient(cfg.Redis)
	defer redisClient.Close()
	redisCache := cache.NewRedisCache(redisClient, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	dispatcher := notify.NewKafkaDispatcher(producer, cfg.Kafka.NotificationsTopic)

	userRepo := repository.NewUserRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	clk := clock.Real()
	otpService := otp.NewService(codeStore(cfg.OTP, pool, redisClient, clk), dispatcher, clk, logger, otp.Config{
		CodeLength: cfg.OTP.CodeLength,
		HashCost:   cfg.OTP.HashCost,
		TTLs: map[domain.Purpose]time.Duration{
			domain.PurposeEmailVerification: time.Duration(cfg.OTP.VerificationTTLMinutes) * time.Minute,
			domain.PurposePasswordReset:     time.Duration(cfg.OTP.ResetTTLMinutes) * time.Minute,
			domain.PurposeAccountDeletion:   time.Duration(cfg.OTP.DeletionTTLMinutes) * time.Minute,
		},
	})

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	accountService := account.NewAccountService(
		userRepo,
		otpService,
		auth.NewPasswordHasher(cfg.OTP.HashCost),
		tokens,
		clk,
		logger,
	)
	flightService := flights.NewFlightService(flightRepo, redisCache, logger)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		roomRepo,
		userRepo,
		activityRepo,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		cfg.Booking.DefaultCurrency,
		booking.WithCache(redisCache),
		booking.WithEvents(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotifier(dispatcher),
		booking.WithClock(clk),
		booking.WithLogger(logger),
	)
	adminService := admin.NewAdminService(userRepo, bookingRepo, activityRepo)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Accounts: accountService,
		Bookings: bookingService,
		Flights:  flightService,
		Admin:    adminService,
		Tokens:   tokens,
		Users:    userRepo,
	}, logger)
	if err != nil {
		fatal(logger, "server error", err)
	}
}

func codeStore(cfg config.OTPConfig, pool *pgxpool.Pool, client *redis.Client, clk clock.Clock) repository.CodeStore {
	switch cfg.Store {
	case config.OTPStoreRedis:
		return cache.NewRedisCodeStore(client, clk)
	case config.OTPStoreMemory:
		return repository.NewMemoryCodeStore()
	default:
		return repository.NewCodeStore(pool)
	}
}

func fatal(log logging.Logger, msg string, err error) {
	log.Error(context.Background(), msg, "error", err)
	os.Exit(1)
}
