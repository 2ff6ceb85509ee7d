package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mdsabbir/vaxchain/api"
	"github.com/mdsabbir/vaxchain/config"
	"github.com/mdsabbir/vaxchain/internal/bootstrap"
	"github.com/mdsabbir/vaxchain/internal/cache"
	"github.com/mdsabbir/vaxchain/internal/kafka"
	"github.com/mdsabbir/vaxchain/internal/repository"
	"github.com/mdsabbir/vaxchain/internal/service/booking"
	"github.com/mdsabbir/vaxchain/internal/service/campaigns"
	"github.com/mdsabbir/vaxchain/internal/service/payments"
	"github.com/mdsabbir/vaxchain/internal/service/reviews"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CampaignCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	campaignRepo := repository.NewCampaignRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool, cfg.Booking.SecondDoseSlots)
	reviewRepo := repository.NewReviewRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool, cfg.Booking.SecondDoseSlots)

	campaignService := campaigns.NewCampaignService(campaignRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		campaignRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		cfg.Booking.AllowUpcoming,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMissedGraceDays(cfg.Worker.MissedGraceDays),
	)
	reviewService := reviews.NewReviewService(reviewRepo, bookingRepo, campaignRepo)
	paymentService := payments.NewPaymentService(
		paymentRepo,
		bookingRepo,
		campaignRepo,
		producer,
		cfg.Kafka.PaymentEventsTopic,
		cfg.Booking.AllowUpcoming,
		payments.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(
		ctx,
		cfg,
		api.NewCampaignHandler(campaignService),
		api.NewBookingHandler(bookingService),
		api.NewReviewHandler(reviewService),
		api.NewPaymentHandler(paymentService),
	); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
