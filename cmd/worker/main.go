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
	"github.com/mdsabbir/vaxchain/config"
	"github.com/mdsabbir/vaxchain/internal/email"
	"github.com/mdsabbir/vaxchain/internal/kafka"
	"github.com/mdsabbir/vaxchain/internal/repository"
	"github.com/mdsabbir/vaxchain/internal/service/booking"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	campaignRepo := repository.NewCampaignRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool, cfg.Booking.SecondDoseSlots)
	bookingService := booking.NewBookingService(
		bookingRepo,
		campaignRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		cfg.Booking.AllowUpcoming,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMissedGraceDays(cfg.Worker.MissedGraceDays),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	missedTicker := time.NewTicker(time.Duration(cfg.Worker.MissedSweepMinutes) * time.Minute)
	defer missedTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-missedTicker.C:
			missed, err := bookingService.MarkMissedRecords(ctx)
			if err != nil {
				log.Printf("mark missed records error: %v", err)
				continue
			}
			if len(missed) > 0 {
				log.Printf("marked %d records as missed", len(missed))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
