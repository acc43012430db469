package main

import (
	"context"
	"encoding/json"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/logging"
	kafkaGo "github.com/segmentio/kafka-go"
)

type notificationSender interface {
	Send(ctx context.Context, n domain.Notification) error
}

type bookingExpirer interface {
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

// notificationHandler never fails a message: undecodable payloads and SMTP
// errors are logged and the offset moves on.
func notificationHandler(sender notificationSender, log logging.Logger) func(context.Context, kafkaGo.Message) error {
	return func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.NotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Warn(ctx, "skipping undecodable notification", "offset", msg.Offset, "error", err)
			return nil
		}
		if event.Recipient == "" {
			log.Warn(ctx, "skipping notification without recipient", "offset", msg.Offset, "kind", event.Kind)
			return nil
		}

		if err := sender.Send(ctx, event.Notification()); err != nil {
			log.Error(ctx, "failed to send email", "to", event.Recipient, "kind", event.Kind, "error", err)
		}
		return nil
	}
}

func expireBookings(ctx context.Context, expirer bookingExpirer, log logging.Logger) {
	expired, err := expirer.ExpirePendingBookings(ctx)
	if err != nil {
		log.Error(ctx, "expire bookings", "error", err)
		return
	}
	if len(expired) > 0 {
		log.Info(ctx, "expired pending bookings", "count", len(expired))
	}
}
