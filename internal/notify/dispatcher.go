package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
)

// Dispatcher delivers a notification to the user. A nil error means the
// message was accepted; a failure wraps apperr.ErrDeliveryFailed.
type Dispatcher interface {
	Send(ctx context.Context, n domain.Notification) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type KafkaDispatcher struct {
	publisher Publisher
	topic     string
}

func NewKafkaDispatcher(publisher Publisher, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{publisher: publisher, topic: topic}
}

func (d *KafkaDispatcher) Send(ctx context.Context, n domain.Notification) error {
	if err := d.publisher.Publish(ctx, d.topic, n.Recipient, kafka.NewNotificationEvent(n)); err != nil {
		return fmt.Errorf("%w: %s to %s: %v", apperr.ErrDeliveryFailed, n.Kind, n.Recipient, err)
	}
	return nil
}

var _ Dispatcher = (*KafkaDispatcher)(nil)
