package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/logging"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func notificationMessage(t *testing.T, n domain.Notification) kafkaGo.Message {
	t.Helper()
	raw, err := json.Marshal(kafka.NewNotificationEvent(n))
	require.NoError(t, err)
	return kafkaGo.Message{Value: raw}
}

func TestNotificationHandler_Sends(t *testing.T) {
	sender := &MockSender{}
	n := domain.Notification{Recipient: "ann@example.com", Kind: domain.NotificationPasswordReset, Code: "123456", TTLMinutes: 15}
	sender.On("Send", mock.Anything, n).Return(nil)

	err := notificationHandler(sender, logging.Nop())(context.Background(), notificationMessage(t, n))

	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNotificationHandler_SkipsBadMessages(t *testing.T) {
	sender := &MockSender{}
	handler := notificationHandler(sender, logging.Nop())

	assert.NoError(t, handler(context.Background(), kafkaGo.Message{Value: []byte("{broken")}))
	assert.NoError(t, handler(context.Background(), notificationMessage(t, domain.Notification{Kind: domain.NotificationEmailVerification})))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotificationHandler_SendFailureDoesNotBlock(t *testing.T) {
	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: 421 busy"))

	err := notificationHandler(sender, logging.Nop())(context.Background(),
		notificationMessage(t, domain.Notification{Recipient: "ann@example.com", Kind: domain.NotificationAccountDeletion}))

	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestExpireBookings(t *testing.T) {
	expirer := &MockExpirer{}
	expirer.On("ExpirePendingBookings", mock.Anything).Return([]domain.Booking{{ID: 1}}, nil).Once()
	expirer.On("ExpirePendingBookings", mock.Anything).Return(nil, errors.New("db down")).Once()

	expireBookings(context.Background(), expirer, logging.Nop())
	expireBookings(context.Background(), expirer, logging.Nop())

	expirer.AssertNumberOfCalls(t, "ExpirePendingBookings", 2)
}
