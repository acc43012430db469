package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AllKinds(t *testing.T) {
	r := newRenderer()
	kinds := []domain.NotificationKind{
		domain.NotificationEmailVerification, domain.NotificationPasswordReset, domain.NotificationAccountDeletion,
		domain.NotificationBookingCreated, domain.NotificationBookingCancelled, domain.NotificationBookingUpdated,
		domain.NotificationBookingExpired,
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			msg, err := r.render(domain.Notification{Recipient: "a@x.com", Kind: kind, Code: "000123", TTLMinutes: 10,
				Data: map[string]string{"reference": "TE-1", "status": "confirmed"}})
			require.NoError(t, err)
			assert.NotEmpty(t, msg.Subject)
			assert.NotEmpty(t, msg.Body)
		})
	}
}

func TestRender_Code(t *testing.T) {
	msg, err := newRenderer().render(domain.Notification{Kind: domain.NotificationPasswordReset, UserName: "Ann", Code: "012345", TTLMinutes: 15})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Hello Ann,")
	assert.Contains(t, msg.Body, "012345")
	assert.Contains(t, msg.Body, "15 minutes")
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := newRenderer().render(domain.Notification{Kind: "sms"})
	assert.ErrorContains(t, err, "unknown notification kind")
}

func TestSender_MockWhenUnconfigured(t *testing.T) {
	s := NewSender(config.SMTPConfig{}, logging.Nop())
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("smtp must not be used")
		return nil
	}
	assert.NoError(t, s.Send(context.Background(), domain.Notification{Recipient: "a@x.com", Kind: domain.NotificationEmailVerification}))
}

func TestSender_SMTP(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "bot@example.com", Password: "p", FromName: "TravelEase"}
	s := NewSender(cfg, logging.Nop())

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.Equal(t, "bot@example.com", from)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), domain.Notification{Recipient: "a@x.com", Kind: domain.NotificationAccountDeletion, Code: "999999", TTLMinutes: 10}))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "From: TravelEase <bot@example.com>\r\n")
	assert.Contains(t, string(gotMsg), "999999")

	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421") }
	assert.ErrorContains(t, s.Send(context.Background(), domain.Notification{Recipient: "a@x.com", Kind: domain.NotificationPasswordReset}), "smtp send to a@x.com")
}
