package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/logging"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender renders notifications and delivers them over SMTP. Without SMTP
// credentials it only logs the rendered message.
type Sender struct {
	cfg      config.SMTPConfig
	log      logging.Logger
	render   *renderer
	sendMail sendMailFunc
}

func NewSender(cfg config.SMTPConfig, log logging.Logger) *Sender {
	return &Sender{
		cfg:      cfg,
		log:      log,
		render:   newRenderer(),
		sendMail: smtp.SendMail,
	}
}

func (s *Sender) Send(ctx context.Context, n domain.Notification) error {
	msg, err := s.render.render(n)
	if err != nil {
		return err
	}

	if !s.cfg.Configured() {
		s.log.Info(ctx, "[MOCK EMAIL]", "to", n.Recipient, "kind", n.Kind, "subject", msg.Subject, "code", n.Code)
		return nil
	}

	from := s.cfg.Username
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, from, []string{n.Recipient}, s.compose(n.Recipient, msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", n.Recipient, err)
	}
	s.log.Info(ctx, "email sent", "to", n.Recipient, "kind", n.Kind)
	return nil
}

func (s *Sender) compose(to string, msg message) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.Username))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(sb.String())
}
