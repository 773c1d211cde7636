package email

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	"github.com/complaintdesk/complaint-api/config"
)

type Service interface {
	SendCustom(ctx context.Context, to []string, subject string, content string) error
}

type smtpService struct {
	dialer  *gomail.Dialer
	from    string
	limiter *rate.Limiter
}

// NewSMTPService builds an SMTP-backed email service. Sends are
// throttled by the given rate so a large escalation batch cannot flood
// the relay.
func NewSMTPService(cfg config.SMTPConfig, perSecond float64) Service {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &smtpService{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (s *smtpService) SendCustom(ctx context.Context, to []string, subject string, content string) error {
	if len(to) == 0 {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
