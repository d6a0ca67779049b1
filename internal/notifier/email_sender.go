package notifier

import (
	"context"
	"time"

	"github.com/phuslu/log"
	gomail "gopkg.in/mail.v2"

	"NewsSentinel/internal/logging"
	"NewsSentinel/internal/pipeline"
)

// EmailConfig holds SMTP configuration for sending emails.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
	Enabled    bool
}

// RenderedMessage is a ready-to-send email.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// mailDialer is satisfied by *gomail.Dialer.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender delivers run reports via SMTP.
type EmailSender struct {
	cfg      EmailConfig
	renderer *EmailRenderer
	dialer   mailDialer
	logger   *log.Logger
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig, logger *log.Logger) *EmailSender {
	dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &EmailSender{
		cfg:      cfg,
		renderer: NewEmailRenderer(),
		dialer:   dialer,
		logger:   logger,
	}
}

// Send delivers an email with HTML body and plain text fallback.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Str("to", s.cfg.ToEmail).Str("subject", msg.Subject).Err(err).Msg("email send failed")
		return err
	}

	s.logger.Info().Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// Report emails the run summary.
func (s *EmailSender) Report(_ context.Context, res *pipeline.Result) error {
	msg, err := s.renderer.Render(res)
	if err != nil {
		return err
	}
	return s.Send(msg)
}

// ReportFailure emails an abort notice.
func (s *EmailSender) ReportFailure(_ context.Context, err error) error {
	return s.Send(&RenderedMessage{
		Subject: "NewsSentinel: run aborted",
		Text:    "The headline sentiment run was aborted.\n\nError: " + err.Error() + "\n",
	})
}
