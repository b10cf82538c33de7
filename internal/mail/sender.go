package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/civictechlab/contrib-api/internal/log"
)

// Sender delivers outbound mail. Callers treat delivery as fire-and-forget.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	Addr string
	From string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.From, to, subject, body)
	return smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg))
}

// LogSender logs instead of delivering. Used when no relay is configured.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	log.L().Info("mail (not sent)", zap.String("to", to), zap.String("subject", subject))
	return nil
}
