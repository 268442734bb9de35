package notification

import (
	"context"

	"github.com/logistics/backend/internal/application/notification"
	"github.com/logistics/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them. For development.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg notification.Message) error {
	if _, err := BuildMessage(msg); err != nil {
		return err
	}
	s.logger.Info("Mail (log driver)",
		zap.String("from", msg.SenderAddr),
		zap.String("to", msg.RecipientAddr),
		zap.String("subject", msg.Subject),
		zap.Int("plain_len", len(msg.PlainBody)),
		zap.Int("html_len", len(msg.HTMLBody)),
	)
	return nil
}

// NewSender picks the sender for the configured driver
func NewSender(cfg config.MailConfig, logger *zap.Logger) notification.Sender {
	if cfg.Driver == "smtp" {
		return NewSMTPSender(cfg, logger)
	}
	return NewLogSender(logger)
}

var _ notification.Sender = (*LogSender)(nil)
