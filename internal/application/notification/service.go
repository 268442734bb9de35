package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/logistics/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultSubject is used when a message has no subject
const DefaultSubject = "Уведомление от логистической компании"

// Message is an outbound multipart/alternative mail
type Message struct {
	SenderAddr    string
	SenderName    string
	RecipientAddr string
	Subject       string
	PlainBody     string
	HTMLBody      string
}

// Sender delivers a message. It knows nothing about tenants.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendInput is the request to send one mail
type SendInput struct {
	SenderEmail    string `validate:"required,email"`
	SenderName     string `validate:"max=200"`
	RecipientEmail string `validate:"required,email"`
	Subject        string `validate:"max=255"`
	MessagePlain   string
	MessageHTML    string
}

// Service validates and sends mail
type Service struct {
	sender            Sender
	validate          *validator.Validate
	defaultSenderName string
	logger            *zap.Logger
}

// NewService creates the mail service
func NewService(sender Sender, defaultSenderName string, logger *zap.Logger) *Service {
	return &Service{
		sender:            sender,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		defaultSenderName: defaultSenderName,
		logger:            logger,
	}
}

// Send validates input, fills defaults and hands the message to the sender.
// Delivery failures map to ErrExternalDependency.
func (s *Service) Send(ctx context.Context, input SendInput) error {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("field %s failed %s validation", verrs[0].Field(), verrs[0].Tag()))
		}
		return shared.ErrInvalidInput
	}

	msg := Message{
		SenderAddr:    input.SenderEmail,
		SenderName:    input.SenderName,
		RecipientAddr: input.RecipientEmail,
		Subject:       input.Subject,
		PlainBody:     input.MessagePlain,
		HTMLBody:      input.MessageHTML,
	}
	if msg.SenderName == "" {
		msg.SenderName = s.defaultSenderName
	}
	if msg.Subject == "" {
		msg.Subject = DefaultSubject
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("Mail delivery failed",
			zap.String("recipient", msg.RecipientAddr),
			zap.Error(err),
		)
		return shared.NewDomainError(shared.CodeExternalDependency, "mail delivery failed")
	}

	s.logger.Info("Mail sent", zap.String("recipient", msg.RecipientAddr))
	return nil
}
