package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/application/notification"
	"github.com/logistics/backend/internal/domain/identity"
)

// SendMailRequest is the body of POST /mail/send
type SendMailRequest struct {
	SenderEmail    string `json:"sender_email" binding:"required,email"`
	SenderName     string `json:"sender_name" binding:"max=200"`
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
	Subject        string `json:"subject" binding:"max=255"`
	MessagePlain   string `json:"message_plain"`
	MessageHTML    string `json:"message_html"`
}

// MailHandler relays outbound mail for staff
type MailHandler struct {
	BaseHandler
	mail  *notification.Service
	guard *access.Guard
}

// NewMailHandler creates a new mail handler
func NewMailHandler(mail *notification.Service, guard *access.Guard) *MailHandler {
	return &MailHandler{mail: mail, guard: guard}
}

// Send handles POST /mail/send. Delivery failures answer 502.
func (h *MailHandler) Send(c *gin.Context) {
	if _, ok := h.authorizeTenant(c, h.guard, identity.RoleManager); !ok {
		return
	}
	var req SendMailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	err := h.mail.Send(c.Request.Context(), notification.SendInput{
		SenderEmail:    req.SenderEmail,
		SenderName:     req.SenderName,
		RecipientEmail: req.RecipientEmail,
		Subject:        req.Subject,
		MessagePlain:   req.MessagePlain,
		MessageHTML:    req.MessageHTML,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"sent": true})
}
