package notification

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/logistics/backend/internal/application/notification"
	"github.com/logistics/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testMessage() notification.Message {
	return notification.Message{
		SenderAddr:    "ops@example.com",
		SenderName:    "Логистическая компания",
		RecipientAddr: "client@example.com",
		Subject:       "Статус заявки",
		PlainBody:     "plain text",
		HTMLBody:      "<p>html</p>",
	}
}

func TestBuildMessage(t *testing.T) {
	t.Run("multipart alternative with both bodies", func(t *testing.T) {
		m, err := BuildMessage(testMessage())
		require.NoError(t, err)

		var buf bytes.Buffer
		_, err = m.WriteTo(&buf)
		require.NoError(t, err)
		raw := buf.String()
		assert.Contains(t, raw, "multipart/alternative")
		assert.Contains(t, raw, "text/plain")
		assert.Contains(t, raw, "text/html")
		assert.Contains(t, raw, "client@example.com")
	})

	t.Run("plain only without html", func(t *testing.T) {
		msg := testMessage()
		msg.HTMLBody = ""
		m, err := BuildMessage(msg)
		require.NoError(t, err)

		var buf bytes.Buffer
		_, err = m.WriteTo(&buf)
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "text/html")
	})

	t.Run("invalid recipient", func(t *testing.T) {
		msg := testMessage()
		msg.RecipientAddr = "nope"
		_, err := BuildMessage(msg)
		assert.Error(t, err)
	})
}

func TestLogSender(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), testMessage()))
	assert.Equal(t, 1, recorded.FilterMessage("Mail (log driver)").Len())
}

func TestSMTPSender_UnreachableHost(t *testing.T) {
	s := NewSMTPSender(config.MailConfig{
		Host:    "127.0.0.1",
		Port:    1,
		Timeout: time.Second,
	}, zap.NewNop())

	err := s.Send(context.Background(), testMessage())
	assert.Error(t, err)
}

func TestNewSender(t *testing.T) {
	assert.IsType(t, &SMTPSender{}, NewSender(config.MailConfig{Driver: "smtp"}, zap.NewNop()))
	assert.IsType(t, &LogSender{}, NewSender(config.MailConfig{Driver: "log"}, zap.NewNop()))
}
