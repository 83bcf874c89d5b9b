package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTP(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "no-reply@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:1025", s.addr)
	assert.NoError(t, s.Close())
}

func TestSMTP_Send_Guards(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025})
	require.NoError(t, err)

	t.Run("no recipients", func(t *testing.T) {
		err := s.Send(context.Background(), Message{Subject: "x"})
		assert.ErrorIs(t, err, ErrSMTPNoRecipients)
	})

	t.Run("no sender", func(t *testing.T) {
		err := s.Send(context.Background(), Message{To: []string{"a@b.c"}})
		assert.ErrorIs(t, err, ErrSMTPNoSender)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Send(ctx, Message{To: []string{"a@b.c"}, From: "x@y.z"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBuildBody(t *testing.T) {
	t.Run("text only", func(t *testing.T) {
		body, ct := buildBody(Message{TextBody: "Your OTP code is: 123456"})
		assert.Equal(t, "Your OTP code is: 123456", body)
		assert.Equal(t, "text/plain; charset=UTF-8", ct)
	})

	t.Run("html only", func(t *testing.T) {
		body, ct := buildBody(Message{HTMLBody: "<p>hi</p>"})
		assert.Equal(t, "<p>hi</p>", body)
		assert.Equal(t, "text/html; charset=UTF-8", ct)
	})

	t.Run("multipart", func(t *testing.T) {
		body, ct := buildBody(Message{TextBody: "plain", HTMLBody: "<b>rich</b>"})
		assert.True(t, strings.HasPrefix(ct, "multipart/alternative; boundary="))
		assert.Contains(t, body, "plain")
		assert.Contains(t, body, "<b>rich</b>")

		boundary := strings.TrimPrefix(ct, "multipart/alternative; boundary=")
		assert.Contains(t, body, "--"+boundary+"--")
	})
}
