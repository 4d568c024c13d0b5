package providers

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender("mail.example.com", 587, "bot", "pw", "lunchbot@example.com", "team@example.com")

	var gotAddr string
	var gotTo []string
	var gotMsg string
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.NotNil(t, a)
		assert.Equal(t, "lunchbot@example.com", from)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), "*First floor menu:*\nFiskesuppe"))
	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, []string{"team@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: First floor menu\r\n")
	assert.Contains(t, gotMsg, "\r\n\r\n*First floor menu:*\r\nFiskesuppe\r\n")
}

func TestSMTPSender_SubjectStripsEmoji(t *testing.T) {
	s := NewSMTPSender("localhost", 25, "", "", "a@example.com", "b@example.com")

	msg := string(s.message("_Could not find a menu for the third floor today_ :disappointed:"))
	assert.Contains(t, msg, "Subject: Could not find a menu for the third floor today\r\n")
}

func TestSMTPSender_Error(t *testing.T) {
	s := NewSMTPSender("localhost", 25, "", "", "a@example.com", "b@example.com")
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := s.Send(context.Background(), "hei")
	assert.ErrorContains(t, err, "connection refused")
}
