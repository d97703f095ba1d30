// Package providers defines the outbound delivery contracts. Each driver
// makes exactly one call per message.
package providers

import (
	"context"
	"fmt"
)

type EmailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type SMSMessage struct {
	To   string
	Body string
}

// EmailSender delivers one email and returns the provider message id.
type EmailSender interface {
	Name() string
	SendEmail(ctx context.Context, msg EmailMessage) (string, error)
}

// SMSSender delivers one SMS and returns the provider message id (sid).
type SMSSender interface {
	Name() string
	SendSMS(ctx context.Context, msg SMSMessage) (string, error)
}

// Error is a non-2xx provider response. Message is the provider's own text
// and must stay in server logs.
type Error struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Provider, e.StatusCode, e.Message)
}
