package sendsms

import (
	"io"

	"notification-relay/internal/common/logger"
	"notification-relay/internal/common/observability"
	"notification-relay/internal/common/providers"
)

type Input struct {
	Body io.Reader
}

type Output struct {
	Success bool   `json:"success"`
	SID     string `json:"sid"`
}

// HandlerOptions wires the handler. A nil Sender makes every request fail
// with "SMS service not configured".
type HandlerOptions struct {
	Config        *Config
	Sender        providers.SMSSender
	Observability *observability.Observability
	Logger        logger.Logger
}
