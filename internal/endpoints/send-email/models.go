package sendemail

import (
	"io"

	"notification-relay/internal/common/logger"
	"notification-relay/internal/common/observability"
	"notification-relay/internal/common/providers"
	"notification-relay/internal/common/ratelimit"
	"notification-relay/internal/common/templates"
)

type Input struct {
	ClientKey string
	Body      io.Reader
}

type Output struct {
	Success bool `json:"success"`
}

// HandlerOptions wires the handler. A nil Sender makes every request fail
// with "Email service not configured"; a nil Limiter disables limiting.
type HandlerOptions struct {
	Config        *Config
	Sender        providers.EmailSender
	Limiter       *ratelimit.Limiter
	Renderer      *templates.Renderer
	Observability *observability.Observability
	Logger        logger.Logger
}
