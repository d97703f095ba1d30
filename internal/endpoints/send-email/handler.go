// internal/endpoints/send-email/handler.go
package sendemail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"notification-relay/internal/common/errors"
	"notification-relay/internal/common/logger"
	"notification-relay/internal/common/metrics"
	"notification-relay/internal/common/observability"
	"notification-relay/internal/common/providers"
	"notification-relay/internal/common/ratelimit"
	"notification-relay/internal/common/sanitize"
	"notification-relay/internal/common/templates"
)

const (
	Endpoint = "send-email"
	Path     = "/send-email"

	msgNotConfigured = "Email service not configured"
	msgSendFailed    = "Failed to send email"
)

type Handler struct {
	config   *Config
	sender   providers.EmailSender
	limiter  *ratelimit.Limiter
	renderer *templates.Renderer
	obs      *observability.Observability
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config:   cfg,
		sender:   opts.Sender,
		limiter:  opts.Limiter,
		renderer: opts.Renderer,
		obs:      opts.Observability,
		errors:   errors.NewErrorHandler(log),
		logger:   log,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		h.errors.WriteError(w, r, errors.NewMethodNotAllowedError(r.Method))
		return
	}

	output, err := h.Execute(r.Context(), &Input{
		ClientKey: ratelimit.ClientKey(r),
		Body:      http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes),
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, output)
}

// Execute runs the email flow: rate limit, configuration check, validation,
// sanitization, rendering and the provider call.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.limiter != nil && !h.limiter.Allow(ctx, input.ClientKey) {
		metrics.RateLimitedTotal.WithLabelValues(Endpoint).Inc()
		return nil, errors.NewRateLimitedError(input.ClientKey)
	}

	if h.sender == nil {
		return nil, errors.NewConfigurationError(msgNotConfigured, "no email provider configured")
	}

	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, errors.NewValidationError(msgInvalidBody, err.Error())
	}

	req, err := parseRequest(body)
	if err != nil {
		return nil, err
	}

	rendered, err := h.renderer.Render(sanitize.Request(req))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Type, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	provider := h.sender.Name()
	start := time.Now()
	messageID, err := h.sender.SendEmail(sendCtx, providers.EmailMessage{
		From:    h.config.From,
		To:      req.To,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
	})
	h.recordRelay(ctx, provider, err, time.Since(start))
	if err != nil {
		return nil, errors.NewProviderError(msgSendFailed, provider, err)
	}

	h.logger.Info("email relayed", map[string]interface{}{
		"type":      string(req.Type),
		"provider":  provider,
		"messageId": messageID,
	})

	return &Output{Success: true}, nil
}

func (h *Handler) recordRelay(ctx context.Context, provider string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.ProviderCallsTotal.WithLabelValues(provider, outcome).Inc()
	h.obs.RecordRelay(ctx, provider, outcome, d)
}
