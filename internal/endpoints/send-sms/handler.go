// internal/endpoints/send-sms/handler.go
package sendsms

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
	"notification-relay/internal/common/phone"
	"notification-relay/internal/common/providers"
)

const (
	Endpoint = "send-sms"
	Path     = "/send-sms"

	msgNotConfigured = "SMS service not configured"
	msgSendFailed    = "Failed to send SMS"
)

type Handler struct {
	config *Config
	sender providers.SMSSender
	obs    *observability.Observability
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config: cfg,
		sender: opts.Sender,
		obs:    opts.Observability,
		errors: errors.NewErrorHandler(log),
		logger: log,
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
		Body: http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes),
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.sender == nil {
		return nil, errors.NewConfigurationError(msgNotConfigured, "no SMS provider configured")
	}

	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, errors.NewValidationError(msgInvalidBody, err.Error())
	}

	req, err := parseRequest(body)
	if err != nil {
		return nil, err
	}

	to := phone.Normalize(req.To)
	region, err := phone.Region(to)
	if err != nil {
		h.logger.Warn("relaying number with unknown region", map[string]interface{}{"error": err})
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	provider := h.sender.Name()
	start := time.Now()
	sid, err := h.sender.SendSMS(sendCtx, providers.SMSMessage{
		To:   to,
		Body: req.Message,
	})
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.ProviderCallsTotal.WithLabelValues(provider, outcome).Inc()
	h.obs.RecordRelay(ctx, provider, outcome, elapsed)

	if err != nil {
		return nil, errors.NewProviderError(msgSendFailed, provider, err)
	}

	h.logger.Info("sms relayed", map[string]interface{}{
		"provider": provider,
		"sid":      sid,
		"region":   region,
	})

	return &Output{Success: true, SID: sid}, nil
}
