// Package server assembles the relay endpoints and operational routes.
package server

import (
	"context"
	"errors"
	"net/http"

	"notification-relay/internal/common/config"
	apperrors "notification-relay/internal/common/errors"
	"notification-relay/internal/common/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	EmailPath = "/send-email"
	SMSPath   = "/send-sms"
)

// endpointMethods are routed to the endpoint handlers, which answer OPTIONS
// and reject everything but POST themselves.
var endpointMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

type Options struct {
	Config      config.ServerConfig
	Email       http.Handler
	SMS         http.Handler
	ReadyChecks map[string]ReadyCheck
	Logger      logger.Logger
}

type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// NewRouter builds the full handler tree.
func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	errHandler := apperrors.NewErrorHandler(log)

	router := httprouter.New()
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errHandler.WriteError(w, r, apperrors.NewMethodNotAllowedError(r.Method))
	})
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apperrors.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})

	if opts.Email != nil {
		email := instrument("send-email", log, allowListCORS(opts.Config.CORS.AllowedOrigins)(opts.Email))
		for _, m := range endpointMethods {
			router.Handler(m, EmailPath, email)
		}
	}
	if opts.SMS != nil {
		sms := instrument("send-sms", log, openCORS(opts.SMS))
		for _, m := range endpointMethods {
			router.Handler(m, SMSPath, sms)
		}
	}

	router.HandlerFunc(http.MethodGet, "/health", healthHandler)
	router.HandlerFunc(http.MethodGet, "/ready", readyHandler(opts.ReadyChecks))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return requestID(router)
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Config.Address(),
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: opts.Config.ReadHeaderTimeout,
		},
		logger: log,
	}
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("relay server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
