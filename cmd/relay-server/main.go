// cmd/relay-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	awsproviders "notification-relay/internal/common/aws"
	"notification-relay/internal/common/config"
	"notification-relay/internal/common/database"
	httpclient "notification-relay/internal/common/http"
	"notification-relay/internal/common/logger"
	"notification-relay/internal/common/observability"
	"notification-relay/internal/common/providers"
	"notification-relay/internal/common/providers/resend"
	"notification-relay/internal/common/providers/twilio"
	"notification-relay/internal/common/ratelimit"
	"notification-relay/internal/common/templates"
	sendemail "notification-relay/internal/endpoints/send-email"
	sendsms "notification-relay/internal/endpoints/send-sms"
	"notification-relay/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting relay server...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	readyChecks := map[string]server.ReadyCheck{}

	// --- Rate limiter ---
	var limiter *ratelimit.Limiter
	var sweeper *ratelimit.Sweeper
	if cfg.RateLimit.Enabled {
		var store ratelimit.Store = ratelimit.NewMemoryStore()

		if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
			var rc *database.RedisClient
			err = retryWithBackoff(func() error {
				var err error
				rc, err = database.NewRedis(cfg.Redis)
				if err != nil {
					return err
				}
				return rc.Ping(ctx)
			}, 10, 2*time.Second, zapLog, "Redis connection")
			if err != nil {
				zapLog.Fatal("redis failed after retries", zap.Error(err))
			}
			defer rc.Close()
			zapLog.Info("Redis connected successfully")

			store = ratelimit.NewRedisStore(rc.Client)
			readyChecks["redis"] = rc.Ping
		}

		limiter = ratelimit.New(store, ratelimit.Options{
			MaxRequests: cfg.RateLimit.MaxRequests,
			Window:      cfg.RateLimit.Window,
			Logger:      log,
		})
		sweeper = ratelimit.NewSweeper(limiter, cfg.RateLimit.SweepInterval, log)
		sweeper.Start()
	} else {
		zapLog.Warn("Rate limiting disabled")
	}

	// --- Providers ---
	emailSender := buildEmailSender(ctx, cfg, zapLog)
	smsSender := buildSMSSender(ctx, cfg, zapLog)

	renderer, err := templates.New(cfg.Templates.AdminURL, cfg.Templates.PortalURL)
	if err != nil {
		zapLog.Fatal("failed to load email templates", zap.Error(err))
	}

	// --- Endpoints ---
	emailHandler, err := sendemail.NewHandler(sendemail.HandlerOptions{
		Config: &sendemail.Config{
			From:         cfg.Providers.Email.From,
			Timeout:      cfg.Providers.Email.Timeout,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		},
		Sender:        emailSender,
		Limiter:       limiter,
		Renderer:      renderer,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create send-email handler", zap.Error(err))
	}

	smsHandler, err := sendsms.NewHandler(sendsms.HandlerOptions{
		Config: &sendsms.Config{
			Timeout:      cfg.Providers.SMS.Timeout,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		},
		Sender:        smsSender,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create send-sms handler", zap.Error(err))
	}

	srv := server.New(server.Options{
		Config:      cfg.Server,
		Email:       emailHandler,
		SMS:         smsHandler,
		ReadyChecks: readyChecks,
		Logger:      log,
	})

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("relay server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down server", zap.Error(err))
	}
	if sweeper != nil {
		sweeper.Stop(shutdownCtx)
	}

	zapLog.Info("Relay server stopped gracefully")
}

// buildEmailSender returns nil when the selected driver cannot be used, so
// requests fail with a configuration error instead of the process exiting.
func buildEmailSender(ctx context.Context, cfg *config.Config, log *zap.Logger) providers.EmailSender {
	email := cfg.Providers.Email

	switch email.Driver {
	case config.EmailDriverSES:
		client, err := awsproviders.NewSESClient(ctx, email.SES.Region)
		if err != nil {
			log.Warn("SES unavailable, email relay disabled", zap.Error(err))
			return nil
		}
		log.Info("Email driver ready", zap.String("driver", client.Name()))
		return client
	default:
		if !cfg.ResendConfigured() {
			log.Warn("RESEND_API_KEY not set, email relay disabled")
			return nil
		}
		log.Info("Email driver ready", zap.String("driver", resend.Name))
		return resend.New(httpclient.NewClient(email.Timeout), email.Resend.BaseURL, email.Resend.APIKey)
	}
}

func buildSMSSender(ctx context.Context, cfg *config.Config, log *zap.Logger) providers.SMSSender {
	sms := cfg.Providers.SMS

	switch sms.Driver {
	case config.SMSDriverSNS:
		client, err := awsproviders.NewSNSClient(ctx, sms.SNS.Region, sms.SNS.SenderID)
		if err != nil {
			log.Warn("SNS unavailable, SMS relay disabled", zap.Error(err))
			return nil
		}
		log.Info("SMS driver ready", zap.String("driver", client.Name()))
		return client
	default:
		if !cfg.TwilioConfigured() {
			log.Warn("Twilio credentials not set, SMS relay disabled")
			return nil
		}
		t := sms.Twilio
		log.Info("SMS driver ready", zap.String("driver", twilio.Name))
		return twilio.New(httpclient.NewClient(sms.Timeout), t.BaseURL, t.AccountSID, t.AuthToken, t.PhoneNumber)
	}
}
