package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/audit"
	"github.com/veriflow/field-verification-api/internal/config"
	"github.com/veriflow/field-verification-api/internal/database"
	"github.com/veriflow/field-verification-api/internal/handler"
	"github.com/veriflow/field-verification-api/internal/queue"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/router"
	applog "github.com/veriflow/field-verification-api/pkg/log"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	logger := applog.New(cfg.Env)

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable; rate limiting and caching disabled")
	}

	// Repositories share the one injected pool; nothing holds global state.
	users := repository.NewUserRepo(db)
	devices := repository.NewDeviceRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	cases := repository.NewCaseRepo(db)
	clients := repository.NewClientRepo(db)
	products := repository.NewProductRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	commissions := repository.NewCommissionRepo(db)
	attachments := repository.NewAttachmentRepo(db)

	recorder := audit.NewRecorder(auditRepo, logger)
	publisher := queue.NewPublisher(logger)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	go func() {
		if err := queue.StartNotificationConsumer(consumerCtx, logger); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("notification consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(logger)

	router.Register(e, router.Deps{
		Cfg:         cfg,
		Redis:       rdb,
		Auth:        handler.NewAuthHandler(cfg, users, devices, recorder),
		Cases:       handler.NewCaseHandler(cases, users, clients, products, recorder, publisher),
		Clients:     handler.NewClientHandler(clients),
		Products:    handler.NewProductHandler(products, clients),
		Invoices:    handler.NewInvoiceHandler(invoices, cases, clients, recorder),
		Commissions: handler.NewCommissionHandler(commissions, cases),
		Attachments: handler.NewAttachmentHandler(attachments, cases, cfg.UploadDir),
		Dashboard:   handler.NewDashboardHandler(cases),
		Audit:       handler.NewAuditHandler(auditRepo),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown: stop accepting, drain in-flight requests and
	// pending audit writes, stop the consumer, then close the pool via the
	// deferred Close.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	stopConsumer()
	recorder.Drain()
	logger.Info().Msg("stopped")
}
