package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/crazycusti/ticket-desk/internal/config"
	"github.com/crazycusti/ticket-desk/internal/database"
	"github.com/crazycusti/ticket-desk/internal/handler"
	"github.com/crazycusti/ticket-desk/internal/kafka"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/crazycusti/ticket-desk/internal/router"
	"github.com/crazycusti/ticket-desk/internal/service"
	"github.com/gin-gonic/gin"
)

// API приложение: HTTP-сервер поверх хранилища тикетов.
type API struct {
	cfg      *config.Config
	engine   *database.Engine
	producer *kafka.Producer
	httpSrv  *http.Server
}

// NewStore builds the ticket store from config and waits for it to load.
func NewStore(ctx context.Context, cfg *config.Config) (*database.Engine, *service.TicketService, error) {
	engine := database.NewEngine(cfg.DataFile)
	if err := engine.EnsureInitialized(ctx); err != nil {
		return nil, nil, err
	}
	svc := service.NewTicketService(engine, service.WithMaxUIDAttempts(cfg.UIDMaxAttempts))
	return engine, svc, nil
}

// NewAPI создаёт приложение для режима api.
func NewAPI(ctx context.Context, cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	engine, ticketSvc, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)
	var events kafka.TicketEventProducer
	if producer.Enabled() {
		events = producer
	}

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := router.New(router.Deps{
		Tickets:   handler.NewTicketHandler(ticketSvc, events),
		Ready:     engine.EnsureInitialized,
		Operators: gin.Accounts{cfg.Operator.Username: cfg.Operator.Password},
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		engine:   engine,
		producer: producer,
		httpSrv:  httpSrv,
	}, nil
}

// Run запускает HTTP-сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	logger.Sugar.Infof("HTTP server listening on %s", a.httpSrv.Addr)
	logger.Sugar.Infof("  Health:        %s%s", base, router.PathHealth)
	logger.Sugar.Infof("  API v1:        %s/api/v1/tickets", base)
	logger.Sugar.Infof("  Data file:     %s", a.engine.Path())
	if a.producer.Enabled() {
		logger.Sugar.Infof("  Kafka topic:   %s", a.cfg.KafkaTopicTicket)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			a.close()
			return fmt.Errorf("http: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.close()
	return nil
}

func (a *API) close() {
	if err := a.producer.Close(); err != nil {
		logger.Sugar.Warnf("kafka: close: %v", err)
	}
	if err := a.engine.Close(); err != nil {
		logger.Sugar.Warnf("database: close: %v", err)
	}
}
