package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/go-cart/internal/cfg"
	v1Http "github.com/DRSN-tech/go-cart/internal/delivery/v1/http"
	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/infrastructure/kafka"
	"github.com/DRSN-tech/go-cart/internal/infrastructure/slot"
	"github.com/DRSN-tech/go-cart/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/go-cart/internal/repository/minio"
	"github.com/DRSN-tech/go-cart/internal/repository/pgdb"
	"github.com/DRSN-tech/go-cart/internal/repository/redis"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/internal/view"
	"github.com/DRSN-tech/go-cart/pkg/clients"
	"github.com/DRSN-tech/go-cart/pkg/closer"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/DRSN-tech/go-cart/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App собирает хранилище слотов, сервис корзины и HTTP-сервер.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}

	slotRepo, err := a.initSlot()
	if err != nil {
		a.closeResources()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	retrying := slot.NewRetryingSlot(
		slotRepo,
		cfg.Slot.RetryAttempts,
		cfg.Slot.RetryBase,
		cfg.Slot.RetryMax,
		cfg.Slot.OpTimeout,
		logger,
	)
	logger.Infof("cart slot: %s", retrying)

	var observers []usecase.Observer
	if cfg.Kafka != nil {
		publisher := kafka.NewCartEventPublisher(logger, cfg.Kafka)
		if err := publisher.EnsureTopic(initTimeout); err != nil {
			a.closeResources()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("kafka", func(context.Context) error { return publisher.Close() })
		observers = append(observers, publisher)
	}

	settings := usecase.CartSettings{
		Key:          cfg.Slot.Key,
		DefaultColor: cfg.Cart.DefaultColor,
		Pricing: domain.Pricing{
			FreeShippingThreshold: cfg.Cart.FreeShippingThreshold,
			ShippingFee:           cfg.Cart.ShippingFee,
			TaxRate:               cfg.Cart.TaxRate,
		},
	}
	cartService := usecase.NewCartService(retrying, settings, logger, observers...)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, cfg.Slot, logger)
	router.Init(cartService, view.MustTemplates(), view.NewStepper(cfg.Cart.StepperMin, cfg.Cart.StepperMax))

	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала или ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resources closed with errors: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// initSlot создаёт хранилище слотов по SLOT_DRIVER и регистрирует его закрытие.
func (a *App) initSlot() (usecase.SlotRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	switch a.cfg.Slot.Driver {
	case config.DriverMemory:
		a.logger.Warnf("in-memory cart slot: carts are lost on restart")
		return memory.NewSlotRepo(), nil

	case config.DriverRedis:
		redisClient := clients.NewRedisClient(a.cfg.Redis)
		a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
		if err := redisClient.Ping(ctx); err != nil {
			a.logger.Errorf(err, "failed to connect to redis")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return redis.NewSlotRepo(redisClient, a.cfg.Redis), nil

	case config.DriverPostgres:
		db, err := initPGDB(a.logger, a.cfg)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.AddFunc("postgres", db.Close)
		return pgdb.NewSlotRepo(db.Pool), nil

	case config.DriverMinio:
		minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
		if err != nil {
			a.logger.Errorf(err, "failed to initialize minio client")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
			a.logger.Errorf(err, "failed to initialize MinIO bucket")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return s3Repo.NewSlotRepo(minioClient, a.cfg.Minio), nil

	default:
		return nil, e.Wrap(a.cfg.Slot.Driver, e.ErrUnknownSlotDriver)
	}
}

func (a *App) closeResources() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("resources closed with errors: %v", err)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
