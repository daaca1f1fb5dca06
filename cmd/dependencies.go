package cmd

import (
	"trade-journal/config"
	"trade-journal/internal/auth"
	"trade-journal/internal/model"
	"trade-journal/internal/repository"
	"trade-journal/internal/service"
	"trade-journal/pkg/cache"
	"trade-journal/pkg/database"
	"trade-journal/pkg/logger"
	"trade-journal/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type AppDependency struct {
	db        *database.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding, logger.WithEntryCounter(m.LogEntriesTotal))
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	// sqlite has no migration files; its schema comes from the models.
	if cfg.DB.Driver == database.DriverSQLite {
		if err := db.AutoMigrate(&model.User{}, &model.Trade{}); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		registry:  registry,
		metrics:   m,
	}, nil
}

// Services wires the repositories, auth provider and journal service.
func (d *AppDependency) Services() *service.Service {
	repo := repository.NewRepository(d.db.DB)
	provider := auth.NewProvider(d.cfg.Auth, d.log, repo.UserRepo, d.cache, d.validator)
	return service.NewService(d.cfg, d.log, repo, d.cache, provider, d.metrics, d.validator)
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	_ = d.log.Sync()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
