package service

import (
	"trade-journal/config"
	"trade-journal/internal/auth"
	"trade-journal/internal/repository"
	"trade-journal/pkg/cache"
	"trade-journal/pkg/logger"
	"trade-journal/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
)

type Service struct {
	JournalService JournalService
	Auth           *auth.Provider
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	authProvider *auth.Provider,
	m *metrics.Metrics,
	validator *goValidator.Validate,
) *Service {
	authProvider.Subscribe(func(ev auth.Event) {
		m.RecordAuthEvent(string(ev.Kind))
	})

	return &Service{
		JournalService: NewJournalService(cfg, log, repo.TradeRepo, repo.UnitOfWork, inmemoryCache, m, validator),
		Auth:           authProvider,
	}
}
