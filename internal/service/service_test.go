package service

import (
	"context"
	"testing"
	"time"

	"trade-journal/config"
	"trade-journal/internal/auth"
	"trade-journal/internal/repository"
	"trade-journal/internal/testutil"
	"trade-journal/pkg/cache"
	"trade-journal/pkg/logger"
	"trade-journal/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewService_CountsAuthEvents(t *testing.T) {
	cfg := testConfig(true)
	cfg.Auth = config.Auth{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost, SignInAttemptsPerMinute: 10}

	repo := repository.NewRepository(testutil.NewSQLite(t))
	c := cache.NewCache(time.Hour, time.Hour)
	validator := goValidator.New()
	provider := auth.NewProvider(cfg.Auth, logger.NewNop(), repo.UserRepo, c, validator)
	m := metrics.New(prometheus.NewRegistry())

	svc := NewService(cfg, logger.NewNop(), repo, c, provider, m, validator)
	require.NotNil(t, svc.JournalService)

	ctx := context.Background()
	session, err := svc.Auth.SignUp(ctx, "trader@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, svc.Auth.SignOut(ctx, session.Token))

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.AuthEventsTotal.WithLabelValues(string(auth.EventSignUp))))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.AuthEventsTotal.WithLabelValues(string(auth.EventSignOut))))

	saved, err := svc.JournalService.Save(ctx, &session.User, draft("2024-01-01", "X", "Buy", "1", "3", "1", ""), "")
	require.NoError(t, err)
	assert.Equal(t, 2.0, saved.PnL)
}
