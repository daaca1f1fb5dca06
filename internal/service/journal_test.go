package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"trade-journal/config"
	"trade-journal/internal/auth"
	"trade-journal/internal/dto"
	"trade-journal/internal/model"
	"trade-journal/internal/repository"
	"trade-journal/internal/testutil"
	"trade-journal/pkg/cache"
	"trade-journal/pkg/logger"
	"trade-journal/pkg/metrics"
	"trade-journal/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var alice = &auth.Identity{ID: "alice-id", Email: "alice@example.com"}

func testConfig(sortByDate bool) *config.Config {
	return &config.Config{
		Cache:   config.Cache{PublicSummaryTTL: time.Minute},
		Journal: config.Journal{SortByDate: sortByDate},
	}
}

func newJournal(t *testing.T, sortByDate bool) (JournalService, *metrics.Metrics) {
	t.Helper()
	repo := repository.NewRepository(testutil.NewSQLite(t))
	m := metrics.New(prometheus.NewRegistry())
	svc := NewJournalService(
		testConfig(sortByDate),
		logger.NewNop(),
		repo.TradeRepo,
		repo.UnitOfWork,
		cache.NewCache(time.Minute, time.Minute),
		m,
		goValidator.New(),
	)
	return svc, m
}

func draft(date, symbol, direction, entry, exit, lot, notes string) dto.TradeDraft {
	return dto.TradeDraft{
		Date:      date,
		Symbol:    symbol,
		Direction: direction,
		Entry:     dto.NumericInput(entry),
		Exit:      dto.NumericInput(exit),
		Lot:       dto.NumericInput(lot),
		Notes:     notes,
	}
}

func TestSave_RequiresUser(t *testing.T) {
	svc, _ := newJournal(t, true)

	_, err := svc.Save(context.Background(), nil, draft("2024-01-01", "EURUSD", "Buy", "1", "2", "1", ""), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, m := newJournal(t, true)

	d := draft("2024-01-02", "EURUSD", "Buy", "100", "110", "2", "clean breakout")
	saved, err := svc.Save(ctx, alice, d, "")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, alice.ID, saved.OwnerID)

	trades, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	got := trades[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, d.Date, got.Date)
	assert.Equal(t, d.Symbol, got.Symbol)
	assert.Equal(t, model.DirectionBuy, got.Direction)
	assert.Equal(t, 100.0, got.EntryPrice)
	assert.Equal(t, 110.0, got.ExitPrice)
	assert.Equal(t, 2.0, got.LotSize)
	assert.Equal(t, d.Notes, got.Notes)
	assert.Equal(t, 20.0, got.PnL)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.TradesSavedTotal.WithLabelValues("insert")))
}

func TestSave_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		draft dto.TradeDraft
		want  float64
	}{
		{"buy", draft("2024-01-01", "X", "Buy", "100", "110", "2", ""), 20},
		{"sell", draft("2024-01-01", "X", "Sell", "100", "110", "2", ""), -20},
		{"blank entry", draft("2024-01-01", "X", "Buy", "", "50", "1", ""), 50},
		{"garbage lot", draft("2024-01-01", "X", "Buy", "10", "50", "lots", ""), 0},
		{"empty direction defaults to buy", draft("2024-01-01", "X", "", "10", "15", "1", ""), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newJournal(t, true)
			saved, err := svc.Save(context.Background(), alice, tt.draft, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, saved.PnL)
		})
	}
}

func TestSave_RejectsInvalidDraft(t *testing.T) {
	svc, _ := newJournal(t, true)
	ctx := context.Background()

	_, err := svc.Save(ctx, alice, draft("2024-01-01", "X", "Hold", "1", "2", "1", ""), "")
	assert.ErrorIs(t, err, ErrInvalidDraft)
	assert.Contains(t, err.Error(), "direction must be one of: Buy Sell")

	_, err = svc.Save(ctx, alice, draft("2024-01-01", "X", "Buy", "-1", "2", "1", ""), "")
	assert.ErrorIs(t, err, ErrInvalidDraft)
	assert.Contains(t, err.Error(), "entry must not be negative")

	trades, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSave_UpdateRecomputesPnL(t *testing.T) {
	ctx := context.Background()
	svc, m := newJournal(t, true)

	saved, err := svc.Save(ctx, alice, draft("2024-01-02", "EURUSD", "Buy", "100", "110", "2", "first"), "")
	require.NoError(t, err)

	updated, err := svc.Save(ctx, alice, draft("2024-01-03", "GBPUSD", "Sell", "100", "110", "2", ""), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, alice.ID, updated.OwnerID)
	assert.Equal(t, "GBPUSD", updated.Symbol)
	assert.Equal(t, "", updated.Notes)
	assert.Equal(t, -20.0, updated.PnL)

	trades, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.TradesSavedTotal.WithLabelValues("update")))
}

func TestSave_UpdateUnknownOrForeign(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournal(t, true)

	_, err := svc.Save(ctx, alice, draft("2024-01-02", "X", "Buy", "1", "2", "1", ""), "does-not-exist")
	assert.ErrorIs(t, err, repository.ErrTradeNotFound)

	saved, err := svc.Save(ctx, alice, draft("2024-01-02", "X", "Buy", "1", "2", "1", ""), "")
	require.NoError(t, err)

	bob := &auth.Identity{ID: "bob-id"}
	_, err = svc.Save(ctx, bob, draft("2024-01-02", "Y", "Sell", "1", "2", "1", ""), saved.ID)
	assert.ErrorIs(t, err, repository.ErrTradeNotFound)
}

func TestRemove_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, m := newJournal(t, true)

	keep, err := svc.Save(ctx, alice, draft("2024-01-01", "KEEP", "Buy", "1", "2", "1", ""), "")
	require.NoError(t, err)
	gone, err := svc.Save(ctx, alice, draft("2024-01-02", "GONE", "Buy", "1", "2", "1", ""), "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, alice, gone.ID))
	require.NoError(t, svc.Remove(ctx, alice, gone.ID))

	trades, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, keep.ID, trades[0].ID)
	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.TradesRemovedTotal))

	assert.ErrorIs(t, svc.Remove(ctx, nil, keep.ID), ErrUnauthenticated)
}

func TestPreview(t *testing.T) {
	svc, _ := newJournal(t, true)

	p := svc.Preview(draft("", "", "Sell", "100", "110", "2", ""))
	assert.Equal(t, -20.0, p.PnL)
	assert.Equal(t, "-20.00", p.Display)
	assert.True(t, p.Entry.Valid)

	p = svc.Preview(draft("", "", "Buy", "", "50", "1", ""))
	assert.Equal(t, "50.00", p.Display)
	assert.False(t, p.Entry.Valid)
	assert.True(t, p.Exit.Valid)
}

func TestDashboard_SortsChronologically(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournal(t, true)

	// saved out of date order
	for _, d := range []dto.TradeDraft{
		draft("2024-01-03", "C", "Buy", "0", "6", "1", ""),
		draft("2024-01-01", "A", "Buy", "0", "5", "1", ""),
		draft("2024-01-04", "D", "Sell", "0", "5", "1", ""),
		draft("2024-01-02", "B", "Sell", "0", "3", "1", ""),
	} {
		_, err := svc.Save(ctx, alice, d, "")
		require.NoError(t, err)
	}

	dash, err := svc.Dashboard(ctx, alice)
	require.NoError(t, err)

	require.Len(t, dash.Trades, 4)
	assert.Equal(t, []string{"A", "B", "C", "D"}, []string{dash.Trades[0].Symbol, dash.Trades[1].Symbol, dash.Trades[2].Symbol, dash.Trades[3].Symbol})
	equity := make([]float64, len(dash.Equity))
	for i, p := range dash.Equity {
		equity[i] = p.Equity
	}
	assert.Equal(t, []float64{5, 2, 8, 3}, equity)
	assert.Equal(t, "2024-01-01", dash.Equity[0].Date)
	assert.Equal(t, 3.0, dash.TotalPnL)
	assert.Equal(t, "3.00", dash.TotalPnLDisplay)
	assert.Equal(t, "50.0", dash.WinRate)
	assert.Equal(t, 5.0, dash.MaxDrawdown)
	assert.Equal(t, "-5.00", dash.MaxDrawdownDisplay)
	assert.Equal(t, 2, dash.Wins)
	assert.Equal(t, 2, dash.Losses)
}

func TestDashboard_Empty(t *testing.T) {
	svc, _ := newJournal(t, true)

	dash, err := svc.Dashboard(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "0", dash.WinRate)
	assert.Equal(t, 0, dash.TradeCount)
	assert.Empty(t, dash.Equity)
	assert.Equal(t, "-0.00", dash.MaxDrawdownDisplay)

	_, err = svc.Dashboard(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPublicSummary_AcrossUsersAndInvalidated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournal(t, true)
	bob := &auth.Identity{ID: "bob-id"}

	_, err := svc.Save(ctx, alice, draft("2024-01-02", "A", "Buy", "0", "5", "1", ""), "")
	require.NoError(t, err)

	first, err := svc.PublicSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TradeCount)

	_, err = svc.Save(ctx, bob, draft("2024-01-01", "B", "Sell", "0", "2", "1", ""), "")
	require.NoError(t, err)

	second, err := svc.PublicSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, second.TradeCount)
	assert.Equal(t, "2024-01-01", second.Equity[0].Date)
	assert.Equal(t, -2.0, second.Equity[0].Equity)
	assert.Equal(t, 3.0, second.Equity[1].Equity)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournal(t, true)

	_, err := svc.Save(ctx, alice, draft("2024-01-02", "EURUSD", "Buy", "100", "110", "2", `a "quoted" note`), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, alice, &buf))
	assert.Equal(t,
		"Date,Symbol,Direction,Entry,Exit,Lot,PnL,Notes\n"+
			"2024-01-02,EURUSD,Buy,100,110,2,20,\"a \"\"quoted\"\" note\"\n",
		buf.String())

	assert.ErrorIs(t, svc.ExportCSV(ctx, nil, &buf), ErrUnauthenticated)
}

type mockTradeRepository struct {
	mock.Mock
}

func (m *mockTradeRepository) Insert(ctx context.Context, ownerID string, fields model.TradeFields, opts ...utils.DBOption) (string, error) {
	args := m.Called(ctx, ownerID, fields)
	return args.String(0), args.Error(1)
}

func (m *mockTradeRepository) Update(ctx context.Context, ownerID, id string, fields model.TradeFields, opts ...utils.DBOption) error {
	return m.Called(ctx, ownerID, id, fields).Error(0)
}

func (m *mockTradeRepository) Delete(ctx context.Context, ownerID, id string, opts ...utils.DBOption) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *mockTradeRepository) Get(ctx context.Context, ownerID, id string, opts ...utils.DBOption) (*model.Trade, error) {
	args := m.Called(ctx, ownerID, id)
	trade, _ := args.Get(0).(*model.Trade)
	return trade, args.Error(1)
}

func (m *mockTradeRepository) QueryByOwner(ctx context.Context, ownerID string) ([]model.Trade, error) {
	args := m.Called(ctx, ownerID)
	trades, _ := args.Get(0).([]model.Trade)
	return trades, args.Error(1)
}

func (m *mockTradeRepository) QueryAll(ctx context.Context) ([]model.Trade, error) {
	args := m.Called(ctx)
	trades, _ := args.Get(0).([]model.Trade)
	return trades, args.Error(1)
}

type directUnitOfWork struct{}

func (directUnitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

func newMockedJournal(repo *mockTradeRepository, sortByDate bool) JournalService {
	return NewJournalService(
		testConfig(sortByDate),
		logger.NewNop(),
		repo,
		directUnitOfWork{},
		cache.NewCache(time.Minute, time.Minute),
		nil,
		goValidator.New(),
	)
}

func TestStoreFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")
	repo := new(mockTradeRepository)
	repo.On("QueryByOwner", ctx, alice.ID).Return(nil, storeErr)
	repo.On("QueryAll", ctx).Return(nil, storeErr)
	repo.On("Delete", ctx, alice.ID, "t1").Return(storeErr)
	repo.On("Insert", ctx, alice.ID, mock.Anything).Return("", storeErr)

	svc := newMockedJournal(repo, true)

	_, err := svc.Dashboard(ctx, alice)
	assert.ErrorIs(t, err, storeErr)
	_, err = svc.PublicSummary(ctx)
	assert.ErrorIs(t, err, storeErr)
	assert.ErrorIs(t, svc.Remove(ctx, alice, "t1"), storeErr)
	_, err = svc.Save(ctx, alice, draft("2024-01-01", "X", "Buy", "1", "2", "1", ""), "")
	assert.ErrorIs(t, err, storeErr)

	repo.AssertExpectations(t)
}

func TestDashboard_StoreOrderWhenSortingDisabled(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTradeRepository)
	repo.On("QueryByOwner", ctx, alice.ID).Return([]model.Trade{
		{Date: "2024-03-01", PnL: 5},
		{Date: "2024-01-01", PnL: -3},
		{Date: "2024-02-01", PnL: 2},
	}, nil)

	dash, err := newMockedJournal(repo, false).Dashboard(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2.0, dash.Equity[1].Equity)
	assert.Equal(t, "2024-03-01", dash.Equity[0].Date)
	assert.Equal(t, 4.0, dash.Equity[2].Equity)
}

func TestPublicSummary_Cached(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTradeRepository)
	repo.On("QueryAll", ctx).Return([]model.Trade{{Date: "2024-01-01", PnL: 1}}, nil).Once()

	svc := newMockedJournal(repo, true)
	for i := 0; i < 3; i++ {
		summary, err := svc.PublicSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.TradeCount)
	}
	repo.AssertNumberOfCalls(t, "QueryAll", 1)
}

func TestSave_ComputesPnLBeforeStore(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTradeRepository)
	want := model.TradeFields{
		Date:       "2024-01-01",
		Symbol:     "X",
		Direction:  model.DirectionSell,
		EntryPrice: 100,
		ExitPrice:  110,
		LotSize:    2,
		PnL:        -20,
	}
	repo.On("Insert", ctx, alice.ID, want).Return("t1", nil)
	repo.On("Get", ctx, alice.ID, "t1").Return(&model.Trade{ID: "t1", OwnerID: alice.ID, PnL: -20}, nil)

	saved, err := newMockedJournal(repo, true).Save(ctx, alice, draft(" 2024-01-01 ", " X ", "Sell", "100", "110", "2", ""), "")
	require.NoError(t, err)
	assert.Equal(t, "t1", saved.ID)
	repo.AssertExpectations(t)
}

func TestSave_CanceledContext(t *testing.T) {
	svc, _ := newJournal(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Save(ctx, alice, draft("2024-01-01", "X", "Buy", "1", "2", "1", ""), "")
	assert.ErrorIs(t, err, context.Canceled)

	trades, err := svc.ListForUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, trades)
}
