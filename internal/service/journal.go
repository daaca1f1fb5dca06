package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"trade-journal/config"
	"trade-journal/internal/analytics"
	"trade-journal/internal/auth"
	"trade-journal/internal/dto"
	"trade-journal/internal/export"
	"trade-journal/internal/model"
	"trade-journal/internal/repository"
	"trade-journal/pkg/cache"
	"trade-journal/pkg/common"
	"trade-journal/pkg/logger"
	"trade-journal/pkg/metrics"
	"trade-journal/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
)

var (
	ErrUnauthenticated = errors.New("you must be signed in")
	ErrInvalidDraft    = errors.New("invalid trade")
)

type JournalService interface {
	ListForUser(ctx context.Context, ownerID string) ([]model.Trade, error)
	Save(ctx context.Context, user *auth.Identity, draft dto.TradeDraft, existingID string) (*model.Trade, error)
	Remove(ctx context.Context, user *auth.Identity, id string) error
	Preview(draft dto.TradeDraft) dto.PnLPreview
	Dashboard(ctx context.Context, user *auth.Identity) (*dto.Dashboard, error)
	PublicSummary(ctx context.Context) (*dto.PublicSummary, error)
	ExportCSV(ctx context.Context, user *auth.Identity, w io.Writer) error
}

type journalService struct {
	cfg       *config.Config
	log       *logger.Logger
	trades    repository.TradeRepository
	uow       repository.UnitOfWork
	cache     cache.Cache
	metrics   *metrics.Metrics
	validator *goValidator.Validate
}

func NewJournalService(
	cfg *config.Config,
	log *logger.Logger,
	trades repository.TradeRepository,
	uow repository.UnitOfWork,
	inmemoryCache cache.Cache,
	m *metrics.Metrics,
	validator *goValidator.Validate,
) JournalService {
	return &journalService{
		cfg:       cfg,
		log:       log,
		trades:    trades,
		uow:       uow,
		cache:     inmemoryCache,
		metrics:   m,
		validator: validator,
	}
}

// ListForUser returns the owner's trades in store order.
func (s *journalService) ListForUser(ctx context.Context, ownerID string) ([]model.Trade, error) {
	return s.trades.QueryByOwner(ctx, ownerID)
}

// Save inserts the draft as a new trade when existingID is empty and replaces
// every editable field of existingID otherwise. PnL is always recomputed.
func (s *journalService) Save(ctx context.Context, user *auth.Identity, draft dto.TradeDraft, existingID string) (*model.Trade, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	fields, err := s.draftFields(draft)
	if err != nil {
		return nil, err
	}

	operation := "insert"
	if existingID != "" {
		operation = "update"
	}

	var saved *model.Trade
	err = s.uow.Run(ctx, func(opts ...utils.DBOption) error {
		id := existingID
		if id == "" {
			newID, err := s.trades.Insert(ctx, user.ID, fields, opts...)
			if err != nil {
				return err
			}
			id = newID
		} else if err := s.trades.Update(ctx, user.ID, id, fields, opts...); err != nil {
			return err
		}

		trade, err := s.trades.Get(ctx, user.ID, id, opts...)
		if err != nil {
			return err
		}
		saved = trade
		return nil
	})
	if err != nil {
		s.log.WarnContext(ctx, "Failed to save trade",
			logger.StringField("operation", operation),
			logger.StringField("user_id", user.ID),
			logger.ErrorField(err),
		)
		return nil, err
	}

	s.metrics.RecordSave(operation)
	s.cache.Delete(common.KEY_PUBLIC_SUMMARY)
	s.log.InfoContext(ctx, "Trade saved",
		logger.StringField("operation", operation),
		logger.StringField("trade_id", saved.ID),
		logger.FloatField("pnl", saved.PnL),
	)
	return saved, nil
}

// Remove deletes the trade. Removing a trade that is already gone is a no-op.
func (s *journalService) Remove(ctx context.Context, user *auth.Identity, id string) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if err := s.trades.Delete(ctx, user.ID, id); err != nil {
		return err
	}

	s.metrics.RecordRemove()
	s.cache.Delete(common.KEY_PUBLIC_SUMMARY)
	s.log.InfoContext(ctx, "Trade removed", logger.StringField("trade_id", id))
	return nil
}

func (s *journalService) Preview(draft dto.TradeDraft) dto.PnLPreview {
	entry, exit, lot := draft.Entry.Amount(), draft.Exit.Amount(), draft.Lot.Amount()
	pnl := analytics.ComputePnL(entry.Float(), exit.Float(), lot.Float(), direction(draft.Direction))
	return dto.PnLPreview{
		PnL:     pnl,
		Display: analytics.FormatMoney(pnl),
		Entry:   entry,
		Exit:    exit,
		Lot:     lot,
	}
}

func (s *journalService) Dashboard(ctx context.Context, user *auth.Identity) (*dto.Dashboard, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	trades, err := s.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	ordered := s.order(trades)
	summary := analytics.Summarize(ordered)
	return &dto.Dashboard{
		Summary:            summary,
		TotalPnLDisplay:    analytics.FormatMoney(summary.TotalPnL),
		MaxDrawdownDisplay: "-" + analytics.FormatMoney(summary.MaxDrawdown),
		Trades:             ordered,
	}, nil
}

// PublicSummary is served from cache until the next save or remove, or until
// cache.public_summary_ttl passes.
func (s *journalService) PublicSummary(ctx context.Context) (*dto.PublicSummary, error) {
	if cached, ok := cache.GetFromCache[*dto.PublicSummary](s.cache, common.KEY_PUBLIC_SUMMARY); ok {
		return cached, nil
	}

	trades, err := s.trades.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := analytics.Summarize(s.order(trades))
	result := &dto.PublicSummary{
		TradeCount: summary.TradeCount,
		Equity:     summary.Equity,
	}
	s.cache.Set(common.KEY_PUBLIC_SUMMARY, result, s.cfg.Cache.PublicSummaryTTL)
	return result, nil
}

func (s *journalService) ExportCSV(ctx context.Context, user *auth.Identity, w io.Writer) error {
	if user == nil {
		return ErrUnauthenticated
	}
	trades, err := s.ListForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, s.order(trades))
}

func (s *journalService) order(trades []model.Trade) []model.Trade {
	if !s.cfg.Journal.SortByDate {
		return trades
	}
	return analytics.SortChronological(trades)
}

func (s *journalService) draftFields(draft dto.TradeDraft) (model.TradeFields, error) {
	if err := s.validator.Struct(draft); err != nil {
		return model.TradeFields{}, fmt.Errorf("%w: %s", ErrInvalidDraft, describeValidation(err))
	}

	entry, exit, lot := draft.Entry.Amount(), draft.Exit.Amount(), draft.Lot.Amount()
	checks := []struct {
		name  string
		value float64
	}{
		{"entry", entry.Float()},
		{"exit", exit.Float()},
		{"lot", lot.Float()},
	}
	for _, c := range checks {
		if c.value < 0 {
			return model.TradeFields{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidDraft, c.name)
		}
	}

	return analytics.ComputeFields(model.TradeFields{
		Date:       strings.TrimSpace(utils.CleanToValidUTF8(draft.Date)),
		Symbol:     strings.TrimSpace(utils.CleanToValidUTF8(draft.Symbol)),
		Direction:  direction(draft.Direction),
		EntryPrice: entry.Float(),
		ExitPrice:  exit.Float(),
		LotSize:    lot.Float(),
		Notes:      utils.CleanToValidUTF8(draft.Notes),
	}), nil
}

// direction defaults an empty value to Buy, like a fresh form.
func direction(raw string) model.Direction {
	if model.Direction(raw) == model.DirectionSell {
		return model.DirectionSell
	}
	return model.DirectionBuy
}

func describeValidation(err error) string {
	var verrs goValidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
