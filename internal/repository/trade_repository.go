package repository

import (
	"context"
	"errors"
	"fmt"

	"trade-journal/internal/model"
	"trade-journal/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TradeRepository is the trade store. Every per-record operation is scoped to
// its owner, so a caller can never touch another user's trades.
type TradeRepository interface {
	Insert(ctx context.Context, ownerID string, fields model.TradeFields, opts ...utils.DBOption) (string, error)
	Update(ctx context.Context, ownerID, id string, fields model.TradeFields, opts ...utils.DBOption) error
	Delete(ctx context.Context, ownerID, id string, opts ...utils.DBOption) error
	Get(ctx context.Context, ownerID, id string, opts ...utils.DBOption) (*model.Trade, error)
	QueryByOwner(ctx context.Context, ownerID string) ([]model.Trade, error)
	QueryAll(ctx context.Context) ([]model.Trade, error)
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{
		db: db,
	}
}

const nativeOrder = "created_at ASC, id ASC"

func (r *tradeRepository) Insert(ctx context.Context, ownerID string, fields model.TradeFields, opts ...utils.DBOption) (string, error) {
	trade := model.Trade{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Date:       fields.Date,
		Symbol:     fields.Symbol,
		Direction:  fields.Direction,
		EntryPrice: fields.EntryPrice,
		ExitPrice:  fields.ExitPrice,
		LotSize:    fields.LotSize,
		Notes:      fields.Notes,
		PnL:        fields.PnL,
	}

	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Create(&trade).Error; err != nil {
		return "", fmt.Errorf("insert trade: %w", err)
	}
	return trade.ID, nil
}

func (r *tradeRepository) Update(ctx context.Context, ownerID, id string, fields model.TradeFields, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	// A map so zero values (empty notes, 0 prices) are written too.
	result := tx.Model(&model.Trade{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{
			"date":        fields.Date,
			"symbol":      fields.Symbol,
			"direction":   fields.Direction,
			"entry_price": fields.EntryPrice,
			"exit_price":  fields.ExitPrice,
			"lot_size":    fields.LotSize,
			"notes":       fields.Notes,
			"pnl":         fields.PnL,
		})
	if result.Error != nil {
		return fmt.Errorf("update trade %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTradeNotFound
	}
	return nil
}

// Delete removes the trade permanently. Deleting a trade that does not exist
// (or belongs to someone else) affects nothing and is not an error.
func (r *tradeRepository) Delete(ctx context.Context, ownerID, id string, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Trade{}).Error; err != nil {
		return fmt.Errorf("delete trade %s: %w", id, err)
	}
	return nil
}

func (r *tradeRepository) Get(ctx context.Context, ownerID, id string, opts ...utils.DBOption) (*model.Trade, error) {
	var trade model.Trade
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trade %s: %w", id, err)
	}
	return &trade, nil
}

func (r *tradeRepository) QueryByOwner(ctx context.Context, ownerID string) ([]model.Trade, error) {
	trades, err := r.find(ctx, utils.WithWhere("owner_id = ?", ownerID))
	if err != nil {
		return nil, fmt.Errorf("query trades by owner: %w", err)
	}
	return trades, nil
}

func (r *tradeRepository) QueryAll(ctx context.Context) ([]model.Trade, error) {
	trades, err := r.find(ctx)
	if err != nil {
		return nil, fmt.Errorf("query all trades: %w", err)
	}
	return trades, nil
}

// find returns the matching trades in store-native order.
func (r *tradeRepository) find(ctx context.Context, opts ...utils.DBOption) ([]model.Trade, error) {
	trades := []model.Trade{}
	opts = append(opts, utils.WithOrder(nativeOrder))
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}
