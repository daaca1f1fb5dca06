package repository

import (
	"context"
	"fmt"

	"trade-journal/pkg/utils"

	"gorm.io/gorm"
)

type UnitOfWork interface {
	Run(ctx context.Context, fn func(opts ...utils.DBOption) error) (err error)
}

type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{
		db: db,
	}
}

// Run executes fn inside a transaction bound to ctx; fn must pass opts to every
// repository call.
func (u *unitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) (err error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback()
		} else {
			if commitErr := tx.Commit().Error; commitErr != nil {
				err = fmt.Errorf("commit failed: %w", commitErr)
			}
		}
	}()

	err = fn(utils.WithTx(tx))
	return
}
