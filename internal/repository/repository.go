package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrDuplicate     = errors.New("record already exists")
)

type Repository struct {
	TradeRepo  TradeRepository
	UserRepo   UserRepository
	UnitOfWork UnitOfWork
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		TradeRepo:  NewTradeRepository(db),
		UserRepo:   NewUserRepository(db),
		UnitOfWork: NewUnitOfWork(db),
	}
}
