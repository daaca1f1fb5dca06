package model

import "time"

type Direction string

const (
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// Sign is +1 for Buy and -1 for Sell.
func (d Direction) Sign() float64 {
	if d == DirectionSell {
		return -1
	}
	return 1
}

func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// Trade is one logged trade. PnL is computed when the trade is written and
// stored alongside it; ID and OwnerID never change after insert.
type Trade struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID    string    `gorm:"not null;size:36;index" json:"owner_id"`
	Date       string    `gorm:"not null" json:"date"`
	Symbol     string    `gorm:"not null" json:"symbol"`
	Direction  Direction `gorm:"not null;size:4" json:"direction"`
	EntryPrice float64   `gorm:"not null" json:"entry"`
	ExitPrice  float64   `gorm:"not null" json:"exit"`
	LotSize    float64   `gorm:"not null" json:"lot"`
	Notes      string    `gorm:"not null;default:''" json:"notes"`
	PnL        float64   `gorm:"column:pnl;not null" json:"pnl"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}

// TradeFields are the editable fields of a trade plus its derived PnL.
type TradeFields struct {
	Date       string
	Symbol     string
	Direction  Direction
	EntryPrice float64
	ExitPrice  float64
	LotSize    float64
	Notes      string
	PnL        float64
}
