package dto

import (
	"trade-journal/internal/analytics"
	"trade-journal/internal/model"
)

type Dashboard struct {
	analytics.Summary
	TotalPnLDisplay    string        `json:"total_pnl_display"`
	MaxDrawdownDisplay string        `json:"max_drawdown_display"`
	Trades             []model.Trade `json:"trades"`
}

// PublicSummary is the unauthenticated view across all users. It carries no
// owner information.
type PublicSummary struct {
	TradeCount int                     `json:"trade_count"`
	Equity     []analytics.EquityPoint `json:"equity"`
}
