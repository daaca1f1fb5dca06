package analytics

import "trade-journal/internal/model"

type EquityPoint struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}

type Summary struct {
	TradeCount  int           `json:"trade_count"`
	Wins        int           `json:"wins"`
	Losses      int           `json:"losses"`
	TotalPnL    float64       `json:"total_pnl"`
	WinRate     string        `json:"win_rate"`
	MaxDrawdown float64       `json:"max_drawdown"`
	Equity      []EquityPoint `json:"equity"`
}

// Summarize derives all dashboard statistics from records in the given order.
func Summarize(records []model.Trade) Summary {
	curve := EquityCurve(records)
	s := Summary{
		TradeCount:  len(records),
		TotalPnL:    TotalPnL(records),
		WinRate:     WinRate(records),
		MaxDrawdown: MaxDrawdown(curve),
		Equity:      make([]EquityPoint, len(records)),
	}
	for i, r := range records {
		switch {
		case r.PnL > 0:
			s.Wins++
		case r.PnL < 0:
			s.Losses++
		}
		s.Equity[i] = EquityPoint{Date: r.Date, Equity: curve[i]}
	}
	return s
}
