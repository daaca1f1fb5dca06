package analytics

import (
	"math"

	"trade-journal/internal/model"
)

// ComputePnL returns (exit - entry) * lot, negated for Sell. A NaN input or a
// non-finite result yields 0, and negative zero is normalized to 0.
func ComputePnL(entry, exit, lot float64, direction model.Direction) float64 {
	pnl := (exit - entry) * lot * direction.Sign()
	if math.IsNaN(pnl) || math.IsInf(pnl, 0) || pnl == 0 {
		return 0
	}
	return pnl
}

// ComputeFields fills in PnL for the given editable fields.
func ComputeFields(f model.TradeFields) model.TradeFields {
	f.PnL = ComputePnL(f.EntryPrice, f.ExitPrice, f.LotSize, f.Direction)
	return f
}
