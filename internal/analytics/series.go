package analytics

import (
	"math"

	"trade-journal/internal/model"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

func pnls(records []model.Trade) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.PnL
	}
	return out
}

// EquityCurve is the running sum of PnL in input order. It never sorts.
func EquityCurve(records []model.Trade) []float64 {
	values := pnls(records)
	return floats.CumSum(make([]float64, len(values)), values)
}

// TotalPnL sums the PnL of all records.
func TotalPnL(records []model.Trade) float64 {
	return floats.Sum(pnls(records))
}

// WinRate is the share of records with strictly positive PnL, as a percentage
// with one decimal. An empty input yields "0".
func WinRate(records []model.Trade) string {
	if len(records) == 0 {
		return "0"
	}
	wins := 0
	for _, r := range records {
		if r.PnL > 0 {
			wins++
		}
	}
	rate := float64(wins) / float64(len(records)) * 100
	return decimal.NewFromFloat(rate).StringFixed(1)
}

// MaxDrawdown is the largest peak-to-value decline along the curve. The peak
// starts at 0, so an all-negative curve is measured from 0.
func MaxDrawdown(curve []float64) float64 {
	peak, maxDD := 0.0, 0.0
	for _, v := range curve {
		peak = math.Max(peak, v)
		maxDD = math.Max(maxDD, peak-v)
	}
	return maxDD
}

// FormatMoney renders v with two decimals.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
