package dto

import (
	"bytes"
	"encoding/json"

	"trade-journal/internal/analytics"
)

// NumericInput keeps a numeric form field exactly as submitted. It accepts a
// JSON number, a string, or null, so blank and garbage input reach the
// lenient parse step instead of failing request decoding.
type NumericInput string

func (n *NumericInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
	default:
		*n = NumericInput(b)
	}
	return nil
}

// Amount parses the raw input; invalid input is worth 0.
func (n NumericInput) Amount() analytics.Amount {
	return analytics.ParseAmount(string(n))
}

// TradeDraft is the unsaved form state of a trade. It has no id, owner or
// pnl: those are assigned by the store or computed on save.
type TradeDraft struct {
	Date      string       `json:"date" form:"date" validate:"max=32"`
	Symbol    string       `json:"symbol" form:"symbol" validate:"max=64"`
	Direction string       `json:"direction" form:"direction" validate:"omitempty,oneof=Buy Sell"`
	Entry     NumericInput `json:"entry" form:"entry"`
	Exit      NumericInput `json:"exit" form:"exit"`
	Lot       NumericInput `json:"lot" form:"lot"`
	Notes     string       `json:"notes" form:"notes" validate:"max=4000"`
}

// PnLPreview is the live P&L readout for a draft, with the parse outcome of
// each numeric field.
type PnLPreview struct {
	PnL     float64          `json:"pnl"`
	Display string           `json:"display"`
	Entry   analytics.Amount `json:"entry"`
	Exit    analytics.Amount `json:"exit"`
	Lot     analytics.Amount `json:"lot"`
}
