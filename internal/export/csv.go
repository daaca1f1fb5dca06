package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"trade-journal/internal/model"
)

const Header = "Date,Symbol,Direction,Entry,Exit,Lot,PnL,Notes"

// WriteCSV writes one header row and one row per trade in slice order. Only
// the Notes column is quoted; embedded quotes are doubled.
func WriteCSV(w io.Writer, trades []model.Trade) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, t := range trades {
		row := strings.Join([]string{
			t.Date,
			t.Symbol,
			string(t.Direction),
			number(t.EntryPrice),
			number(t.ExitPrice),
			number(t.LotSize),
			number(t.PnL),
			quote(t.Notes),
		}, ",")
		if _, err := bw.WriteString(row + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
