package analytics

import (
	"sort"
	"strings"
	"time"

	"trade-journal/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	time.RFC3339,
}

// ParseTradeDate parses the free-text date of a trade.
func ParseTradeDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortChronological returns a copy of records ordered by date ascending.
// Records with unparseable dates go last; ties keep their input order.
func SortChronological(records []model.Trade) []model.Trade {
	type keyed struct {
		at time.Time
		ok bool
	}
	keys := make([]keyed, len(records))
	idx := make([]int, len(records))
	for i, r := range records {
		at, ok := ParseTradeDate(r.Date)
		keys[i] = keyed{at: at, ok: ok}
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		if !ka.ok {
			return false
		}
		return ka.at.Before(kb.at)
	})

	out := make([]model.Trade, len(records))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}
