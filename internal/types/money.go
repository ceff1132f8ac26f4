// README: Common money value object used across modules (GBP whole pounds).
package types

import (
	"strconv"
	"strings"
)

const CurrencyGBP = "GBP"

type Money struct {
	Amount   int64
	Currency string
}

func GBP(amount int64) Money {
	return Money{Amount: amount, Currency: CurrencyGBP}
}

// String renders the amount with a currency symbol and thousands separators.
func (m Money) String() string {
	if m.Currency == "" || m.Currency == CurrencyGBP {
		return FormatGBP(m.Amount)
	}
	return m.Currency + " " + groupThousands(m.Amount)
}

// FormatGBP renders whole pounds as "£37,000".
func FormatGBP(amount int64) string {
	if amount < 0 {
		return "-£" + groupThousands(-amount)
	}
	return "£" + groupThousands(amount)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
