package inline

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// DefaultCurrency is used when a price carries no recognizable unit.
const DefaultCurrency = "¥"

var (
	priceRe  = regexp.MustCompile(`(?i)^([¥$€£]?)\s*(\d+(?:\.\d{1,2})?)\s*(元|rmb)?$`)
	numberRe = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)
)

var currencySymbols = map[string]string{
	"¥":   "¥",
	"$":   "$",
	"€":   "€",
	"£":   "£",
	"元":   "¥",
	"rmb": "¥",
}

// Price is a parsed display price.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// String formats the price as currency symbol followed by the amount.
func (p Price) String() string {
	return p.Currency + strconv.FormatFloat(p.Value, 'f', -1, 64)
}

// ParsePrice reads prices written as "¥299", "$19.99", "299元" or "299 rmb".
// Fullwidth characters are folded first, so "￥２９９" reads as "¥299".
// Unparseable input falls back to the first number found, or zero.
func ParsePrice(s string) Price {
	clean := strings.TrimSpace(width.Fold.String(s))

	if m := priceRe.FindStringSubmatch(clean); m != nil {
		v, _ := strconv.ParseFloat(m[2], 64)
		cur := DefaultCurrency
		switch {
		case m[1] != "":
			cur = currencySymbols[m[1]]
		case m[3] != "":
			cur = currencySymbols[strings.ToLower(m[3])]
		}
		return Price{Value: v, Currency: cur}
	}

	if n := numberRe.FindString(clean); n != "" {
		v, _ := strconv.ParseFloat(n, 64)
		return Price{Value: v, Currency: DefaultCurrency}
	}
	return Price{Currency: DefaultCurrency}
}
