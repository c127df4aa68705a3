package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnparseablePrice indicates a supplier price string that encodes no
// usable number. Callers skip the item rather than propagating NaN.
var ErrUnparseablePrice = errors.New("pricing: unparseable price")

// rangeSeparators are the tokens suppliers use between the low and high
// end of a price range, in the order they are tried. The bare hyphen is
// last and only honored when both sides parse, so "12.34" survives.
var rangeSeparators = []string{"--", "~", " - "}

// ParsedPrice is the typed result of parsing a supplier price field
type ParsedPrice struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	IsRange bool
}

// ParsePrice parses a supplier price that may be a plain number
// ("12.34") or a min/max range ("12.34 -- 18.00"). Currency symbols and
// surrounding whitespace are tolerated.
func ParsePrice(raw string) (ParsedPrice, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ParsedPrice{}, ErrUnparseablePrice
	}

	for _, sep := range rangeSeparators {
		if !strings.Contains(cleaned, sep) {
			continue
		}
		parts := strings.SplitN(cleaned, sep, 2)
		low, errLow := parseAmount(parts[0])
		high, errHigh := parseAmount(parts[1])
		if errLow != nil || errHigh != nil {
			return ParsedPrice{}, ErrUnparseablePrice
		}
		if high.LessThan(low) {
			low, high = high, low
		}
		return ParsedPrice{Min: low, Max: high, IsRange: true}, nil
	}

	amount, err := parseAmount(cleaned)
	if err != nil {
		return ParsedPrice{}, ErrUnparseablePrice
	}
	return ParsedPrice{Min: amount, Max: amount}, nil
}

// parseAmount parses a single monetary amount, stripping a leading
// currency symbol if present
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrUnparseablePrice
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrUnparseablePrice
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrUnparseablePrice
	}
	return amount, nil
}
