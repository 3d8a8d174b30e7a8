package numeric

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// WeiDecimals is the decimals count of MOR and most ERC20 amounts handled here.
	WeiDecimals = 18

	// FormatMissing is returned by FormatBigIntFixed when no value is available.
	FormatMissing = "---"
	// FormatError is returned by FormatBigIntFixed when the value cannot be formatted.
	FormatError = "Error"
)

var weiPerUnit = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(WeiDecimals), nil))

// ParseBigInt parses a base-10 integer string. Empty input parses as zero.
func ParseBigInt(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}

// ParseBigIntOrZero is ParseBigInt with malformed input mapped to zero.
func ParseBigIntOrZero(value string) *big.Int {
	parsed, err := ParseBigInt(value)
	if err != nil {
		return big.NewInt(0)
	}
	return parsed
}

// WeiToDecimal converts a wei-scale integer string into display units.
// Malformed input yields 0.
func WeiToDecimal(wei string) float64 {
	parsed, err := ParseBigInt(wei)
	if err != nil {
		return 0
	}
	return BigWeiToDecimal(parsed)
}

// BigWeiToDecimal converts the integer to float64 first and divides afterwards,
// so results match a double-precision conversion of the same integer.
func BigWeiToDecimal(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(wei).Float64()
	scale, _ := weiPerUnit.Float64()
	return f / scale
}

// FormatUnits renders value / 10^decimals exactly, trimming trailing zeros.
func FormatUnits(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}

// ParseUnits converts a human decimal string into an integer scaled by 10^decimals.
// Inputs with more fractional digits than decimals are rejected.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", amount, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatBigIntFixed renders value / 10^decimals with thousands separators and
// exactly precision fractional digits. A nil value renders as FormatMissing and
// unusable arguments render as FormatError.
func FormatBigIntFixed(value *big.Int, decimals, precision int) string {
	if value == nil {
		return FormatMissing
	}
	if decimals < 0 || precision < 0 || decimals > 255 || precision > 255 {
		return FormatError
	}

	text := decimal.NewFromBigInt(value, -int32(decimals)).StringFixed(int32(precision))

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(text, ".")
	out := sign + groupThousands(intPart)
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
