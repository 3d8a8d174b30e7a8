package rewards

import (
	"math/big"

	"github.com/shopspring/decimal"

	"morpheusScope/internal/numeric"
)

var (
	displayMin      = decimal.New(1, -2)
	displayThousand = decimal.New(1, 3)
)

// FormatRewardDisplay renders a wei-scale reward for display: values below 0.01
// collapse to "< 0.01" and large values use K/M suffixes. The suffix is chosen
// after rounding to two decimals.
func FormatRewardDisplay(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}
	value := decimal.NewFromBigInt(wei, -numeric.WeiDecimals)
	if value.LessThan(displayMin) {
		return "< 0.01"
	}

	if value.Round(2).LessThan(displayThousand) {
		return value.StringFixed(2)
	}
	thousands := value.Shift(-3)
	if thousands.Round(2).LessThan(displayThousand) {
		return thousands.StringFixed(2) + "K"
	}
	return value.Shift(-6).StringFixed(2) + "M"
}
