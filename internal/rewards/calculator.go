package rewards

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"morpheusScope/internal/numeric"
)

const (
	// RateDecimals is the fixed-point scale of pool and user rates.
	RateDecimals = 25

	powerFactorDigits = 3
	yearsDigits       = 2
)

var (
	rateScale        = new(big.Int).Exp(big.NewInt(10), big.NewInt(RateDecimals), nil)
	powerFactorScale = big.NewInt(1000)
	yearsScale       = big.NewInt(100)
)

// Reason classifies a failed estimate.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonInvalidDepositAmount Reason = "invalid_deposit_amount"
	ReasonInvalidPoolRate      Reason = "invalid_pool_rate"
	ReasonCalculationFailed    Reason = "calculation_failed"
)

// Messages carried in Estimate.Error.
const (
	MsgInvalidDepositAmount = "Invalid deposit amount"
	MsgInvalidPoolRate      = "Invalid pool rate"
)

// Estimate is the outcome of an estimated-reward calculation. When IsValid is
// false only Error and Reason are meaningful.
type Estimate struct {
	IsValid      bool     `json:"isValid"`
	Error        string   `json:"error,omitempty"`
	Reason       Reason   `json:"reason,omitempty"`
	DepositWei   *big.Int `json:"depositWei,omitempty"`
	BaseRewards  *big.Int `json:"baseRewards,omitempty"`
	FinalRewards *big.Int `json:"finalRewards,omitempty"`
	PowerFactor  string   `json:"powerFactor,omitempty"`
	Formatted    string   `json:"formatted,omitempty"`
}

// EstimateOptions tunes CalculateEstimatedRewards.
type EstimateOptions struct {
	// UserRate is the position's stored rate; nil means a fresh position.
	UserRate *big.Int
	// Years projects the reward linearly over a lock duration. Zero disables it.
	Years float64
}

// CalculateBaseRewards returns deposit * (poolRate - userRate) / 10^25, truncated
// toward zero. A nil userRate counts as zero.
func CalculateBaseRewards(deposit, poolRate, userRate *big.Int) *big.Int {
	if deposit == nil || poolRate == nil {
		return big.NewInt(0)
	}
	delta := new(big.Int).Set(poolRate)
	if userRate != nil {
		delta.Sub(delta, userRate)
	}
	out := new(big.Int).Mul(deposit, delta)
	return out.Quo(out, rateScale)
}

// ParsePowerFactor parses an "x<number>" multiplier into thousandths.
func ParsePowerFactor(multiplier string) (*big.Int, error) {
	text := strings.TrimSpace(multiplier)
	if len(text) < 2 || (text[0] != 'x' && text[0] != 'X') {
		return nil, fmt.Errorf("invalid power factor %q", multiplier)
	}
	d, err := decimal.NewFromString(text[1:])
	if err != nil {
		return nil, fmt.Errorf("invalid power factor %q: %w", multiplier, err)
	}
	scaled := d.Shift(powerFactorDigits).Truncate(0).BigInt()
	if scaled.Sign() <= 0 {
		return nil, fmt.Errorf("power factor %q must be positive", multiplier)
	}
	return scaled, nil
}

// ApplyPowerFactor multiplies base by an "x<number>" multiplier at three decimal
// digits of precision. Unparseable or non-positive multipliers leave base unchanged.
func ApplyPowerFactor(base *big.Int, multiplier string) *big.Int {
	if base == nil {
		return big.NewInt(0)
	}
	scaled, err := ParsePowerFactor(multiplier)
	if err != nil {
		return new(big.Int).Set(base)
	}
	out := new(big.Int).Mul(base, scaled)
	return out.Quo(out, powerFactorScale)
}

// ProjectOverYears scales reward by years, using hundredths of a year.
// Non-positive years return reward unchanged.
func ProjectOverYears(reward *big.Int, years float64) *big.Int {
	if reward == nil {
		return big.NewInt(0)
	}
	if years <= 0 {
		return new(big.Int).Set(reward)
	}
	scaled := decimal.NewFromFloat(years).Shift(yearsDigits).Round(0).BigInt()
	out := new(big.Int).Mul(reward, scaled)
	return out.Quo(out, yearsScale)
}

// CalculateEstimatedRewards estimates the reward for depositing amount (a
// human decimal MOR string) at currentPoolRate with the given power factor.
// It never panics; any failure is reported through the returned Estimate.
func CalculateEstimatedRewards(amount string, currentPoolRate *big.Int, powerFactor string, opts EstimateOptions) (est Estimate) {
	defer func() {
		if r := recover(); r != nil {
			est = invalid(ReasonCalculationFailed, fmt.Sprintf("Calculation failed: %v", r))
		}
	}()

	deposit, err := numeric.ParseUnits(amount, numeric.WeiDecimals)
	if err != nil || deposit.Sign() <= 0 {
		return invalid(ReasonInvalidDepositAmount, MsgInvalidDepositAmount)
	}
	if currentPoolRate == nil || currentPoolRate.Sign() <= 0 {
		return invalid(ReasonInvalidPoolRate, MsgInvalidPoolRate)
	}

	base := CalculateBaseRewards(deposit, currentPoolRate, opts.UserRate)
	final := ApplyPowerFactor(base, powerFactor)
	final = ProjectOverYears(final, opts.Years)

	return Estimate{
		IsValid:      true,
		DepositWei:   deposit,
		BaseRewards:  base,
		FinalRewards: final,
		PowerFactor:  powerFactor,
		Formatted:    FormatRewardDisplay(final),
	}
}

func invalid(reason Reason, msg string) Estimate {
	return Estimate{IsValid: false, Error: msg, Reason: reason}
}
