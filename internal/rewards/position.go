package rewards

import (
	"math/big"

	"morpheusScope/internal/model"
)

// CurrentPoolRate advances a stored pool rate by the reward emitted since its
// last update. The stored rate is returned when nothing is deposited.
func CurrentPoolRate(pool model.PoolRateData, periodReward *big.Int) *big.Int {
	rate := big.NewInt(0)
	if pool.Rate != nil {
		rate.Set(pool.Rate)
	}
	if periodReward == nil || periodReward.Sign() <= 0 {
		return rate
	}
	if pool.TotalVirtualDeposited == nil || pool.TotalVirtualDeposited.Sign() <= 0 {
		return rate
	}
	inc := new(big.Int).Mul(periodReward, rateScale)
	inc.Quo(inc, pool.TotalVirtualDeposited)
	return rate.Add(rate, inc)
}

// CurrentUserReward returns pending rewards plus what the user's weighted
// deposit earned between its stored rate and currentPoolRate.
func CurrentUserReward(currentPoolRate *big.Int, user model.UserRateData) *big.Int {
	reward := big.NewInt(0)
	if user.PendingRewards != nil {
		reward.Set(user.PendingRewards)
	}
	if currentPoolRate == nil {
		return reward
	}

	weight := user.VirtualDeposited
	if weight == nil || weight.Sign() == 0 {
		weight = user.Deposited
	}
	if weight == nil || weight.Sign() <= 0 {
		return reward
	}

	if user.Rate != nil && currentPoolRate.Cmp(user.Rate) <= 0 {
		return reward
	}
	return reward.Add(reward, CalculateBaseRewards(weight, currentPoolRate, user.Rate))
}
