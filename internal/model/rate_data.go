package model

import "math/big"

// PoolRateData is a point-in-time read of a distribution pool's reward accumulator.
// Rate is scaled by 10^25.
type PoolRateData struct {
	PoolID                *big.Int
	LastUpdate            uint64
	Rate                  *big.Int
	TotalVirtualDeposited *big.Int
}

// UserRateData is a point-in-time read of one user's position in a distribution pool.
type UserRateData struct {
	PoolID           *big.Int
	User             string
	LastStake        uint64
	Deposited        *big.Int
	Rate             *big.Int
	PendingRewards   *big.Int
	ClaimLockStart   uint64
	ClaimLockEnd     uint64
	VirtualDeposited *big.Int
	LastClaim        uint64
	Referrer         string
}
