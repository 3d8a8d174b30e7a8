package distribution

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const distributionABIJSON = `[
  {
    "inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "name": "poolsData",
    "outputs": [
      {"internalType": "uint128", "name": "lastUpdate", "type": "uint128"},
      {"internalType": "uint256", "name": "rate", "type": "uint256"},
      {"internalType": "uint256", "name": "totalVirtualDeposited", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "", "type": "address"},
      {"internalType": "uint256", "name": "", "type": "uint256"}
    ],
    "name": "usersData",
    "outputs": [
      {"internalType": "uint128", "name": "lastStake", "type": "uint128"},
      {"internalType": "uint256", "name": "deposited", "type": "uint256"},
      {"internalType": "uint256", "name": "rate", "type": "uint256"},
      {"internalType": "uint256", "name": "pendingRewards", "type": "uint256"},
      {"internalType": "uint128", "name": "claimLockStart", "type": "uint128"},
      {"internalType": "uint128", "name": "claimLockEnd", "type": "uint128"},
      {"internalType": "uint256", "name": "virtualDeposited", "type": "uint256"},
      {"internalType": "uint128", "name": "lastClaim", "type": "uint128"},
      {"internalType": "address", "name": "referrer", "type": "address"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "poolId_", "type": "uint256"},
      {"internalType": "uint128", "name": "startTime_", "type": "uint128"},
      {"internalType": "uint128", "name": "endTime_", "type": "uint128"}
    ],
    "name": "getPeriodReward",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	distributionABI     abi.ABI
	distributionABIOnce sync.Once
	distributionABIErr  error
)

// ABI returns the parsed distribution contract ABI.
func ABI() (abi.ABI, error) {
	distributionABIOnce.Do(func() {
		distributionABI, distributionABIErr = abi.JSON(strings.NewReader(distributionABIJSON))
	})
	return distributionABI, distributionABIErr
}
