package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// RewardsConfig holds configuration for the rewards commands.
type RewardsConfig struct {
	RPCURL       string
	Contract     string
	PoolID       string
	User         string
	Amount       string
	PoolRate     string
	PowerFactor  string
	Years        float64
	At           string
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadRewards merges config file, environment variables, and flags into RewardsConfig.
func LoadRewards(cfgFile string, flags *pflag.FlagSet) (RewardsConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"pool-id":       "0",
		"power-factor":  "x1",
		"years":         0.0,
		"max-retries":   5,
		"retry-backoff": 500 * time.Millisecond,
	})
	if err != nil {
		return RewardsConfig{}, err
	}

	return RewardsConfig{
		RPCURL:       v.GetString("rpc"),
		Contract:     v.GetString("contract"),
		PoolID:       v.GetString("pool-id"),
		User:         v.GetString("user"),
		Amount:       v.GetString("amount"),
		PoolRate:     v.GetString("pool-rate"),
		PowerFactor:  v.GetString("power-factor"),
		Years:        v.GetFloat64("years"),
		At:           v.GetString("at"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}

// ParseTimestamp parses a timestamp value (unix seconds or RFC3339).
func ParseTimestamp(input string) (uint64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}

	if isNumeric(input) {
		return strconv.ParseUint(input, 10, 64)
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return 0, err
	}
	return uint64(tm.Unix()), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
