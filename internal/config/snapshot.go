package config

import (
	"time"

	"github.com/spf13/pflag"
)

// SnapshotConfig holds configuration for the snapshot command.
type SnapshotConfig struct {
	Networks    []NetworkConfig
	Client      ClientConfig
	Out         string
	PGDSN       string
	StateFile   string
	StateName   string
	MinInterval time.Duration
	LogLevel    string
}

// LoadSnapshot merges config file, environment variables, and flags into SnapshotConfig.
func LoadSnapshot(cfgFile string, flags *pflag.FlagSet) (SnapshotConfig, error) {
	defaults := clientDefaults()
	defaults["out"] = "./data/builders.jsonl"
	defaults["state-file"] = "./data/snapshot_state.json"
	defaults["state-name"] = "builders"
	defaults["min-interval"] = time.Duration(0)

	v, err := newViper(cfgFile, flags, defaults)
	if err != nil {
		return SnapshotConfig{}, err
	}
	networks, err := loadNetworks(v)
	if err != nil {
		return SnapshotConfig{}, err
	}

	return SnapshotConfig{
		Networks:    networks,
		Client:      loadClient(v),
		Out:         v.GetString("out"),
		PGDSN:       v.GetString("pg-dsn"),
		StateFile:   v.GetString("state-file"),
		StateName:   v.GetString("state-name"),
		MinInterval: v.GetDuration("min-interval"),
		LogLevel:    v.GetString("log-level"),
	}, nil
}
