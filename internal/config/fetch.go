package config

import (
	"github.com/spf13/pflag"
)

// FetchConfig holds configuration for the projects and users commands.
type FetchConfig struct {
	Networks  []NetworkConfig
	Network   string
	ProjectID string
	Client    ClientConfig
	LogLevel  string
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v, err := newViper(cfgFile, flags, clientDefaults())
	if err != nil {
		return FetchConfig{}, err
	}
	networks, err := loadNetworks(v)
	if err != nil {
		return FetchConfig{}, err
	}

	return FetchConfig{
		Networks:  networks,
		Network:   v.GetString("network"),
		ProjectID: v.GetString("project"),
		Client:    loadClient(v),
		LogLevel:  v.GetString("log-level"),
	}, nil
}
