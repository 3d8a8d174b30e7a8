package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MORPHEUS"

// NetworkConfig describes one subgraph endpoint.
type NetworkConfig struct {
	Name     string `mapstructure:"name"`
	ChainID  int64  `mapstructure:"chain-id"`
	Endpoint string `mapstructure:"endpoint"`
	Schema   string `mapstructure:"schema"`
}

// ClientConfig tunes the GraphQL client.
type ClientConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	DebounceWindow time.Duration
	MinSpacing     time.Duration
	MaxJitter      time.Duration
	HTTPTimeout    time.Duration
	PageSize       int
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func clientDefaults() map[string]interface{} {
	return map[string]interface{}{
		"max-retries":     5,
		"initial-backoff": time.Second,
		"debounce-window": 2 * time.Second,
		"min-spacing":     250 * time.Millisecond,
		"max-jitter":      250 * time.Millisecond,
		"http-timeout":    30 * time.Second,
		"page-size":       100,
		"schema":          "canonical",
	}
}

func loadClient(v *viper.Viper) ClientConfig {
	return ClientConfig{
		MaxRetries:     v.GetInt("max-retries"),
		InitialBackoff: v.GetDuration("initial-backoff"),
		DebounceWindow: v.GetDuration("debounce-window"),
		MinSpacing:     v.GetDuration("min-spacing"),
		MaxJitter:      v.GetDuration("max-jitter"),
		HTTPTimeout:    v.GetDuration("http-timeout"),
		PageSize:       v.GetInt("page-size"),
	}
}

// loadNetworks reads the networks list and appends an ad-hoc network when an
// endpoint is given directly.
func loadNetworks(v *viper.Viper) ([]NetworkConfig, error) {
	var networks []NetworkConfig
	if v.IsSet("networks") {
		switch raw := v.Get("networks").(type) {
		case string:
			parsed, err := ParseNetworkList(raw)
			if err != nil {
				return nil, err
			}
			networks = parsed
		default:
			if err := v.UnmarshalKey("networks", &networks); err != nil {
				return nil, fmt.Errorf("parse networks: %w", err)
			}
		}
	}

	if endpoint := strings.TrimSpace(v.GetString("endpoint")); endpoint != "" {
		name := strings.TrimSpace(v.GetString("network"))
		if name == "" {
			name = "custom"
		}
		adhoc := NetworkConfig{
			Name:     name,
			ChainID:  v.GetInt64("chain-id"),
			Endpoint: endpoint,
			Schema:   v.GetString("schema"),
		}
		replaced := false
		for i := range networks {
			if networks[i].Name == name {
				networks[i] = adhoc
				replaced = true
			}
		}
		if !replaced {
			networks = append(networks, adhoc)
		}
	}

	for i := range networks {
		networks[i].Name = strings.TrimSpace(networks[i].Name)
		networks[i].Endpoint = strings.TrimSpace(networks[i].Endpoint)
		if networks[i].Schema == "" {
			networks[i].Schema = "canonical"
		}
	}
	return networks, nil
}

// ParseNetworkList parses "name,chainId,endpoint[,schema]" entries separated
// by semicolons, the form networks take in environment variables.
func ParseNetworkList(input string) ([]NetworkConfig, error) {
	var out []NetworkConfig
	for _, entry := range strings.Split(input, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := cleanStrings(strings.Split(entry, ","))
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("invalid network entry %q: want name,chainId,endpoint[,schema]", entry)
		}
		chainID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id in %q: %w", entry, err)
		}
		network := NetworkConfig{Name: parts[0], ChainID: chainID, Endpoint: parts[2]}
		if len(parts) == 4 {
			network.Schema = parts[3]
		}
		out = append(out, network)
	}
	return out, nil
}

// SelectNetwork returns the named network, or the only one when name is empty.
func SelectNetwork(networks []NetworkConfig, name string) (NetworkConfig, error) {
	name = strings.TrimSpace(name)
	if len(networks) == 0 {
		return NetworkConfig{}, fmt.Errorf("no networks configured")
	}
	if name == "" {
		if len(networks) == 1 {
			return networks[0], nil
		}
		return NetworkConfig{}, fmt.Errorf("%d networks configured; choose one with --network", len(networks))
	}
	for _, network := range networks {
		if network.Name == name {
			return network, nil
		}
	}
	return NetworkConfig{}, fmt.Errorf("network %q is not configured", name)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
