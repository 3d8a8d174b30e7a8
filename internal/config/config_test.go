package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFetchFromFile(t *testing.T) {
	path := writeConfig(t, `
networks:
  - name: base
    chain-id: 8453
    endpoint: https://base.example/graphql
  - name: base-sepolia
    chain-id: 84532
    endpoint: https://legacy.example/graphql
    schema: legacy
page-size: 50
min-spacing: 1s
`)

	cfg, err := LoadFetch(path, nil)
	require.NoError(t, err)

	require.Len(t, cfg.Networks, 2)
	assert.Equal(t, NetworkConfig{Name: "base", ChainID: 8453, Endpoint: "https://base.example/graphql", Schema: "canonical"}, cfg.Networks[0])
	assert.Equal(t, "legacy", cfg.Networks[1].Schema)
	assert.Equal(t, 50, cfg.Client.PageSize)
	assert.Equal(t, time.Second, cfg.Client.MinSpacing)
	assert.Equal(t, 5, cfg.Client.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Client.DebounceWindow)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFetchFromEnv(t *testing.T) {
	t.Setenv("MORPHEUS_NETWORKS", "base,8453,https://base.example/graphql; arbitrum,42161,https://arb.example/graphql,legacy")
	t.Setenv("MORPHEUS_MAX_RETRIES", "2")

	cfg, err := LoadFetch("", nil)
	require.NoError(t, err)

	require.Len(t, cfg.Networks, 2)
	assert.Equal(t, "arbitrum", cfg.Networks[1].Name)
	assert.Equal(t, int64(42161), cfg.Networks[1].ChainID)
	assert.Equal(t, "legacy", cfg.Networks[1].Schema)
	assert.Equal(t, 2, cfg.Client.MaxRetries)
}

func TestLoadFetchAdHocNetworkFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("projects", pflag.ContinueOnError)
	flags.String("network", "", "")
	flags.String("endpoint", "", "")
	flags.Int64("chain-id", 0, "")
	flags.String("schema", "canonical", "")
	flags.String("project", "", "")
	require.NoError(t, flags.Parse([]string{
		"--network=mainnet", "--endpoint=https://eth.example/graphql", "--chain-id=1",
		"--schema=legacy", "--project=0xabc",
	}))

	cfg, err := LoadFetch("", flags)
	require.NoError(t, err)

	require.Len(t, cfg.Networks, 1)
	assert.Equal(t, NetworkConfig{Name: "mainnet", ChainID: 1, Endpoint: "https://eth.example/graphql", Schema: "legacy"}, cfg.Networks[0])
	assert.Equal(t, "0xabc", cfg.ProjectID)

	selected, err := SelectNetwork(cfg.Networks, cfg.Network)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", selected.Name)
}

func TestLoadFetchMissingExplicitFile(t *testing.T) {
	_, err := LoadFetch(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestParseNetworkList(t *testing.T) {
	networks, err := ParseNetworkList("a,1,https://a.example; ;b,2,https://b.example,legacy")
	require.NoError(t, err)
	require.Len(t, networks, 2)
	assert.Equal(t, "legacy", networks[1].Schema)

	_, err = ParseNetworkList("a,1")
	assert.Error(t, err)
	_, err = ParseNetworkList("a,one,https://a.example")
	assert.Error(t, err)
}

func TestSelectNetwork(t *testing.T) {
	networks := []NetworkConfig{{Name: "base"}, {Name: "arbitrum"}}

	_, err := SelectNetwork(nil, "")
	assert.Error(t, err)
	_, err = SelectNetwork(networks, "")
	assert.Error(t, err)
	_, err = SelectNetwork(networks, "ethereum")
	assert.Error(t, err)

	got, err := SelectNetwork(networks, "arbitrum")
	require.NoError(t, err)
	assert.Equal(t, "arbitrum", got.Name)
}

func TestLoadSnapshotDefaults(t *testing.T) {
	cfg, err := LoadSnapshot("", nil)
	require.NoError(t, err)
	assert.Equal(t, "./data/builders.jsonl", cfg.Out)
	assert.Equal(t, "./data/snapshot_state.json", cfg.StateFile)
	assert.Equal(t, "builders", cfg.StateName)
	assert.Zero(t, cfg.MinInterval)
	assert.Equal(t, 30*time.Second, cfg.Client.HTTPTimeout)
}

func TestLoadRewards(t *testing.T) {
	flags := pflag.NewFlagSet("estimate", pflag.ContinueOnError)
	flags.String("amount", "", "")
	flags.Float64("years", 0, "")
	require.NoError(t, flags.Parse([]string{"--amount=1.5", "--years=2.5"}))

	cfg, err := LoadRewards("", flags)
	require.NoError(t, err)
	assert.Equal(t, "1.5", cfg.Amount)
	assert.Equal(t, 2.5, cfg.Years)
	assert.Equal(t, "x1", cfg.PowerFactor)
	assert.Equal(t, "0", cfg.PoolID)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("")
	require.NoError(t, err)
	assert.Zero(t, ts)

	ts, err = ParseTimestamp("1700000000")
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), ts)

	ts, err = ParseTimestamp("2024-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, uint64(1704067200), ts)

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}
