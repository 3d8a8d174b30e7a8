package subgraph

import (
	"fmt"
	"net/url"
	"strings"
)

// Schema names the subgraph schema family an endpoint serves.
type Schema string

const (
	SchemaLegacy    Schema = "legacy"
	SchemaCanonical Schema = "canonical"
)

// ParseSchema maps a config value onto a Schema. Empty means canonical.
func ParseSchema(value string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(value))) {
	case "", SchemaCanonical:
		return SchemaCanonical, nil
	case SchemaLegacy:
		return SchemaLegacy, nil
	default:
		return "", fmt.Errorf("unknown subgraph schema: %s", value)
	}
}

// Network is one subgraph endpoint. ChainID is stamped onto every record
// fetched from Endpoint.
type Network struct {
	Name     string
	ChainID  int64
	Endpoint string
	Schema   Schema
}

// Validate checks that the network can be queried.
func (n Network) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("network name is required")
	}
	if n.ChainID <= 0 {
		return fmt.Errorf("network %s: chain id is required", n.Name)
	}
	u, err := url.Parse(n.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("network %s: invalid endpoint %q", n.Name, n.Endpoint)
	}
	if _, err := ParseSchema(string(n.Schema)); err != nil {
		return fmt.Errorf("network %s: %w", n.Name, err)
	}
	return nil
}
