package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRewardsEstimateWithPoolRate(t *testing.T) {
	out, err := execute(t, "rewards", "estimate",
		"--amount", "1",
		"--pool-rate", "10000000000000000000000000",
		"--power-factor", "x2",
		"--log-level", "error",
	)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["isValid"])
	assert.Equal(t, "2.00", got["formatted"])
	assert.Equal(t, "10000000000000000000000000", got["poolRate"])
}

func TestRewardsEstimateInvalidAmountExitsCleanly(t *testing.T) {
	out, err := execute(t, "rewards", "estimate",
		"--amount", "abc",
		"--pool-rate", "1",
		"--log-level", "error",
	)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, false, got["isValid"])
	assert.Equal(t, "Invalid deposit amount", got["error"])
}

func TestRewardsEstimateNeedsRPCWithoutPoolRate(t *testing.T) {
	_, err := execute(t, "rewards", "estimate", "--amount", "1", "--log-level", "error")
	assert.Error(t, err)
}

func TestProjectsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"builderSubnets":[{"id":"0x01","name":"Alpha","admin":"0xa","totalStaked":"10"}]}}`)
	}))
	defer server.Close()

	out, err := execute(t, "projects",
		"--endpoint", server.URL,
		"--chain-id", "84532",
		"--schema", "legacy",
		"--min-spacing", "0s",
		"--log-level", "error",
	)
	require.NoError(t, err)

	var got struct {
		BuildersProjects struct {
			Items []struct {
				ID       string `json:"id"`
				Name     string `json:"name"`
				StartsAt string `json:"startsAt"`
				ChainID  int64  `json:"chainId"`
			} `json:"items"`
			TotalCount int `json:"totalCount"`
		} `json:"buildersProjects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.BuildersProjects.Items, 1)
	assert.Equal(t, "Alpha", got.BuildersProjects.Items[0].Name)
	assert.Equal(t, "", got.BuildersProjects.Items[0].StartsAt)
	assert.Equal(t, int64(84532), got.BuildersProjects.Items[0].ChainID)
	assert.Equal(t, 1, got.BuildersProjects.TotalCount)
}

func TestSnapshotCommandWritesJSONL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if bytes.Contains(body, []byte("GetBuildersUsers")) {
			_, _ = io.WriteString(w, `{"data":{"buildersUsers":{"items":[{"id":"u1","address":"0xb","staked":"5","buildersProject":{"id":"p1","name":"One"}}],"totalCount":1}}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"buildersProjects":{"items":[{"id":"p1","name":"One"}],"totalCount":1}}}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	_, err := execute(t, "snapshot",
		"--endpoint", server.URL,
		"--chain-id", "8453",
		"--network", "base",
		"--out", filepath.Join(dir, "builders.jsonl"),
		"--state-file", filepath.Join(dir, "state.json"),
		"--min-spacing", "0s",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "builders.jsonl"))
	assert.FileExists(t, filepath.Join(dir, "state.json"))
}
