package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"morpheusScope/internal/model"
	"morpheusScope/internal/subgraph"
)

type fakeSource struct {
	fail map[string]error
}

func (f *fakeSource) Projects(_ context.Context, network subgraph.Network) (model.BuildersProjectsResponse, error) {
	if err := f.fail[network.Name]; err != nil {
		return model.EmptyProjectsResponse(), err
	}
	out := model.EmptyProjectsResponse()
	out.BuildersProjects.Items = append(out.BuildersProjects.Items,
		model.BuilderProject{ID: network.Name + "-p1", ChainID: network.ChainID},
		model.BuilderProject{ID: network.Name + "-p2", ChainID: network.ChainID},
	)
	out.BuildersProjects.TotalCount = 2
	return out, nil
}

func (f *fakeSource) Users(_ context.Context, network subgraph.Network, _ string) (model.BuildersUsersResponse, error) {
	out := model.EmptyUsersResponse()
	out.BuildersUsers.Items = append(out.BuildersUsers.Items,
		model.BuilderUser{ID: network.Name + "-u1", LastStake: "0", ClaimLockEnd: "0", ChainID: network.ChainID})
	out.BuildersUsers.TotalCount = 1
	return out, nil
}

type memoryStorage struct {
	mu       sync.Mutex
	projects map[string]int
	users    map[string]int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{projects: map[string]int{}, users: map[string]int{}}
}

func (m *memoryStorage) PutProjects(_ context.Context, network string, projects []model.BuilderProject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[network] += len(projects)
	return nil
}

func (m *memoryStorage) PutUsers(_ context.Context, network string, users []model.BuilderUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[network] += len(users)
	return nil
}

type memoryState struct {
	ts  uint64
	ok  bool
	err error
}

func (s *memoryState) Load(context.Context) (uint64, bool, error) { return s.ts, s.ok, s.err }
func (s *memoryState) Save(_ context.Context, ts uint64) error {
	s.ts, s.ok = ts, true
	return nil
}

var testNetworks = []subgraph.Network{
	{Name: "base", ChainID: 8453, Endpoint: "https://base.example/graphql", Schema: subgraph.SchemaCanonical},
	{Name: "arbitrum", ChainID: 42161, Endpoint: "https://arb.example/graphql", Schema: subgraph.SchemaCanonical},
}

func fixedNow(r *Runner, at time.Time) { r.now = func() time.Time { return at } }

func TestRunSnapshotsEveryNetwork(t *testing.T) {
	sink := newMemoryStorage()
	state := &memoryState{}
	runner := NewRunner(RunConfig{Networks: testNetworks}, &fakeSource{}, sink, state, zap.NewNop())
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fixedNow(runner, at)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Networks, 2)
	assert.Equal(t, 0, summary.Failed())
	assert.Equal(t, 2, sink.projects["base"])
	assert.Equal(t, 1, sink.users["arbitrum"])
	assert.Equal(t, uint64(at.Unix()), state.ts)
}

func TestRunContinuesPastFailedNetwork(t *testing.T) {
	sink := newMemoryStorage()
	source := &fakeSource{fail: map[string]error{"base": errors.New("boom")}}
	runner := NewRunner(RunConfig{Networks: testNetworks}, source, sink, nil, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed())
	assert.Zero(t, sink.projects["base"])
	assert.Equal(t, 2, sink.projects["arbitrum"])
}

func TestRunFailsWhenEveryNetworkFails(t *testing.T) {
	boom := errors.New("boom")
	source := &fakeSource{fail: map[string]error{"base": boom, "arbitrum": boom}}
	state := &memoryState{}
	runner := NewRunner(RunConfig{Networks: testNetworks}, source, newMemoryStorage(), state, nil)

	summary, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, summary.Failed())
	assert.False(t, state.ok)
}

func TestRunSkipsWithinMinInterval(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	state := &memoryState{ts: uint64(at.Add(-30 * time.Minute).Unix()), ok: true}
	sink := newMemoryStorage()
	runner := NewRunner(RunConfig{Networks: testNetworks, MinInterval: time.Hour}, &fakeSource{}, sink, state, nil)
	fixedNow(runner, at)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
	assert.Empty(t, sink.projects)
}

func TestRunValidatesInputs(t *testing.T) {
	_, err := NewRunner(RunConfig{}, &fakeSource{}, newMemoryStorage(), nil, nil).Run(context.Background())
	assert.Error(t, err)
	_, err = NewRunner(RunConfig{Networks: testNetworks}, nil, newMemoryStorage(), nil, nil).Run(context.Background())
	assert.Error(t, err)
	_, err = NewRunner(RunConfig{Networks: testNetworks}, &fakeSource{}, nil, nil, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := NewRunner(RunConfig{Networks: testNetworks}, &fakeSource{}, newMemoryStorage(), nil, nil)

	_, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStateStore(t *testing.T) {
	store := &FileStateStore{Path: filepath.Join(t.TempDir(), "state", "snapshot.json")}
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, 1717200000))
	ts, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1717200000), ts)

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"last_snapshot_at": "2024-06-01T00:00:00Z"`)
	entries, err := os.ReadDir(filepath.Dir(store.Path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	dirStore := &FileStateStore{Path: t.TempDir()}
	_, _, err = dirStore.Load(ctx)
	assert.Error(t, err)
}

type memoryBackend struct{ data map[string]uint64 }

func (m *memoryBackend) LoadState(_ context.Context, name string) (uint64, bool, error) {
	ts, ok := m.data[name]
	return ts, ok, nil
}

func (m *memoryBackend) SaveState(_ context.Context, name string, ts uint64) error {
	m.data[name] = ts
	return nil
}

func TestDBStateStore(t *testing.T) {
	backend := &memoryBackend{data: map[string]uint64{}}
	store := &DBStateStore{Store: backend, Name: "snapshot"}
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 42))
	ts, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), ts)

	var nilStore *DBStateStore
	_, ok, err = nilStore.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
