package adapter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morpheusScope/internal/model"
)

const legacyProjectsPayload = `{
  "builderSubnets": [{
    "id": "0xabc",
    "name": "Test",
    "admin": "0xadmin",
    "minimalDeposit": "1000000000000000000",
    "totalStaked": "5000000000000000000",
    "totalUsers": "3",
    "totalClaimed": "0",
    "withdrawLockPeriodAfterDeposit": "86400",
    "slug": "test",
    "description": "",
    "website": "",
    "image": ""
  }]
}`

func TestAdaptLegacyProjects(t *testing.T) {
	got := AdaptProjects([]byte(legacyProjectsPayload), 8453)

	require.Len(t, got.BuildersProjects.Items, 1)
	assert.Equal(t, 1, got.BuildersProjects.TotalCount)
	assert.Equal(t, model.BuilderProject{
		ID:                             "0xabc",
		Name:                           "Test",
		Admin:                          "0xadmin",
		MinimalDeposit:                 "1000000000000000000",
		TotalStaked:                    "5000000000000000000",
		TotalClaimed:                   "0",
		TotalUsers:                     "3",
		WithdrawLockPeriodAfterDeposit: "86400",
		Slug:                           "test",
		StartsAt:                       "",
		ClaimLockEnd:                   "",
		ChainID:                        8453,
	}, got.BuildersProjects.Items[0])
}

func TestAdaptLegacyProjectsEmitsEmptyStrings(t *testing.T) {
	got := AdaptProjects([]byte(`{"builderSubnets":[{"id":"0x1","name":"n"}]}`), 84532)

	data, err := json.Marshal(got.BuildersProjects.Items[0])
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "", decoded["startsAt"])
	assert.Equal(t, "", decoded["claimLockEnd"])
	assert.Equal(t, "", decoded["totalStaked"])
	assert.Equal(t, float64(84532), decoded["chainId"])
}

func TestAdaptCanonicalProjects(t *testing.T) {
	raw := `{"buildersProjects":{"items":[
	  {"id":"0x01","name":"Alpha","admin":"0xa","minimalDeposit":"1","totalStaked":"10","totalClaimed":"2",
	   "totalUsers":7,"withdrawLockPeriodAfterDeposit":"604800","startsAt":"1700000000","claimLockEnd":"1800000000",
	   "chainId":1}
	],"totalCount":42}}`

	got := AdaptProjects([]byte(raw), 42161)

	require.Len(t, got.BuildersProjects.Items, 1)
	assert.Equal(t, 42, got.BuildersProjects.TotalCount)
	project := got.BuildersProjects.Items[0]
	assert.Equal(t, "7", project.TotalUsers)
	assert.Equal(t, "1700000000", project.StartsAt)
	assert.Equal(t, "1800000000", project.ClaimLockEnd)
	assert.Equal(t, int64(42161), project.ChainID, "chain id comes from the caller")
}

func TestAdaptProjectsDegenerateInput(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"builderSubnets": null}`,
		`{"builderSubnets": {"items": []}}`,
		`{"buildersProjects": []}`,
		`{"buildersProjects": {"totalCount": 3}}`,
		`not json`,
		``,
	}
	for _, input := range inputs {
		got := AdaptProjects([]byte(input), 8453)
		require.NotNil(t, got.BuildersProjects.Items, input)
		assert.Empty(t, got.BuildersProjects.Items, input)
		assert.Equal(t, 0, got.BuildersProjects.TotalCount, input)
	}
}

func TestAdaptLegacyUsersRenamesDeposited(t *testing.T) {
	raw := `{"builderUsers":[
	  {"id":"u1","address":"0xuser","deposited":"2500","claimed":"10","builderSubnet":{"id":"0xabc","name":"Test","slug":"test"}},
	  {"id":"u2","address":"0xother","deposited":"1","claimed":"0","lastStake":"1700000000","builderSubnet":{"id":"0xabc"}}
	]}`

	got := AdaptUsers([]byte(raw), 84532)

	require.Len(t, got.BuildersUsers.Items, 2)
	assert.Equal(t, 2, got.BuildersUsers.TotalCount)

	first := got.BuildersUsers.Items[0]
	assert.Equal(t, "2500", first.Staked)
	assert.Equal(t, "0", first.LastStake)
	assert.Equal(t, "0", first.ClaimLockEnd)
	assert.Equal(t, model.ProjectRef{ID: "0xabc", Name: "Test", Slug: "test", ChainID: 84532}, first.BuildersProject)

	assert.Equal(t, "1700000000", got.BuildersUsers.Items[1].LastStake)
}

func TestAdaptCanonicalUsers(t *testing.T) {
	raw := `{"buildersUsers":{"items":[
	  {"id":"u1","address":"0xuser","staked":"900","claimed":"1","lastStake":"10","claimLockEnd":"20","buildersProject":{"id":"0xp"}}
	],"totalCount":1}}`

	got := AdaptUsers([]byte(raw), 8453)

	require.Len(t, got.BuildersUsers.Items, 1)
	user := got.BuildersUsers.Items[0]
	assert.Equal(t, "900", user.Staked)
	assert.Equal(t, "10", user.LastStake)
	assert.Equal(t, "20", user.ClaimLockEnd)
	assert.Equal(t, "0xp", user.BuildersProject.ID)
	assert.Equal(t, int64(8453), user.ChainID)
}

func TestAdaptUsersDegenerateInput(t *testing.T) {
	got := AdaptUsers([]byte(`{"buildersUsers": null}`), 8453)
	require.NotNil(t, got.BuildersUsers.Items)
	assert.Empty(t, got.BuildersUsers.Items)
	assert.Equal(t, 0, got.BuildersUsers.TotalCount)
}

func TestSchemaGuards(t *testing.T) {
	legacy := []byte(`{"builderSubnets": []}`)
	canonical := []byte(`{"buildersProjects": {"items": []}}`)

	assert.True(t, IsLegacyProjectsResponse(legacy))
	assert.False(t, IsCanonicalProjectsResponse(legacy))
	assert.True(t, IsCanonicalProjectsResponse(canonical))
	assert.False(t, IsLegacyProjectsResponse(canonical))

	assert.True(t, IsLegacyUsersResponse([]byte(`{"builderUsers": []}`)))
	assert.True(t, IsCanonicalUsersResponse([]byte(`{"buildersUsers": {"items": []}}`)))

	assert.IsType(t, LegacySchemaResponse{}, ParseProjectsResponse(legacy))
	assert.IsType(t, CanonicalSchemaResponse{}, ParseProjectsResponse(canonical))
	assert.Nil(t, ParseProjectsResponse([]byte(`{"other": 1}`)))
}

func TestParseCanonicalPageInfo(t *testing.T) {
	raw := `{"buildersProjects":{"items":[{"id":"a"}],"pageInfo":{"hasNextPage":true,"endCursor":"cur1"},"totalCount":5}}`

	resp, ok := ParseProjectsResponse([]byte(raw)).(CanonicalSchemaResponse)
	require.True(t, ok)
	assert.True(t, resp.HasNextPage)
	assert.Equal(t, "cur1", resp.EndCursor)
	assert.Equal(t, 5, resp.TotalCount)
}
