package adapter

import (
	"github.com/tidwall/gjson"

	"morpheusScope/internal/model"
)

// unknownTimestamp fills user timestamps the source does not provide.
const unknownTimestamp = "0"

// AdaptUsers normalizes a raw users payload of either schema family into the
// canonical shape. Payloads that match neither family produce an empty list.
func AdaptUsers(raw []byte, chainID int64) model.BuildersUsersResponse {
	return UsersFromSchema(ParseUsersResponse(raw), chainID)
}

// UsersFromSchema converts an already discriminated payload.
func UsersFromSchema(resp SchemaResponse, chainID int64) model.BuildersUsersResponse {
	out := model.EmptyUsersResponse()
	if resp == nil {
		return out
	}

	var convert func(gjson.Result, int64) model.BuilderUser
	switch resp.(type) {
	case LegacySchemaResponse:
		convert = legacyUser
	case CanonicalSchemaResponse:
		convert = canonicalUser
	default:
		return out
	}

	for _, item := range resp.items() {
		if !item.IsObject() {
			continue
		}
		out.BuildersUsers.Items = append(out.BuildersUsers.Items, convert(item, chainID))
	}
	out.BuildersUsers.TotalCount = resp.totalCount()
	return out
}

func legacyUser(item gjson.Result, chainID int64) model.BuilderUser {
	return model.BuilderUser{
		ID:              str(item, "id"),
		Address:         str(item, "address"),
		Staked:          str(item, "deposited", "staked"),
		Claimed:         str(item, "claimed"),
		LastStake:       timestamp(item, "lastStake"),
		ClaimLockEnd:    timestamp(item, "claimLockEnd"),
		BuildersProject: projectRef(item.Get("builderSubnet"), chainID),
		ChainID:         chainID,
	}
}

func canonicalUser(item gjson.Result, chainID int64) model.BuilderUser {
	return model.BuilderUser{
		ID:              str(item, "id"),
		Address:         str(item, "address"),
		Staked:          str(item, "staked"),
		Claimed:         str(item, "claimed"),
		LastStake:       timestamp(item, "lastStake"),
		ClaimLockEnd:    timestamp(item, "claimLockEnd"),
		BuildersProject: projectRef(item.Get("buildersProject"), chainID),
		ChainID:         chainID,
	}
}

func projectRef(ref gjson.Result, chainID int64) model.ProjectRef {
	if ref.Type == gjson.String {
		return model.ProjectRef{ID: ref.String(), ChainID: chainID}
	}
	return model.ProjectRef{
		ID:      str(ref, "id"),
		Name:    str(ref, "name"),
		Slug:    str(ref, "slug"),
		ChainID: chainID,
	}
}

func timestamp(item gjson.Result, key string) string {
	if v := str(item, key); v != "" {
		return v
	}
	return unknownTimestamp
}
