package adapter

import (
	"github.com/tidwall/gjson"

	"morpheusScope/internal/model"
)

// AdaptProjects normalizes a raw projects payload of either schema family into
// the canonical shape. chainID comes from the network that served raw. Payloads
// that match neither family produce an empty list.
func AdaptProjects(raw []byte, chainID int64) model.BuildersProjectsResponse {
	return ProjectsFromSchema(ParseProjectsResponse(raw), chainID)
}

// ProjectsFromSchema converts an already discriminated payload.
func ProjectsFromSchema(resp SchemaResponse, chainID int64) model.BuildersProjectsResponse {
	out := model.EmptyProjectsResponse()
	if resp == nil {
		return out
	}

	var convert func(gjson.Result, int64) model.BuilderProject
	switch resp.(type) {
	case LegacySchemaResponse:
		convert = legacyProject
	case CanonicalSchemaResponse:
		convert = canonicalProject
	default:
		return out
	}

	for _, item := range resp.items() {
		if !item.IsObject() {
			continue
		}
		out.BuildersProjects.Items = append(out.BuildersProjects.Items, convert(item, chainID))
	}
	out.BuildersProjects.TotalCount = resp.totalCount()
	return out
}

func legacyProject(item gjson.Result, chainID int64) model.BuilderProject {
	return model.BuilderProject{
		ID:                             str(item, "id"),
		Name:                           str(item, "name"),
		Admin:                          str(item, "admin", "owner"),
		MinimalDeposit:                 str(item, "minimalDeposit", "minStake"),
		TotalStaked:                    str(item, "totalStaked", "totalDeposited"),
		TotalClaimed:                   str(item, "totalClaimed"),
		TotalUsers:                     str(item, "totalUsers"),
		WithdrawLockPeriodAfterDeposit: str(item, "withdrawLockPeriodAfterDeposit", "withdrawLockPeriodAfterStake"),
		Slug:                           str(item, "slug"),
		Description:                    str(item, "description"),
		Website:                        str(item, "website"),
		Image:                          str(item, "image"),
		StartsAt:                       "",
		ClaimLockEnd:                   "",
		ChainID:                        chainID,
	}
}

func canonicalProject(item gjson.Result, chainID int64) model.BuilderProject {
	return model.BuilderProject{
		ID:                             str(item, "id"),
		Name:                           str(item, "name"),
		Admin:                          str(item, "admin"),
		MinimalDeposit:                 str(item, "minimalDeposit"),
		TotalStaked:                    str(item, "totalStaked"),
		TotalClaimed:                   str(item, "totalClaimed"),
		TotalUsers:                     str(item, "totalUsers"),
		WithdrawLockPeriodAfterDeposit: str(item, "withdrawLockPeriodAfterDeposit"),
		Slug:                           str(item, "slug"),
		Description:                    str(item, "description"),
		Website:                        str(item, "website"),
		Image:                          str(item, "image"),
		StartsAt:                       str(item, "startsAt"),
		ClaimLockEnd:                   str(item, "claimLockEnd"),
		ChainID:                        chainID,
	}
}

// str returns the first present, non-null field among keys as a string.
// Numbers keep their JSON text.
func str(item gjson.Result, keys ...string) string {
	for _, key := range keys {
		v := item.Get(key)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type == gjson.Number {
			return v.Raw
		}
		return v.String()
	}
	return ""
}
