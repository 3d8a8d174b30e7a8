package adapter

import "github.com/tidwall/gjson"

// Root fields of the two subgraph schema families.
const (
	legacyProjectsField    = "builderSubnets"
	legacyUsersField       = "builderUsers"
	canonicalProjectsField = "buildersProjects"
	canonicalUsersField    = "buildersUsers"
)

// SchemaResponse is a discriminated subgraph payload: either a
// LegacySchemaResponse or a CanonicalSchemaResponse.
type SchemaResponse interface {
	items() []gjson.Result
	totalCount() int
}

// LegacySchemaResponse is a flat-array payload from the legacy subnet schema.
type LegacySchemaResponse struct {
	Items []gjson.Result
}

func (r LegacySchemaResponse) items() []gjson.Result { return r.Items }
func (r LegacySchemaResponse) totalCount() int       { return len(r.Items) }

// CanonicalSchemaResponse is an items-wrapped payload from the canonical schema.
// HasNextPage and EndCursor come from pageInfo when the query selected it.
type CanonicalSchemaResponse struct {
	Items       []gjson.Result
	TotalCount  int
	HasNextPage bool
	EndCursor   string
}

func (r CanonicalSchemaResponse) items() []gjson.Result { return r.Items }
func (r CanonicalSchemaResponse) totalCount() int       { return r.TotalCount }

// IsLegacyProjectsResponse reports whether raw carries a builderSubnets array.
func IsLegacyProjectsResponse(raw []byte) bool {
	return isLegacy(raw, legacyProjectsField)
}

// IsCanonicalProjectsResponse reports whether raw carries buildersProjects.items.
func IsCanonicalProjectsResponse(raw []byte) bool {
	return isCanonical(raw, canonicalProjectsField)
}

// IsLegacyUsersResponse reports whether raw carries a builderUsers array.
func IsLegacyUsersResponse(raw []byte) bool {
	return isLegacy(raw, legacyUsersField)
}

// IsCanonicalUsersResponse reports whether raw carries buildersUsers.items.
func IsCanonicalUsersResponse(raw []byte) bool {
	return isCanonical(raw, canonicalUsersField)
}

func isLegacy(raw []byte, field string) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	return gjson.GetBytes(raw, field).IsArray()
}

func isCanonical(raw []byte, field string) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	wrapper := gjson.GetBytes(raw, field)
	return wrapper.IsObject() && wrapper.Get("items").IsArray()
}

// ParseProjectsResponse discriminates a raw projects payload. It returns nil
// when raw matches neither schema family.
func ParseProjectsResponse(raw []byte) SchemaResponse {
	return parse(raw, legacyProjectsField, canonicalProjectsField)
}

// ParseUsersResponse discriminates a raw users payload. It returns nil when raw
// matches neither schema family.
func ParseUsersResponse(raw []byte) SchemaResponse {
	return parse(raw, legacyUsersField, canonicalUsersField)
}

func parse(raw []byte, legacyField, canonicalField string) SchemaResponse {
	switch {
	case isLegacy(raw, legacyField):
		return LegacySchemaResponse{Items: gjson.GetBytes(raw, legacyField).Array()}
	case isCanonical(raw, canonicalField):
		wrapper := gjson.GetBytes(raw, canonicalField)
		items := wrapper.Get("items").Array()
		total := len(items)
		if count := wrapper.Get("totalCount"); count.Exists() {
			total = int(count.Int())
		}
		return CanonicalSchemaResponse{
			Items:       items,
			TotalCount:  total,
			HasNextPage: wrapper.Get("pageInfo.hasNextPage").Bool(),
			EndCursor:   wrapper.Get("pageInfo.endCursor").String(),
		}
	default:
		return nil
	}
}
