package model

// ProjectRef is a read-only reference from a user position to its project.
type ProjectRef struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Slug    string `json:"slug,omitempty"`
	ChainID int64  `json:"chainId"`
}

// BuilderUser is one participant's position in a builder project. The owning
// project is referenced, never owned.
type BuilderUser struct {
	ID              string     `json:"id"`
	Address         string     `json:"address"`
	Staked          string     `json:"staked"`
	Claimed         string     `json:"claimed"`
	LastStake       string     `json:"lastStake"`
	ClaimLockEnd    string     `json:"claimLockEnd"`
	BuildersProject ProjectRef `json:"buildersProject"`
	ChainID         int64      `json:"chainId"`
}

// BuildersUserList is the paginated wrapper around user positions.
type BuildersUserList struct {
	Items      []BuilderUser `json:"items"`
	TotalCount int           `json:"totalCount"`
}

// BuildersUsersResponse is the canonical user payload handed to consumers.
type BuildersUsersResponse struct {
	BuildersUsers BuildersUserList `json:"buildersUsers"`
}

// EmptyUsersResponse returns a response with a non-nil, empty item list.
func EmptyUsersResponse() BuildersUsersResponse {
	return BuildersUsersResponse{BuildersUsers: BuildersUserList{Items: []BuilderUser{}}}
}
