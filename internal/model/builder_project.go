package model

// BuilderProject is the canonical builder project/subnet record shared by every
// subgraph schema family. Amounts are wei-scale integer strings and timestamps
// are epoch-second strings; fields the source schema lacks are empty strings.
type BuilderProject struct {
	ID                             string `json:"id"`
	Name                           string `json:"name"`
	Admin                          string `json:"admin"`
	MinimalDeposit                 string `json:"minimalDeposit"`
	TotalStaked                    string `json:"totalStaked"`
	TotalClaimed                   string `json:"totalClaimed"`
	TotalUsers                     string `json:"totalUsers"`
	WithdrawLockPeriodAfterDeposit string `json:"withdrawLockPeriodAfterDeposit"`
	Slug                           string `json:"slug"`
	Description                    string `json:"description"`
	Website                        string `json:"website"`
	Image                          string `json:"image"`
	StartsAt                       string `json:"startsAt"`
	ClaimLockEnd                   string `json:"claimLockEnd"`
	ChainID                        int64  `json:"chainId"`
}

// BuildersProjectList is the paginated wrapper around projects.
type BuildersProjectList struct {
	Items      []BuilderProject `json:"items"`
	TotalCount int              `json:"totalCount"`
}

// BuildersProjectsResponse is the canonical project payload handed to consumers.
type BuildersProjectsResponse struct {
	BuildersProjects BuildersProjectList `json:"buildersProjects"`
}

// EmptyProjectsResponse returns a response with a non-nil, empty item list.
func EmptyProjectsResponse() BuildersProjectsResponse {
	return BuildersProjectsResponse{BuildersProjects: BuildersProjectList{Items: []BuilderProject{}}}
}
