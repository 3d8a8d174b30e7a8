package subgraph

// Legacy schema documents page with first/skip over flat arrays.
const (
	legacyProjectsOperation = "GetBuilderSubnets"
	legacyProjectsQuery     = `query GetBuilderSubnets($first: Int!, $skip: Int!) {
  builderSubnets(first: $first, skip: $skip, orderBy: totalStaked, orderDirection: desc) {
    id
    name
    admin
    minimalDeposit
    totalStaked
    totalClaimed
    totalUsers
    withdrawLockPeriodAfterDeposit
    slug
    description
    website
    image
  }
}`

	legacyUsersOperation = "GetBuilderSubnetUsers"
	legacyUsersQuery     = `query GetBuilderSubnetUsers($first: Int!, $skip: Int!, $where: BuilderUser_filter) {
  builderUsers(first: $first, skip: $skip, where: $where, orderBy: deposited, orderDirection: desc) {
    id
    address
    deposited
    claimed
    builderSubnet {
      id
      name
      slug
    }
  }
}`
)

// Canonical schema documents page with limit/after cursors over items wrappers.
const (
	canonicalProjectsOperation = "GetBuildersProjects"
	canonicalProjectsQuery     = `query GetBuildersProjects($limit: Int!, $after: String) {
  buildersProjects(limit: $limit, after: $after, orderBy: "totalStaked", orderDirection: "desc") {
    items {
      id
      name
      admin
      minimalDeposit
      totalStaked
      totalClaimed
      totalUsers
      withdrawLockPeriodAfterDeposit
      slug
      description
      website
      image
      startsAt
      claimLockEnd
    }
    pageInfo {
      hasNextPage
      endCursor
    }
    totalCount
  }
}`

	canonicalUsersOperation = "GetBuildersUsers"
	canonicalUsersQuery     = `query GetBuildersUsers($limit: Int!, $after: String, $where: buildersUserFilter) {
  buildersUsers(limit: $limit, after: $after, where: $where, orderBy: "staked", orderDirection: "desc") {
    items {
      id
      address
      staked
      claimed
      lastStake
      claimLockEnd
      buildersProject {
        id
        name
        slug
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
    totalCount
  }
}`
)
