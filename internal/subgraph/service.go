package subgraph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"morpheusScope/internal/adapter"
	"morpheusScope/internal/graphql"
	"morpheusScope/internal/model"
)

const (
	defaultPageSize = 100
	defaultMaxPages = 500
)

// Fetcher executes one GraphQL request.
type Fetcher interface {
	Fetch(ctx context.Context, req graphql.Request) (*graphql.Response, error)
}

// Config controls pagination.
type Config struct {
	PageSize int
	MaxPages int
}

// Service fetches builder projects and users from a network's subgraph and
// returns them in the canonical shape.
type Service struct {
	cfg    Config
	client Fetcher
	logger *zap.Logger
}

func NewService(cfg Config, client Fetcher, logger *zap.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, client: client, logger: logger}
}

// Projects returns every builder project served by network.
func (s *Service) Projects(ctx context.Context, network Network) (model.BuildersProjectsResponse, error) {
	out := model.EmptyProjectsResponse()
	if err := network.Validate(); err != nil {
		return out, err
	}

	total := 0
	err := s.paginate(ctx, network, pageQuery{
		legacyOperation:    legacyProjectsOperation,
		legacyQuery:        legacyProjectsQuery,
		canonicalOperation: canonicalProjectsOperation,
		canonicalQuery:     canonicalProjectsQuery,
		parse:              adapter.ParseProjectsResponse,
		collect: func(resp adapter.SchemaResponse) int {
			page := adapter.ProjectsFromSchema(resp, network.ChainID)
			out.BuildersProjects.Items = append(out.BuildersProjects.Items, page.BuildersProjects.Items...)
			if page.BuildersProjects.TotalCount > total {
				total = page.BuildersProjects.TotalCount
			}
			return len(page.BuildersProjects.Items)
		},
	}, nil)
	if err != nil {
		return model.EmptyProjectsResponse(), err
	}

	out.BuildersProjects.TotalCount = max(total, len(out.BuildersProjects.Items))
	s.logger.Debug("projects fetched",
		zap.String("network", network.Name),
		zap.Int("count", len(out.BuildersProjects.Items)),
	)
	return out, nil
}

// Users returns user positions served by network. A non-empty projectID limits
// the result to that project.
func (s *Service) Users(ctx context.Context, network Network, projectID string) (model.BuildersUsersResponse, error) {
	out := model.EmptyUsersResponse()
	if err := network.Validate(); err != nil {
		return out, err
	}

	where := map[string]interface{}{}
	if projectID != "" {
		if network.Schema == SchemaLegacy {
			where["builderSubnet"] = projectID
		} else {
			where["buildersProjectId"] = projectID
		}
	}

	total := 0
	err := s.paginate(ctx, network, pageQuery{
		legacyOperation:    legacyUsersOperation,
		legacyQuery:        legacyUsersQuery,
		canonicalOperation: canonicalUsersOperation,
		canonicalQuery:     canonicalUsersQuery,
		parse:              adapter.ParseUsersResponse,
		collect: func(resp adapter.SchemaResponse) int {
			page := adapter.UsersFromSchema(resp, network.ChainID)
			out.BuildersUsers.Items = append(out.BuildersUsers.Items, page.BuildersUsers.Items...)
			if page.BuildersUsers.TotalCount > total {
				total = page.BuildersUsers.TotalCount
			}
			return len(page.BuildersUsers.Items)
		},
	}, map[string]interface{}{"where": where})
	if err != nil {
		return model.EmptyUsersResponse(), err
	}

	out.BuildersUsers.TotalCount = max(total, len(out.BuildersUsers.Items))
	return out, nil
}

type pageQuery struct {
	legacyOperation    string
	legacyQuery        string
	canonicalOperation string
	canonicalQuery     string
	parse              func([]byte) adapter.SchemaResponse
	collect            func(adapter.SchemaResponse) int
}

func (s *Service) paginate(ctx context.Context, network Network, q pageQuery, extra map[string]interface{}) error {
	var cursor string
	for page := 0; page < s.cfg.MaxPages; page++ {
		vars := make(map[string]interface{}, len(extra)+2)
		for k, v := range extra {
			vars[k] = v
		}

		req := graphql.Request{Endpoint: network.Endpoint}
		if network.Schema == SchemaLegacy {
			req.OperationName, req.Query = q.legacyOperation, q.legacyQuery
			vars["first"] = s.cfg.PageSize
			vars["skip"] = page * s.cfg.PageSize
		} else {
			req.OperationName, req.Query = q.canonicalOperation, q.canonicalQuery
			vars["limit"] = s.cfg.PageSize
			if cursor != "" {
				vars["after"] = cursor
			}
		}
		req.Variables = vars

		resp, err := s.client.Fetch(ctx, req)
		if err != nil {
			return fmt.Errorf("fetch %s page %d from %s: %w", req.OperationName, page, network.Name, err)
		}

		parsed := q.parse(resp.Data)
		if parsed == nil {
			s.logger.Warn("unrecognized subgraph payload",
				zap.String("network", network.Name),
				zap.String("operation", req.OperationName),
			)
			return nil
		}
		n := q.collect(parsed)

		if canonical, ok := parsed.(adapter.CanonicalSchemaResponse); ok {
			if !canonical.HasNextPage || canonical.EndCursor == "" || canonical.EndCursor == cursor {
				return nil
			}
			cursor = canonical.EndCursor
			continue
		}
		if n < s.cfg.PageSize {
			return nil
		}
	}

	s.logger.Warn("pagination stopped at page limit",
		zap.String("network", network.Name),
		zap.Int("max_pages", s.cfg.MaxPages),
	)
	return nil
}
