package storage

import (
	"context"

	"morpheusScope/internal/model"
)

// Storage defines a sink for canonical builder snapshots.
type Storage interface {
	PutProjects(ctx context.Context, network string, projects []model.BuilderProject) error
	PutUsers(ctx context.Context, network string, users []model.BuilderUser) error
}
