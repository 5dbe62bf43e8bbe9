package store

import (
	"context"

	"restaurant-menu-service/internal/domain"
)

// ResourceStorer defines the database operations shared by every menu resource.
type ResourceStorer interface {
	List(ctx context.Context, res *domain.Resource) ([]domain.Row, error) // newest first
	GetByID(ctx context.Context, res *domain.Resource, id int64) (domain.Row, error)
	Create(ctx context.Context, res *domain.Resource, values []domain.Value) (int64, error) // returns the generated id
	Update(ctx context.Context, res *domain.Resource, id int64, values []domain.Value) error
	Delete(ctx context.Context, res *domain.Resource, id int64) error
}

// Pinger confirms the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
