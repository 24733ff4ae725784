package api

import (
	"context"

	"github.com/neexbeast/travel-compass/internal/status"
	"github.com/neexbeast/travel-compass/internal/travel"
)

// Recommender produces a recommendation record for a query.
type Recommender interface {
	Recommend(ctx context.Context, q travel.Query) (*travel.Recommendation, error)
}

// RecommendationRepo defines the storage operations needed by handlers.
type RecommendationRepo interface {
	InsertRecommendation(ctx context.Context, rec *travel.Recommendation) error
	RecentRecommendations(ctx context.Context, limit int) ([]*travel.Recommendation, error)
}

// StatusStore defines the status-check log operations needed by handlers.
type StatusStore interface {
	Create(ctx context.Context, clientName string) (*status.Check, error)
	List(ctx context.Context, limit int) ([]*status.Check, error)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
