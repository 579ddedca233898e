package ports

import (
	"context"

	"github.com/aretw0/autodiag/pkg/domain"
)

// CatalogLoader defines how the engine retrieves its knowledge base and question graph.
// This allows the storage layer (file, memory, DSL) to be decoupled.
type CatalogLoader interface {
	// Load returns a fully validated catalog.
	// Implementations must return a fresh value on every call; the engine never mutates it.
	Load(ctx context.Context) (*domain.Catalog, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of the changed source.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
