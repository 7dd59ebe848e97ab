package api

import (
	"context"

	"github.com/neexbeast/destination-seeder/internal/destination"
	"github.com/neexbeast/destination-seeder/internal/storage"
)

// DestinationStore defines the storage operations needed by handlers.
type DestinationStore interface {
	CreateDestination(ctx context.Context, rec destination.Record) (*destination.Destination, error)
	GetDestination(ctx context.Context, id string) (*destination.Destination, error)
	ListDestinations(ctx context.Context, region string, limit int) ([]*destination.Destination, error)
}

// ObjectStore defines the media storage operations needed by handlers.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) (storage.Object, bool, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
