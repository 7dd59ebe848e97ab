package media

import (
	"context"

	"github.com/neexbeast/destination-seeder/internal/destination"
)

// Resolver determines the image and video URLs for a descriptor.
type Resolver interface {
	Resolve(ctx context.Context, d destination.Descriptor) (destination.MediaSet, error)
}

// Dispatcher routes real descriptors to one resolver and synthetic ones to another.
type Dispatcher struct {
	remote    Resolver
	synthetic Resolver
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(remote, synthetic Resolver) *Dispatcher {
	return &Dispatcher{remote: remote, synthetic: synthetic}
}

// Resolve picks a resolver by the descriptor's origin tag.
func (d *Dispatcher) Resolve(ctx context.Context, desc destination.Descriptor) (destination.MediaSet, error) {
	if desc.Origin == destination.OriginReal {
		return d.remote.Resolve(ctx, desc)
	}
	return d.synthetic.Resolve(ctx, desc)
}
