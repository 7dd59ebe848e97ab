package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neexbeast/destination-seeder/internal/destination"
	"github.com/neexbeast/destination-seeder/internal/media"
)

// resolver is the interface satisfied by media.Dispatcher.
type resolver interface {
	Resolve(ctx context.Context, d destination.Descriptor) (destination.MediaSet, error)
}

// recordBuilder is the interface satisfied by destination.Builder.
type recordBuilder interface {
	Build(d destination.Descriptor, m destination.MediaSet) destination.Record
}

// submitter is the interface satisfied by backend.Client.
type submitter interface {
	CreateDestination(ctx context.Context, rec destination.Record) (string, error)
}

// Summary counts the outcome of a run.
type Summary struct {
	Created int
	Skipped int
	Failed  int
}

// Runner seeds descriptors one at a time.
type Runner struct {
	resolver resolver
	builder  recordBuilder
	submit   submitter
	images   int
	videos   int
	log      *slog.Logger
}

// NewRunner constructs a Runner. Every submitted record must carry exactly
// images image URLs and videos video URLs.
func NewRunner(r resolver, b recordBuilder, s submitter, images, videos int, log *slog.Logger) *Runner {
	return &Runner{
		resolver: r,
		builder:  b,
		submit:   s,
		images:   images,
		videos:   videos,
		log:      log,
	}
}

// Run processes descriptors in order. A failure only ends the descriptor in
// progress; nothing already uploaded or created is rolled back. Run stops
// early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, descriptors []destination.Descriptor) Summary {
	r.log.Info("starting population", "destinations", len(descriptors))

	var sum Summary
	for _, d := range descriptors {
		if ctx.Err() != nil {
			r.log.Warn("run cancelled", "remaining", len(descriptors)-sum.Created-sum.Skipped-sum.Failed)
			break
		}

		r.log.Info("processing destination", "origin", d.Origin.String(), "destination", d.Name)

		id, m, err := r.process(ctx, d)
		switch {
		case errors.Is(err, media.ErrNoImages):
			r.log.Warn("no pexels images, skipping", "destination", d.Name)
			sum.Skipped++
		case err != nil:
			r.log.Error("error processing destination", "destination", d.Name, "err", err)
			sum.Failed++
		default:
			r.log.Info("created destination",
				"destination", d.Name,
				"id", id,
				"images", len(m.Images),
				"videos", len(m.Videos),
			)
			sum.Created++
		}
	}

	r.log.Info("Done.", "created", sum.Created, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum
}

func (r *Runner) process(ctx context.Context, d destination.Descriptor) (string, destination.MediaSet, error) {
	m, err := r.resolver.Resolve(ctx, d)
	if err != nil {
		return "", m, fmt.Errorf("resolving media: %w", err)
	}
	if len(m.Images) != r.images || len(m.Videos) != r.videos {
		return "", m, fmt.Errorf("resolved %d images and %d videos, want %d and %d",
			len(m.Images), len(m.Videos), r.images, r.videos)
	}

	rec := r.builder.Build(d, m)

	id, err := r.submit.CreateDestination(ctx, rec)
	if err != nil {
		return "", m, fmt.Errorf("creating destination: %w", err)
	}
	return id, m, nil
}
