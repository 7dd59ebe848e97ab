package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neexbeast/destination-seeder/internal/destination"
	"github.com/neexbeast/destination-seeder/internal/pexels"
)

// DefaultUploadDelay is the pause between successive uploads for one descriptor.
const DefaultUploadDelay = 500 * time.Millisecond

// ErrNoImages is returned when photo search yields no usable URL. The
// descriptor should be skipped rather than treated as a failure.
var ErrNoImages = errors.New("no images found")

// ErrTooFewImages is returned when photo search yields some usable URLs but
// fewer than the required image count. Nothing is uploaded in that case.
var ErrTooFewImages = errors.New("too few images found")

// PhotoSearcher is the interface satisfied by pexels.Client.
type PhotoSearcher interface {
	Search(ctx context.Context, query string, perPage int) ([]pexels.Photo, error)
}

// downloader is the interface satisfied by backend.Client.
type downloader interface {
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// invalidator is implemented by searchers that cache results, such as
// cache.CachedSearcher.
type invalidator interface {
	Invalidate(ctx context.Context, query string, perPage int) error
}

// uploader is the interface satisfied by backend.Client.
type uploader interface {
	UploadImage(ctx context.Context, filename string, data []byte, folder string) (string, error)
}

// RemoteResolver sources images from photo search and re-hosts them on the
// destination service. Videos are synthetic.
type RemoteResolver struct {
	search   PhotoSearcher
	download downloader
	upload   uploader
	images   int
	videos   int
	delay    time.Duration
	log      *slog.Logger
}

// NewRemoteResolver constructs a RemoteResolver. A negative delay is treated as zero.
func NewRemoteResolver(search PhotoSearcher, download downloader, upload uploader, images, videos int, delay time.Duration, log *slog.Logger) *RemoteResolver {
	if delay < 0 {
		delay = 0
	}
	return &RemoteResolver{
		search:   search,
		download: download,
		upload:   upload,
		images:   images,
		videos:   videos,
		delay:    delay,
		log:      log,
	}
}

// Resolve searches, downloads and uploads images for d. Images already
// uploaded when a later step fails are left on the backend.
func (r *RemoteResolver) Resolve(ctx context.Context, d destination.Descriptor) (destination.MediaSet, error) {
	sources, err := r.sourceURLs(ctx, d.Name)
	if err != nil {
		return destination.MediaSet{}, err
	}
	r.log.Info("found images on pexels", "destination", d.Name, "count", len(sources))

	folder := "destinations/" + uuid.NewString()
	hosted := make([]string, 0, len(sources))
	for i, src := range sources {
		if i > 0 {
			if err := sleep(ctx, r.delay); err != nil {
				return destination.MediaSet{}, err
			}
		}

		r.log.Info("uploading image", "destination", d.Name, "index", i+1, "total", len(sources))
		u, err := r.rehost(ctx, d.Name, src, folder)
		if err != nil {
			return destination.MediaSet{}, fmt.Errorf("image %d/%d: %w", i+1, len(sources), err)
		}
		r.log.Info("uploaded image", "destination", d.Name, "url", u)
		hosted = append(hosted, u)
	}

	return destination.MediaSet{
		Images: hosted,
		Videos: SyntheticVideos(d.Name, r.videos),
	}, nil
}

func (r *RemoteResolver) sourceURLs(ctx context.Context, name string) ([]string, error) {
	photos, err := r.search.Search(ctx, name, r.images)
	if err != nil {
		return nil, fmt.Errorf("searching photos: %w", err)
	}

	urls := make([]string, 0, r.images)
	for _, p := range photos {
		if len(urls) == r.images {
			break
		}
		if u := p.BestURL(); u != "" {
			urls = append(urls, u)
		}
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoImages, name)
	}
	if len(urls) < r.images {
		return nil, fmt.Errorf("%w for %s: %d of %d", ErrTooFewImages, name, len(urls), r.images)
	}
	return urls, nil
}

func (r *RemoteResolver) rehost(ctx context.Context, name, src, folder string) (string, error) {
	data, err := r.download.Download(ctx, src)
	if err != nil {
		r.evict(ctx, name)
		return "", fmt.Errorf("downloading: %w", err)
	}

	u, err := r.upload.UploadImage(ctx, uuid.NewString()+".jpg", data, folder)
	if err != nil {
		return "", fmt.Errorf("uploading: %w", err)
	}
	return u, nil
}

// evict drops cached search results for name so the next run searches again
// instead of reusing a URL that no longer downloads.
func (r *RemoteResolver) evict(ctx context.Context, name string) {
	inv, ok := r.search.(invalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(ctx, name, r.images); err != nil {
		r.log.Warn("could not evict cached search", "destination", name, "err", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
