package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/neexbeast/destination-seeder/internal/destination"
)

const (
	imageURLFormat = "https://mock-cdn.com/images/%s_%d.jpg"
	videoURLFormat = "https://mock-cdn.com/videos/%s_%d.mp4"
)

// slug lower-cases name and replaces spaces with hyphens.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// SyntheticImageURL returns the placeholder image URL for name at 1-based seq.
func SyntheticImageURL(name string, seq int) string {
	return fmt.Sprintf(imageURLFormat, slug(name), seq)
}

// SyntheticVideoURL returns the placeholder video URL for name at 1-based seq.
func SyntheticVideoURL(name string, seq int) string {
	return fmt.Sprintf(videoURLFormat, slug(name), seq)
}

// SyntheticImages returns n placeholder image URLs for name.
func SyntheticImages(name string, n int) []string {
	return build(name, n, SyntheticImageURL)
}

// SyntheticVideos returns n placeholder video URLs for name.
func SyntheticVideos(name string, n int) []string {
	return build(name, n, SyntheticVideoURL)
}

func build(name string, n int, f func(string, int) string) []string {
	urls := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		urls = append(urls, f(name, i))
	}
	return urls
}

// SyntheticResolver derives every media URL from the descriptor name.
type SyntheticResolver struct {
	images int
	videos int
}

// NewSyntheticResolver constructs a SyntheticResolver producing the given counts.
func NewSyntheticResolver(images, videos int) *SyntheticResolver {
	return &SyntheticResolver{images: images, videos: videos}
}

// Resolve never fails.
func (r *SyntheticResolver) Resolve(_ context.Context, d destination.Descriptor) (destination.MediaSet, error) {
	return destination.MediaSet{
		Images: SyntheticImages(d.Name, r.images),
		Videos: SyntheticVideos(d.Name, r.videos),
	}, nil
}
