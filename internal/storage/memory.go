package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/neexbeast/destination-seeder/internal/destination"
)

// MemoryRepository keeps destinations in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]destination.Destination
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]destination.Destination)}
}

// CreateDestination stores rec under a fresh id.
func (m *MemoryRepository) CreateDestination(_ context.Context, rec destination.Record) (*destination.Destination, error) {
	d := destination.Destination{ID: uuid.NewString(), Record: rec}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[d.ID] = d
	m.order = append(m.order, d.ID)

	return &d, nil
}

// GetDestination returns nil, nil when id is unknown.
func (m *MemoryRepository) GetDestination(_ context.Context, id string) (*destination.Destination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// ListDestinations returns up to limit destinations in creation order.
func (m *MemoryRepository) ListDestinations(_ context.Context, region string, limit int) ([]*destination.Destination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*destination.Destination
	for _, id := range m.order {
		if len(out) == limit {
			break
		}
		d := m.byID[id]
		if region != "" && d.Region != region {
			continue
		}
		out = append(out, &d)
	}
	return out, nil
}

// Ping always succeeds.
func (m *MemoryRepository) Ping(_ context.Context) error { return nil }

// MemoryObjects keeps uploaded objects in process memory and serves them
// under publicURL + "/media/".
type MemoryObjects struct {
	mu        sync.RWMutex
	publicURL string
	objects   map[string]Object
}

// Object is a stored upload.
type Object struct {
	ContentType string
	Data        []byte
}

// NewMemoryObjects constructs an empty MemoryObjects.
func NewMemoryObjects(publicURL string) *MemoryObjects {
	return &MemoryObjects{publicURL: publicURL, objects: make(map[string]Object)}
}

// Put stores data under key and returns its public URL.
func (m *MemoryObjects) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{ContentType: contentType, Data: data}
	return fmt.Sprintf("%s/media/%s", m.publicURL, key), nil
}

// Get returns the object stored under key.
func (m *MemoryObjects) Get(_ context.Context, key string) (Object, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok, nil
}

// Ping always succeeds.
func (m *MemoryObjects) Ping(_ context.Context) error { return nil }
