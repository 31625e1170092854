// Package archive keeps parsed chat exports in a caller-owned in-memory
// registry so HTTP clients can upload once and run many analyses.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dagmawibabi/telesight/internal/models"
)

// ErrNotFound is returned when an archive id is unknown.
var ErrNotFound = errors.New("archive not found")

// Entry is one registered export.
type Entry struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Messages   int            `json:"messages"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Export     *models.Export `json:"-"`

	seq uint64
}

// Registry is a bounded, concurrency-safe in-memory archive store. When
// full, the oldest entry is evicted.
type Registry struct {
	mu       sync.RWMutex
	entries  map[uuid.UUID]*Entry
	capacity int
	seq      uint64
}

// NewRegistry creates a registry holding at most capacity archives.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = 16
	}
	return &Registry{
		entries:  make(map[uuid.UUID]*Entry),
		capacity: capacity,
	}
}

// Put registers an export and returns its entry.
func (r *Registry) Put(export *models.Export) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= r.capacity {
		r.evictOldestLocked()
	}

	r.seq++
	e := &Entry{
		ID:         uuid.New(),
		Name:       export.Name,
		Messages:   len(export.Messages),
		UploadedAt: time.Now().UTC(),
		Export:     export,
		seq:        r.seq,
	}
	r.entries[e.ID] = e
	return e
}

// Get looks up an archive by id.
func (r *Registry) Get(id uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// List returns all entries, newest first.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].seq > out[j].seq
	})
	return out
}

// Delete removes an archive by id.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *Registry) evictOldestLocked() {
	var oldest *Entry
	for _, e := range r.entries {
		if oldest == nil || e.seq < oldest.seq {
			oldest = e
		}
	}
	if oldest != nil {
		delete(r.entries, oldest.ID)
	}
}

// Parse decodes an export JSON stream and validates that it actually
// contains a messages array. Deeper validation is the uploader's problem;
// the analytics core tolerates any well-formed message shape.
func Parse(r io.Reader) (*models.Export, error) {
	var export models.Export
	dec := json.NewDecoder(r)
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	if export.Messages == nil {
		return nil, errors.New("export has no messages array")
	}
	return &export, nil
}
