// Package cache mirrors the displayed testimonial list into a local JSON
// snapshot so the page can render without a round trip. The snapshot is a
// convenience, never a source of truth.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gitlab.com/anderson.palacios/portfolio-service/pkg/model"
)

// StorageKey is the fixed key the snapshot is stored under.
const StorageKey = "userTestimonials"

// Store reads and writes the testimonial snapshot in a directory.
type Store struct {
	path string
}

// NewStore returns a store keeping its snapshot in dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, StorageKey+".json")}
}

// Load returns the cached testimonial list. A missing or unreadable
// snapshot is treated as "no cached data": the result is an empty list and
// never an error.
func (s *Store) Load() []model.Testimonial {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []model.Testimonial{}
	}
	var testimonials []model.Testimonial
	if err := json.Unmarshal(data, &testimonials); err != nil {
		return []model.Testimonial{}
	}
	if testimonials == nil {
		return []model.Testimonial{}
	}
	return testimonials
}

// Save overwrites the snapshot with the given list. There is no merging;
// each save replaces the previous snapshot completely.
func (s *Store) Save(testimonials []model.Testimonial) error {
	data, err := json.Marshal(testimonials)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
