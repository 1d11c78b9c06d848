package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/adapters/wire"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/pkg/utils"
)

// Store keeps every collection in one flat JSON document. Each mutation
// rewrites the whole file; an empty path keeps the document in memory only.
type Store struct {
	path    string
	metrics *observability.Metrics

	mu   sync.RWMutex
	data *entities.Dataset
}

// Open loads the document at path. A missing file starts an empty document.
func Open(path string, metrics *observability.Metrics) (*Store, error) {
	s := &Store{path: path, metrics: metrics, data: &entities.Dataset{}}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("Document not found, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	data, err := wire.DecodeDataset(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", path, err)
	}
	s.data = data

	log.Info().
		Str("path", path).
		Int("accommodations", len(data.Accommodations)).
		Int("users", len(data.Users)).
		Int("bookings", len(data.Bookings)).
		Int("favorites", len(data.Favorites)).
		Msg("Document loaded")
	return s, nil
}

// NewMemoryStore creates an in-memory store seeded with data
func NewMemoryStore(data *entities.Dataset) *Store {
	if data == nil {
		data = &entities.Dataset{}
	}
	return &Store{data: cloneDataset(data)}
}

// Snapshot returns a copy of the whole document
func (s *Store) Snapshot() *entities.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDataset(s.data)
}

func (s *Store) read(ctx context.Context, op string, fn func(*entities.Dataset) error) error {
	start := time.Now()
	defer func() { observability.RecordStoreMetric(ctx, s.metrics, op, time.Since(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write applies fn and persists the document. When fn or the write fails the
// in-memory document is left as it was.
func (s *Store) write(ctx context.Context, op string, fn func(*entities.Dataset) error) error {
	start := time.Now()
	defer func() { observability.RecordStoreMetric(ctx, s.metrics, op, time.Since(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneDataset(s.data)
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *Store) persist(data *entities.Dataset) error {
	if s.path == "" {
		return nil
	}
	raw, err := wire.EncodeIndent(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func cloneDataset(d *entities.Dataset) *entities.Dataset {
	return &entities.Dataset{
		Facilities:     slices.Clone(d.Facilities),
		Users:          slices.Clone(d.Users),
		Accommodations: slices.Clone(d.Accommodations),
		Bookings:       slices.Clone(d.Bookings),
		Comments:       slices.Clone(d.Comments),
		Favorites:      slices.Clone(d.Favorites),
	}
}

func indexOf[T any](items []T, match func(T) bool) int {
	return slices.IndexFunc(items, match)
}
