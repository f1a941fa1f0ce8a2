package item

import (
	"context"
	"errors"
	"fmt"

	"itemkeeper/internal/domain/entity"
	"itemkeeper/internal/observability/metrics"
	"itemkeeper/internal/repository"
)

// ErrItemNotFound is returned when the requested item does not exist.
var ErrItemNotFound = errors.New("item not found")

// CreateInput represents the input parameters for creating a new item.
type CreateInput struct {
	Name string
}

// UpdateInput represents the input parameters for updating an existing item.
type UpdateInput struct {
	ID   int64
	Name string
}

// Service provides item management use cases.
// It handles business logic for item operations, delegates persistence to
// the repository, and keeps the item business metrics current.
type Service struct {
	Repo    repository.ItemRepository
	Metrics *metrics.Registry
}

// List retrieves all items from the repository.
func (s *Service) List(ctx context.Context) ([]*entity.Item, error) {
	items, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	// The list is authoritative, so refresh the stored-items gauge.
	s.Metrics.SetItemsInDatabase(int64(len(items)))
	return items, nil
}

// Get retrieves a single item by ID.
// Returns ErrItemNotFound if no item exists with the given ID.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if it == nil {
		return nil, ErrItemNotFound
	}
	return it, nil
}

// Create validates and stores a new item, then records the business
// counters: items_created_total is incremented and the stored-items gauge
// is bumped.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Item, error) {
	it := &entity.Item{Name: in.Name}
	if err := it.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.Metrics.RecordItemCreated()
	s.Metrics.ItemsInDatabase.Inc()
	return it, nil
}

// Update validates and updates an existing item.
// Returns ErrItemNotFound if no item exists with the given ID.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	it := &entity.Item{ID: in.ID, Name: in.Name}
	if err := it.Validate(); err != nil {
		return err
	}

	if err := s.Repo.Update(ctx, it); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes an item and decrements the stored-items gauge.
// Returns ErrItemNotFound if no item exists with the given ID.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	s.Metrics.ItemsInDatabase.Dec()
	return nil
}

// RefreshCount sets the stored-items gauge from the database count.
// Called at startup so the gauge is correct before any request arrives.
func (s *Service) RefreshCount(ctx context.Context) error {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	s.Metrics.SetItemsInDatabase(n)
	return nil
}
