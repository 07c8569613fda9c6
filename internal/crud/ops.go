package crud

import (
	"context"

	"crudd/internal/schema"
	"crudd/pkg/types"
)

// Create validates payload against the resource definition and inserts a new
// row. Defaults fill absent fields; required fields without defaults must be
// present.
func (s *Service) Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error) {
	res, err := s.resource(resource)
	if err != nil {
		return nil, err
	}
	values, err := schema.ValidatePayload(res, payload, false)
	if err != nil {
		return nil, err
	}
	return s.store.Create(ctx, res, values)
}

// Get returns the active row with the given id.
func (s *Service) Get(ctx context.Context, resource string, id int64) (map[string]any, error) {
	res, err := s.resource(resource)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, res, id)
}

// List returns one page of active rows plus the total active count.
func (s *Service) List(ctx context.Context, resource string, page types.Page) ([]map[string]any, int64, error) {
	res, err := s.resource(resource)
	if err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, res, page)
}

// Update validates the present keys of payload and applies them to the
// active row with the given id. Absent fields are left untouched.
func (s *Service) Update(ctx context.Context, resource string, id int64, payload map[string]any) (map[string]any, error) {
	res, err := s.resource(resource)
	if err != nil {
		return nil, err
	}
	values, err := schema.ValidatePayload(res, payload, true)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, res, id, values)
}

// Delete soft-deletes the active row with the given id.
func (s *Service) Delete(ctx context.Context, resource string, id int64) error {
	res, err := s.resource(resource)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, res, id)
}
