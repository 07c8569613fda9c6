package crud

import (
	"time"

	"crudd/internal/schema"
	"crudd/internal/store"
	"crudd/pkg/types"
)

// Service wires the validated resource set to the store. One instance serves
// every generated endpoint.
type Service struct {
	store     *store.Store
	resources []schema.Resource
	byName    map[string]schema.Resource
	startTime time.Time
}

// New constructs a Service over an already-migrated store. The resource
// slice must have passed schema.ValidateSet.
func New(st *store.Store, resources []schema.Resource) *Service {
	byName := make(map[string]schema.Resource, len(resources))
	for _, r := range resources {
		byName[r.Name] = r
	}
	return &Service{
		store:     st,
		resources: append([]schema.Resource(nil), resources...),
		byName:    byName,
		startTime: time.Now(),
	}
}

// Resources returns the wire representation of every registered resource, in
// registration (name) order.
func (s *Service) Resources() []types.Resource {
	out := make([]types.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r.Spec())
	}
	return out
}

// Schema returns one resource's wire representation by name.
func (s *Service) Schema(name string) (types.Resource, error) {
	r, ok := s.byName[name]
	if !ok {
		return types.Resource{}, ErrResourceNotFound(name)
	}
	return r.Spec(), nil
}

func (s *Service) resource(name string) (schema.Resource, error) {
	r, ok := s.byName[name]
	if !ok {
		return schema.Resource{}, ErrResourceNotFound(name)
	}
	return r, nil
}
