package reports

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a loaded group for a spec.
type Factory func(ctx context.Context, spec Spec) (Group, error)

// Registry manages report group factories per report kind
type Registry interface {
	// Register adds a factory for a report kind
	Register(kind Kind, factory Factory) error
	// Create loads a group of the given kind
	Create(ctx context.Context, kind Kind, spec Spec) (Group, error)
	// CreateAll loads one group per spec, in order
	CreateAll(ctx context.Context, kind Kind, specs []Spec) ([]Group, error)
	// Kinds returns the registered report kinds
	Kinds() []Kind
}

type registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

// NewRegistry creates a registry with the given factories.
func NewRegistry(factories map[Kind]Factory) Registry {
	r := &registry{factories: make(map[Kind]Factory, len(factories))}
	for kind, f := range factories {
		r.factories[kind] = f
	}
	return r
}

// NewDefaultRegistry registers the delay, delivery and stats groups on top of resolver.
func NewDefaultRegistry(resolver *Resolver) Registry {
	factory := func(loader Loader) Factory {
		return func(ctx context.Context, spec Spec) (Group, error) {
			return NewGroup(ctx, loader, spec, resolver)
		}
	}
	return NewRegistry(map[Kind]Factory{
		KindDelay:    factory(DelayLoader()),
		KindDelivery: factory(DeliveryLoader()),
		KindStats:    factory(StatsLoader()),
	})
}

func (r *registry) Register(kind Kind, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("report kind cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("report kind %q is already registered", kind)
	}

	r.factories[kind] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, kind Kind, spec Spec) (Group, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("report kind %q is not registered", kind)
	}

	return factory(ctx, spec)
}

func (r *registry) CreateAll(ctx context.Context, kind Kind, specs []Spec) ([]Group, error) {
	groups := make([]Group, 0, len(specs))
	for _, spec := range specs {
		g, err := r.Create(ctx, kind, spec)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (r *registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
