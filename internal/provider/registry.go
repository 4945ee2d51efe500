package provider

import (
	"fmt"
	"sync"
)

// Factory creates an adapter from its options.
type Factory func(opts Options) Adapter

var (
	mu        sync.RWMutex
	factories = make(map[ID]Factory)
)

// Register makes a provider factory available to the system.
// Adapter packages call it from init().
func Register(id ID, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", id))
	}
	factories[id] = f
}

// Registered returns the IDs that have a factory.
func Registered() []ID {
	mu.RLock()
	defer mu.RUnlock()
	var out []ID
	for _, id := range IDs() {
		if _, ok := factories[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Registry is an immutable lookup table of adapters keyed by ID.
type Registry struct {
	adapters map[ID]Adapter
}

// NewRegistry instantiates every registered factory. perProvider entries
// override the shared defaults field by field.
func NewRegistry(defaults Options, perProvider map[ID]Options) *Registry {
	mu.RLock()
	defer mu.RUnlock()

	adapters := make(map[ID]Adapter, len(factories))
	for id, f := range factories {
		opts := defaults
		if o, ok := perProvider[id]; ok {
			if o.Client != nil {
				opts.Client = o.Client
			}
			if o.Endpoint != "" {
				opts.Endpoint = o.Endpoint
			}
			if o.DefaultModel != "" {
				opts.DefaultModel = o.DefaultModel
			}
			if o.Logger != nil {
				opts.Logger = o.Logger
			}
		}
		opts = opts.WithDefaults()
		opts.Logger = opts.Logger.Named(string(id))
		adapters[id] = f(opts)
	}
	return &Registry{adapters: adapters}
}

// NewStaticRegistry builds a registry from ready adapters.
func NewStaticRegistry(adapters ...Adapter) *Registry {
	m := make(map[ID]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.ID()] = a
	}
	return &Registry{adapters: m}
}

// Get returns the adapter for id or an unsupported-provider error.
func (r *Registry) Get(id ID) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, UnsupportedProviderError(id)
	}
	return a, nil
}
