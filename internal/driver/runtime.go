package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"ex-console/internal/driver/frontend"
	"ex-console/pkg/console"
)

// BuilderFunc builds one frontend bound to host.
type BuilderFunc func(
	ctx context.Context,
	host console.Host,
	settings frontend.Settings,
	logger *slog.Logger,
) (frontend.Frontend, error)

// Descriptor binds one frontend type token to its builder.
type Descriptor struct {
	// Type is the frontend type token from configuration (for example "tui").
	Type string
	// Builder constructs one frontend instance for this type.
	Builder BuilderFunc
}

// Registry maps frontend types to builders.
type Registry struct {
	builders map[string]BuilderFunc
	types    []string
}

// NewRegistry creates one immutable frontend registry from descriptors.
func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	builders := make(map[string]BuilderFunc, len(descriptors))
	types := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		if descriptor.Type == "" {
			return nil, fmt.Errorf("new registry: empty descriptor type")
		}
		if descriptor.Builder == nil {
			return nil, fmt.Errorf("new registry type %s: nil builder", descriptor.Type)
		}
		if _, exists := builders[descriptor.Type]; exists {
			return nil, fmt.Errorf("new registry type %s: duplicate", descriptor.Type)
		}

		builders[descriptor.Type] = descriptor.Builder
		types = append(types, descriptor.Type)
	}
	sort.Strings(types)

	return &Registry{
		builders: builders,
		types:    types,
	}, nil
}

// Types returns all registered frontend types in deterministic sorted order.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}

	types := make([]string, len(r.types))
	copy(types, r.types)

	return types
}

// Build constructs the frontend registered under frontendType.
func (r *Registry) Build(
	ctx context.Context,
	frontendType string,
	host console.Host,
	settings frontend.Settings,
	logger *slog.Logger,
) (frontend.Frontend, error) {
	if r == nil {
		return nil, fmt.Errorf("build frontend: nil registry")
	}
	if host == nil {
		return nil, fmt.Errorf("build frontend %s: nil host", frontendType)
	}
	if logger == nil {
		logger = slog.Default()
	}

	builder, exists := r.builders[frontendType]
	if !exists {
		return nil, fmt.Errorf("build frontend %s: unsupported type", frontendType)
	}

	built, err := builder(ctx, host, settings.Normalized(), logger)
	if err != nil {
		return nil, fmt.Errorf("build frontend %s: %w", frontendType, err)
	}
	if built == nil {
		return nil, fmt.Errorf("build frontend %s: nil frontend", frontendType)
	}

	return built, nil
}
