package kernel

import (
	"fmt"
	"reflect"
	"strings"

	"ex-console/pkg/console"
)

// EntityRegistry is the in-memory index of live host objects by capability.
type EntityRegistry struct {
	entities map[string][]any
	order    []string
}

// NewEntityRegistry creates an empty entity registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{
		entities: make(map[string][]any),
	}
}

// Track registers a live object under capability.
func (r *EntityRegistry) Track(capability string, entity any) error {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		return fmt.Errorf("track entity: empty capability")
	}
	if entity == nil {
		return fmt.Errorf("track entity %s: nil entity", capability)
	}
	if reflect.ValueOf(entity).Kind() != reflect.Pointer {
		return fmt.Errorf("track entity %s: %T is not a pointer", capability, entity)
	}

	live, exists := r.entities[capability]
	if !exists {
		r.order = append(r.order, capability)
	}
	for _, existing := range live {
		if existing == entity {
			return nil
		}
	}
	r.entities[capability] = append(live, entity)

	return nil
}

// Untrack removes a live object from capability.
func (r *EntityRegistry) Untrack(capability string, entity any) error {
	capability = strings.TrimSpace(capability)
	live := r.entities[capability]
	for index, existing := range live {
		if existing != entity {
			continue
		}
		r.entities[capability] = append(live[:index:index], live[index+1:]...)
		return nil
	}

	return fmt.Errorf("untrack entity %s %T: %w", capability, entity, console.ErrEntityNotTracked)
}

// LiveObjects returns the live objects under capability in registration order.
func (r *EntityRegistry) LiveObjects(capability string) []any {
	live := r.entities[strings.TrimSpace(capability)]
	if len(live) == 0 {
		return nil
	}

	return append([]any(nil), live...)
}

// All returns every distinct live object across capabilities, first-tracked first.
func (r *EntityRegistry) All() []any {
	seen := make(map[any]struct{})
	all := make([]any, 0)
	for _, capability := range r.order {
		for _, entity := range r.entities[capability] {
			if _, exists := seen[entity]; exists {
				continue
			}
			seen[entity] = struct{}{}
			all = append(all, entity)
		}
	}

	return all
}

var _ console.EntityRegistry = (*EntityRegistry)(nil)
