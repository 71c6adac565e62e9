package console

import (
	"fmt"
	"reflect"
	"strings"
)

// UnavailableValue is rendered for fields whose value cannot be read or printed.
const UnavailableValue = "<unavailable>"

// FieldDecl exposes one field or property of a live host object for inspection.
type FieldDecl struct {
	// Owner is the live object the field belongs to; grouping uses its identity.
	Owner any
	// OwnerLabel is the owner's display name.
	OwnerLabel string
	// Name is the field display label.
	Name string
	// Type is the display type; derived from the first read when empty.
	Type string
	// Read returns the current value.
	Read func() (any, error)
}

// Validate checks declaration coherence.
func (d FieldDecl) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("validate field: missing name: %w", ErrInvalidDeclaration)
	}
	if d.Read == nil {
		return fmt.Errorf("validate field %s: nil accessor: %w", d.Name, ErrInvalidDeclaration)
	}
	if d.Owner == nil {
		return fmt.Errorf("validate field %s: nil owner: %w", d.Name, ErrInvalidDeclaration)
	}
	ownerType := reflect.TypeOf(d.Owner)
	if ownerType.Kind() != reflect.Pointer {
		return fmt.Errorf("validate field %s: owner %T is not a pointer: %w", d.Name, d.Owner, ErrInvalidDeclaration)
	}
	// Pointers to distinct zero-size values may compare equal.
	if ownerType.Elem().Size() == 0 {
		return fmt.Errorf("validate field %s: owner %T points to a zero-size value: %w", d.Name, d.Owner, ErrInvalidDeclaration)
	}

	return nil
}

// FieldSource is implemented by modules and live objects that expose fields.
type FieldSource interface {
	// ExposedFields returns the fields to track, in display order.
	ExposedFields() []FieldDecl
}

// ExposedFieldRecord is the tracked snapshot of one exposed field.
type ExposedFieldRecord struct {
	// OwnerID identifies the owning live object.
	OwnerID string
	// FieldName is the display label.
	FieldName string
	// FieldType is the display type.
	FieldType string
	// CachedValueText is the value rendered on the last refresh.
	CachedValueText string
}

// ExposeField exposes the value behind a pointer.
func ExposeField[T any](owner any, ownerLabel string, name string, value *T) FieldDecl {
	return FieldDecl{
		Owner:      owner,
		OwnerLabel: ownerLabel,
		Name:       name,
		Type:       reflect.TypeFor[T]().String(),
		Read: func() (any, error) {
			if value == nil {
				return nil, fmt.Errorf("read field %s: nil pointer", name)
			}
			return *value, nil
		},
	}
}

// ExposeFunc exposes a computed property.
func ExposeFunc[T any](owner any, ownerLabel string, name string, read func() T) FieldDecl {
	return FieldDecl{
		Owner:      owner,
		OwnerLabel: ownerLabel,
		Name:       name,
		Type:       reflect.TypeFor[T]().String(),
		Read: func() (any, error) {
			return read(), nil
		},
	}
}

// Stringify renders a field value as display text.
func Stringify(value any) (string, error) {
	if value == nil {
		return "null", nil
	}
	switch typed := value.(type) {
	case string:
		return typed, nil
	case fmt.Stringer:
		return typed.String(), nil
	case error:
		return typed.Error(), nil
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return "", fmt.Errorf("stringify %T: %w", value, ErrUnrenderable)
	default:
		return fmt.Sprint(value), nil
	}
}
