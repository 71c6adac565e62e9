package kernel

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ex-console/pkg/console"
)

const unknownFieldType = "unknown"

// trackedField pairs a stable record with its accessor.
type trackedField struct {
	record console.ExposedFieldRecord
	read   func() (any, error)
}

// fieldOwner groups the tracked fields of one live object.
type fieldOwner struct {
	id     string
	label  string
	ref    any
	fields []*trackedField
}

// FieldTracker indexes exposed fields by owner and caches their display values.
type FieldTracker struct {
	owners []*fieldOwner
	byID   map[string]*fieldOwner
	ids    map[any]string
	newID  func(label string) string
}

// NewFieldTracker creates an empty tracker.
func NewFieldTracker() *FieldTracker {
	return &FieldTracker{
		byID:  make(map[string]*fieldOwner),
		ids:   make(map[any]string),
		newID: newOwnerID,
	}
}

// newOwnerID derives a readable, collision-resistant owner id.
func newOwnerID(label string) string {
	return fmt.Sprintf("%s#%s", label, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Rescan rebuilds the index from every source's declarations and renders the
// initial values. Owners keep their id across rescans while they stay exposed.
func (t *FieldTracker) Rescan(sources []console.FieldSource) []console.Diagnostic {
	owners := make([]*fieldOwner, 0, len(t.owners))
	byRef := make(map[any]*fieldOwner, len(t.owners))
	byID := make(map[string]*fieldOwner, len(t.owners))
	ids := make(map[any]string, len(t.ids))
	diagnostics := make([]console.Diagnostic, 0)

	for _, source := range sources {
		if source == nil {
			continue
		}
		sourceName := fmt.Sprintf("%T", source)

		var decls []console.FieldDecl
		if err := runSafely("field source "+sourceName, func() error {
			decls = source.ExposedFields()
			return nil
		}); err != nil {
			diagnostics = append(diagnostics, console.Diagnostic{Source: sourceName, Err: err})
			continue
		}

		for index, decl := range decls {
			if err := decl.Validate(); err != nil {
				diagnostics = append(diagnostics, console.Diagnostic{
					Source: sourceName,
					Err:    fmt.Errorf("field[%d]: %w", index, err),
				})
				continue
			}

			owner, exists := byRef[decl.Owner]
			if !exists {
				owner = t.ownerFor(decl, ids)
				byRef[decl.Owner] = owner
				byID[owner.id] = owner
				owners = append(owners, owner)
			}
			if owner.hasField(decl.Name) {
				diagnostics = append(diagnostics, console.Diagnostic{
					Source: owner.label,
					Err:    fmt.Errorf("field %q already exposed: %w", decl.Name, console.ErrInvalidDeclaration),
				})
				continue
			}

			field := &trackedField{
				record: console.ExposedFieldRecord{
					OwnerID:   owner.id,
					FieldName: decl.Name,
					FieldType: strings.TrimSpace(decl.Type),
				},
				read: decl.Read,
			}
			if field.record.FieldType == "" {
				field.record.FieldType = field.deriveType()
			}
			field.refresh()
			owner.fields = append(owner.fields, field)
		}
	}

	t.owners = owners
	t.byID = byID
	t.ids = ids

	return diagnostics
}

// ownerFor builds an owner group, reusing the id assigned by a previous rescan.
func (t *FieldTracker) ownerFor(decl console.FieldDecl, ids map[any]string) *fieldOwner {
	label := strings.TrimSpace(decl.OwnerLabel)
	if label == "" {
		label = fmt.Sprintf("%T", decl.Owner)
	}
	id, known := t.ids[decl.Owner]
	if !known {
		id = t.newID(label)
	}
	ids[decl.Owner] = id

	return &fieldOwner{id: id, label: label, ref: decl.Owner}
}

func (o *fieldOwner) hasField(name string) bool {
	for _, field := range o.fields {
		if field.record.FieldName == name {
			return true
		}
	}

	return false
}

// Refresh re-reads every tracked field and rewrites its cached text in place.
func (t *FieldTracker) Refresh() {
	for _, owner := range t.owners {
		for _, field := range owner.fields {
			field.refresh()
		}
	}
}

// refresh renders the current value, falling back to the placeholder.
func (f *trackedField) refresh() {
	text, err := f.render()
	if err != nil {
		f.record.CachedValueText = console.UnavailableValue
		return
	}
	f.record.CachedValueText = text
}

func (f *trackedField) render() (text string, err error) {
	err = runSafely("read field "+f.record.FieldName, func() error {
		value, readErr := f.read()
		if readErr != nil {
			return readErr
		}
		text, readErr = console.Stringify(value)
		return readErr
	})

	return text, err
}

func (f *trackedField) deriveType() string {
	var typeName string
	err := runSafely("read field "+f.record.FieldName, func() error {
		value, readErr := f.read()
		if readErr != nil {
			return readErr
		}
		if value != nil {
			typeName = fmt.Sprintf("%T", value)
		}
		return nil
	})
	if err != nil || typeName == "" {
		return unknownFieldType
	}

	return typeName
}

// ListOwners returns owner ids in first-exposed order.
func (t *FieldTracker) ListOwners() []string {
	ids := make([]string, 0, len(t.owners))
	for _, owner := range t.owners {
		ids = append(ids, owner.id)
	}

	return ids
}

// OwnerLabel returns the display label of one owner.
func (t *FieldTracker) OwnerLabel(ownerID string) string {
	owner, exists := t.byID[ownerID]
	if !exists {
		return ""
	}

	return owner.label
}

// ListFieldsFor returns the current records of one owner.
func (t *FieldTracker) ListFieldsFor(ownerID string) []console.ExposedFieldRecord {
	owner, exists := t.byID[ownerID]
	if !exists {
		return nil
	}

	records := make([]console.ExposedFieldRecord, 0, len(owner.fields))
	for _, field := range owner.fields {
		records = append(records, field.record)
	}

	return records
}

var _ console.FieldCatalog = (*FieldTracker)(nil)
