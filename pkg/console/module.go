package console

import (
	"context"
	"log/slog"
	"time"
)

// ModuleSpec declares what a host module contributes to the console.
type ModuleSpec struct {
	// Commands are the module's command declarations in registration order.
	Commands []CommandDecl
}

// Module is a host component that declares console commands.
//
// Modules that also implement FieldSource contribute exposed fields.
type Module interface {
	// Name returns a stable module identifier.
	Name() string
	// Spec returns the module's declarations; it is re-read on every rescan.
	Spec() ModuleSpec
}

// ModuleRegistrar is implemented by modules that need the runtime at registration.
type ModuleRegistrar interface {
	// OnRegister is called once when the module is registered.
	OnRegister(ctx context.Context, runtime Runtime) error
}

// Updater is implemented by modules advanced on every host loop tick.
type Updater interface {
	// Update advances module state by the elapsed time.
	Update(ctx context.Context, elapsed time.Duration)
}

// Printer writes lines to the console log.
type Printer interface {
	// Print appends an untagged line.
	Print(text string)
	// Log appends a console-tagged line at the given level.
	Log(level Level, message string)
}

// World answers which live objects currently implement a capability.
type World interface {
	// LiveObjects returns the live objects registered under capability.
	LiveObjects(capability string) []any
}

// EntityRegistry tracks live host objects by capability.
type EntityRegistry interface {
	World
	// Track registers one live object under capability.
	Track(capability string, entity any) error
	// Untrack removes one live object from capability.
	Untrack(capability string, entity any) error
}

// CommandCatalog provides read access to registered commands.
type CommandCatalog interface {
	// ListCommands returns every command in registration order.
	ListCommands() []Command
	// FindCommand resolves one alias case-insensitively.
	FindCommand(alias string) (Command, bool)
	// ListQuickActions returns the quick actions generated by the last rescan.
	ListQuickActions() []QuickAction
}

// FieldCatalog provides read access to tracked exposed fields.
type FieldCatalog interface {
	// ListOwners returns owner ids in first-exposed order.
	ListOwners() []string
	// OwnerLabel returns the display label of one owner.
	OwnerLabel(ownerID string) string
	// ListFieldsFor returns the records of one owner.
	ListFieldsFor(ownerID string) []ExposedFieldRecord
}

// Runtime is the console handle given to host modules.
type Runtime interface {
	Printer
	// Commands exposes the command registry.
	Commands() CommandCatalog
	// Fields exposes the field tracker.
	Fields() FieldCatalog
	// Entities exposes the live object registry used by per-instance commands.
	Entities() EntityRegistry
	// Execute submits one command line.
	Execute(ctx context.Context, input string)
	// Clear empties the log buffer.
	Clear()
	// RescanCommands rebuilds the command registry.
	RescanCommands(ctx context.Context)
	// RescanFields rebuilds the exposed field index.
	RescanFields(ctx context.Context)
	// Logger returns a logger whose records are fed into the console log.
	Logger() *slog.Logger
}

// Host is the console surface consumed by frontends.
type Host interface {
	Runtime
	// RegisterModule registers a module contributed by the frontend itself.
	RegisterModule(ctx context.Context, module Module) error
	// Lines returns the buffered log lines in insertion order.
	Lines() []LogLine
	// LastSequence returns the sequence of the newest line ever appended.
	LastSequence() uint64
	// Suggest recomputes suggestions for partially typed input.
	Suggest(partial string) SuggestionState
	// Suggestions returns the current suggestion state.
	Suggestions() SuggestionState
	// AdvanceSuggestion moves the suggestion cursor with wraparound.
	AdvanceSuggestion(delta int) SuggestionState
	// SelectedSuggestion returns the highlighted suggestion.
	SelectedSuggestion() (Suggestion, bool)
	// Tick runs one host loop step: module updates and field refresh on cadence.
	Tick(ctx context.Context, now time.Time)
	// HostLogHandler returns a slog handler appending records to the console log.
	HostLogHandler() slog.Handler
}
