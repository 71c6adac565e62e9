package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ex-console/pkg/console"
)

const linkedMessage = "Console linked to host log"

// Kernel is the console core: it owns the log buffer, the command registry,
// the field tracker, the suggestion engine and the dispatcher.
//
// Kernel is not safe for concurrent use; every call must come from the host loop.
type Kernel struct {
	cfg config

	buffer      *LogBuffer
	commands    *CommandRegistry
	fields      *FieldTracker
	suggestions *SuggestionEngine
	entities    *EntityRegistry
	dispatcher  *Dispatcher

	modules     map[string]console.Module
	moduleOrder []string

	lastTick    time.Time
	lastRefresh time.Time
}

// New creates a console kernel.
func New(options ...Option) *Kernel {
	cfg := defaultConfig()
	for _, option := range options {
		option(&cfg)
	}

	commands := NewCommandRegistry()
	entities := NewEntityRegistry()
	kernelRuntime := &Kernel{
		cfg:         cfg,
		buffer:      NewLogBuffer(cfg.maxLines),
		commands:    commands,
		fields:      NewFieldTracker(),
		suggestions: NewSuggestionEngine(commands),
		entities:    entities,
		modules:     make(map[string]console.Module),
		moduleOrder: make([]string, 0),
	}
	kernelRuntime.dispatcher = NewDispatcher(commands, entities, kernelRuntime, cfg.logger)

	return kernelRuntime
}

// RegisterModule registers a host module and runs its optional registration hook.
//
// Commands and fields become visible on the next rescan.
func (k *Kernel) RegisterModule(ctx context.Context, module console.Module) error {
	if module == nil {
		return fmt.Errorf("register module: nil module")
	}
	name := module.Name()
	if name == "" {
		return fmt.Errorf("register module: empty module name")
	}
	if _, exists := k.modules[name]; exists {
		return fmt.Errorf("register module %s: %w", name, console.ErrModuleAlreadyRegistered)
	}

	k.modules[name] = module
	k.moduleOrder = append(k.moduleOrder, name)

	registrar, hasRegistrar := module.(console.ModuleRegistrar)
	if !hasRegistrar {
		return nil
	}
	if err := runSafely("module "+name+" OnRegister", func() error {
		return registrar.OnRegister(ctx, k)
	}); err != nil {
		delete(k.modules, name)
		k.moduleOrder = removeOrderedName(k.moduleOrder, name)
		return fmt.Errorf("register module %s: %w", name, err)
	}

	return nil
}

// Start builds both indices and announces the host log link.
func (k *Kernel) Start(ctx context.Context) {
	k.RescanAll(ctx)
	k.Log(console.LevelLog, linkedMessage)
}

// Modules returns registered modules in registration order.
func (k *Kernel) Modules() []console.Module {
	modules := make([]console.Module, 0, len(k.moduleOrder))
	for _, name := range k.moduleOrder {
		modules = append(modules, k.modules[name])
	}

	return modules
}

// RescanCommands rebuilds the command registry and reports diagnostics as warnings.
func (k *Kernel) RescanCommands(ctx context.Context) {
	diagnostics := k.commands.Rescan(k.Modules())
	k.reportDiagnostics(ctx, "rescan commands", diagnostics)
	k.suggestions.Update("")
}

// RescanFields rebuilds the exposed field index from modules and live entities.
func (k *Kernel) RescanFields(ctx context.Context) {
	sources := make([]console.FieldSource, 0, len(k.moduleOrder))
	for _, module := range k.Modules() {
		if source, ok := module.(console.FieldSource); ok {
			sources = append(sources, source)
		}
	}
	for _, entity := range k.entities.All() {
		if source, ok := entity.(console.FieldSource); ok {
			sources = append(sources, source)
		}
	}

	diagnostics := k.fields.Rescan(sources)
	k.reportDiagnostics(ctx, "rescan fields", diagnostics)
}

// RescanAll rebuilds commands and fields.
func (k *Kernel) RescanAll(ctx context.Context) {
	k.RescanCommands(ctx)
	k.RescanFields(ctx)
}

func (k *Kernel) reportDiagnostics(ctx context.Context, scope string, diagnostics []console.Diagnostic) {
	for _, diagnostic := range diagnostics {
		k.Log(console.LevelWarning, diagnostic.Error())
		k.cfg.onDiagnostic(ctx, scope, diagnostic)
	}
}

// Execute submits one command line.
func (k *Kernel) Execute(ctx context.Context, input string) {
	k.dispatcher.Execute(ctx, input)
}

// Tick runs one host loop step: module updates, then a field refresh when the
// refresh interval has elapsed.
func (k *Kernel) Tick(ctx context.Context, now time.Time) {
	var elapsed time.Duration
	if !k.lastTick.IsZero() {
		elapsed = now.Sub(k.lastTick)
	}
	k.lastTick = now

	for _, module := range k.Modules() {
		updater, ok := module.(console.Updater)
		if !ok {
			continue
		}
		if err := runSafely("module "+module.Name()+" Update", func() error {
			updater.Update(ctx, elapsed)
			return nil
		}); err != nil {
			k.Log(console.LevelException, err.Error())
		}
	}

	if k.lastRefresh.IsZero() || now.Sub(k.lastRefresh) >= k.cfg.refreshInterval {
		k.fields.Refresh()
		k.lastRefresh = now
	}
}

// RefreshInterval returns the configured field refresh cadence.
func (k *Kernel) RefreshInterval() time.Duration {
	return k.cfg.refreshInterval
}

// Print appends an untagged line.
func (k *Kernel) Print(text string) {
	k.buffer.Append(text)
}

// Log appends a console-tagged line.
func (k *Kernel) Log(level console.Level, message string) {
	tag := console.ConsoleTag
	k.buffer.Append(console.FormatLine(&tag, level, message))
}

// Clear empties the log buffer.
func (k *Kernel) Clear() {
	k.buffer.Clear()
}

// Lines returns the buffered lines in insertion order.
func (k *Kernel) Lines() []console.LogLine {
	return k.buffer.Snapshot()
}

// LastSequence returns the sequence of the newest line ever appended.
func (k *Kernel) LastSequence() uint64 {
	return k.buffer.LastSequence()
}

// Suggest recomputes suggestions for partially typed input.
func (k *Kernel) Suggest(partial string) console.SuggestionState {
	return k.suggestions.Update(partial)
}

// Suggestions returns the current suggestion state.
func (k *Kernel) Suggestions() console.SuggestionState {
	return k.suggestions.State()
}

// AdvanceSuggestion moves the suggestion cursor with wraparound.
func (k *Kernel) AdvanceSuggestion(delta int) console.SuggestionState {
	return k.suggestions.Advance(delta)
}

// SelectedSuggestion returns the highlighted suggestion.
func (k *Kernel) SelectedSuggestion() (console.Suggestion, bool) {
	return k.suggestions.Selected()
}

// QuickActions returns the quick actions of the current command surface.
func (k *Kernel) QuickActions() []console.QuickAction {
	return k.commands.ListQuickActions()
}

// Commands exposes the command registry read-only.
func (k *Kernel) Commands() console.CommandCatalog {
	return &commandCatalog{registry: k.commands}
}

// Fields exposes the field tracker read-only.
func (k *Kernel) Fields() console.FieldCatalog {
	return k.fields
}

// Entities exposes the live object registry.
func (k *Kernel) Entities() console.EntityRegistry {
	return k.entities
}

// HostLogHandler returns a slog handler appending host records to the console log.
func (k *Kernel) HostLogHandler() slog.Handler {
	return NewHostLogHandler(k.Print, k.cfg.hostLogLevel)
}

// Logger returns a logger whose records are fed into the console log.
func (k *Kernel) Logger() *slog.Logger {
	return slog.New(k.HostLogHandler())
}

// removeOrderedName removes one name while preserving remaining order.
func removeOrderedName(ordered []string, target string) []string {
	filtered := make([]string, 0, len(ordered))
	for _, item := range ordered {
		if item != target {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

var (
	_ console.Host    = (*Kernel)(nil)
	_ console.Runtime = (*Kernel)(nil)
	_ console.Printer = (*Kernel)(nil)
)
