// Package consoletest provides an in-memory console runtime for module tests.
package consoletest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ex-console/pkg/console"
)

// Recorder is a console.Runtime that records output as plain text.
type Recorder struct {
	// Lines holds every printed or logged line with markup stripped.
	Lines []string
	// Inputs holds every command line submitted through Execute.
	Inputs []string
	// Clears counts Clear calls.
	Clears int
	// CommandRescans counts RescanCommands calls.
	CommandRescans int
	// FieldRescans counts RescanFields calls.
	FieldRescans int

	modules  []console.Module
	entities *Entities
	logs     bytes.Buffer
}

// NewRecorder creates a recorder whose command catalog lists the commands of modules.
func NewRecorder(modules ...console.Module) *Recorder {
	return &Recorder{
		modules:  modules,
		entities: NewEntities(),
	}
}

// Print records an untagged line.
func (r *Recorder) Print(text string) {
	r.Lines = append(r.Lines, console.StripMarkup(text))
}

// Log records a console-tagged line.
func (r *Recorder) Log(level console.Level, message string) {
	tag := console.ConsoleTag
	r.Lines = append(r.Lines, console.StripMarkup(console.FormatLine(&tag, level, message)))
}

// Commands returns a catalog grouped from the recorder's modules.
func (r *Recorder) Commands() console.CommandCatalog {
	return catalog{commands: groupCommands(r.modules)}
}

// Fields returns an empty field catalog.
func (r *Recorder) Fields() console.FieldCatalog {
	return emptyFields{}
}

// Entities returns the recorder's live object registry.
func (r *Recorder) Entities() console.EntityRegistry {
	return r.entities
}

// Execute records the submitted line.
func (r *Recorder) Execute(_ context.Context, input string) {
	r.Inputs = append(r.Inputs, input)
}

// Clear drops recorded lines.
func (r *Recorder) Clear() {
	r.Lines = nil
	r.Clears++
}

// RescanCommands counts the rescan.
func (r *Recorder) RescanCommands(context.Context) {
	r.CommandRescans++
}

// RescanFields counts the rescan.
func (r *Recorder) RescanFields(context.Context) {
	r.FieldRescans++
}

// Logger returns a text logger writing to LogOutput.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&r.logs, nil))
}

// LogOutput returns everything written through Logger.
func (r *Recorder) LogOutput() string {
	return r.logs.String()
}

// Contains reports whether any recorded line contains fragment.
func (r *Recorder) Contains(fragment string) bool {
	for _, line := range r.Lines {
		if strings.Contains(line, fragment) {
			return true
		}
	}

	return false
}

// Invoke coerces args and runs the declaration of module named name with
// matching arity against target. Stateless declarations use their factory
// when target is nil.
func Invoke(
	ctx context.Context,
	module console.Module,
	out console.Printer,
	target any,
	name string,
	args ...string,
) (string, error) {
	for _, decl := range module.Spec().Commands {
		if !strings.EqualFold(decl.DisplayName(), name) || len(decl.Params) != len(args) {
			continue
		}
		coerced, errs := console.CoerceAll(args, decl.Params)
		if len(errs) > 0 {
			return "", fmt.Errorf("invoke %s: %w", name, errors.Join(errs...))
		}
		if target == nil && decl.Factory != nil {
			target = decl.Factory()
		}

		return decl.Handler(ctx, console.Call{Target: target, Args: coerced, Out: out}), nil
	}

	return "", fmt.Errorf("invoke %s with %d args: %w", name, len(args), console.ErrUnknownCommand)
}

// Entities is an in-memory console.EntityRegistry.
type Entities struct {
	live map[string][]any
}

// NewEntities creates an empty registry.
func NewEntities() *Entities {
	return &Entities{live: make(map[string][]any)}
}

// Track registers entity under capability.
func (e *Entities) Track(capability string, entity any) error {
	for _, existing := range e.live[capability] {
		if existing == entity {
			return nil
		}
	}
	e.live[capability] = append(e.live[capability], entity)

	return nil
}

// Untrack removes entity from capability.
func (e *Entities) Untrack(capability string, entity any) error {
	live := e.live[capability]
	for index, existing := range live {
		if existing == entity {
			e.live[capability] = append(live[:index:index], live[index+1:]...)
			return nil
		}
	}

	return fmt.Errorf("untrack %s: %w", capability, console.ErrEntityNotTracked)
}

// LiveObjects returns the entities under capability.
func (e *Entities) LiveObjects(capability string) []any {
	return append([]any(nil), e.live[capability]...)
}

type catalog struct {
	commands []console.Command
}

func (c catalog) ListCommands() []console.Command {
	return c.commands
}

func (c catalog) FindCommand(alias string) (console.Command, bool) {
	for _, command := range c.commands {
		if command.HasAlias(alias) {
			return command, true
		}
	}

	return console.Command{}, false
}

func (c catalog) ListQuickActions() []console.QuickAction {
	actions := make([]console.QuickAction, 0)
	for _, command := range c.commands {
		for _, signature := range command.Signatures {
			if signature.QuickActionLabel != "" {
				actions = append(actions, console.QuickAction{
					Label:       signature.QuickActionLabel,
					CommandText: console.FormatCommandLine(command.Name, signature.QuickActionArgs),
				})
			}
		}
	}

	return actions
}

// groupCommands groups declarations by lower-case display name without validation.
func groupCommands(modules []console.Module) []console.Command {
	commands := make([]console.Command, 0)
	index := make(map[string]int)
	for _, module := range modules {
		for _, decl := range module.Spec().Commands {
			name := strings.ToLower(decl.DisplayName())
			position, exists := index[name]
			if !exists {
				position = len(commands)
				index[name] = position
				commands = append(commands, console.Command{
					Name:    name,
					Aliases: []string{name},
					Binding: decl.Binding.Normalized(),
				})
			}
			command := &commands[position]
			if command.Description == "" {
				command.Description = decl.Description
			}
			for _, alias := range decl.Aliases {
				if !command.HasAlias(alias) {
					command.Aliases = append(command.Aliases, strings.ToLower(alias))
				}
			}
			signature := console.Signature{Parameters: decl.Params}
			if decl.QuickAction != "" {
				signature.QuickActionLabel = decl.QuickAction
				signature.QuickActionArgs = decl.QuickActionArgs
			}
			command.Signatures = append(command.Signatures, signature)
		}
	}

	return commands
}

type emptyFields struct{}

func (emptyFields) ListOwners() []string {
	return nil
}

func (emptyFields) OwnerLabel(string) string {
	return ""
}

func (emptyFields) ListFieldsFor(string) []console.ExposedFieldRecord {
	return nil
}

var (
	_ console.Runtime        = (*Recorder)(nil)
	_ console.EntityRegistry = (*Entities)(nil)
)
