package kernel

import (
	"fmt"
	"strings"

	"ex-console/pkg/console"
)

// signatureBinding carries the host callbacks of one overload.
type signatureBinding struct {
	module  string
	member  string
	handler console.Handler
	factory func() any
}

// commandEntry is one registered command with its callbacks.
type commandEntry struct {
	command  console.Command
	bindings []signatureBinding
}

// Resolution is the outcome of one alias lookup.
type Resolution struct {
	// Command is the first-registered claimant of the alias.
	Command console.Command
	// Shadowed names the other commands that also declared the alias.
	Shadowed []string

	entry *commandEntry
}

// CommandRegistry indexes commands declared by host modules.
//
// The index is rebuilt wholesale by Rescan and is read-only in between.
type CommandRegistry struct {
	entries      []*commandEntry
	byName       map[string]*commandEntry
	byAlias      map[string]*commandEntry
	claimants    map[string][]string
	quickActions []console.QuickAction
}

// NewCommandRegistry creates an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		byName:    make(map[string]*commandEntry),
		byAlias:   make(map[string]*commandEntry),
		claimants: make(map[string][]string),
	}
}

// Rescan rebuilds the registry from every module's declarations.
//
// Malformed declarations and conflicts are returned as diagnostics; the first
// registered claimant always wins.
func (r *CommandRegistry) Rescan(modules []console.Module) []console.Diagnostic {
	entries := make([]*commandEntry, 0, len(r.entries))
	byName := make(map[string]*commandEntry, len(r.byName))
	diagnostics := make([]console.Diagnostic, 0)
	report := func(source string, err error) {
		diagnostics = append(diagnostics, console.Diagnostic{Source: source, Err: err})
	}

	for _, module := range modules {
		if module == nil {
			continue
		}
		moduleName := module.Name()

		var spec console.ModuleSpec
		if err := runSafely("module "+moduleName+" Spec", func() error {
			spec = module.Spec()
			return nil
		}); err != nil {
			report(moduleName, err)
			continue
		}

		for index, decl := range spec.Commands {
			if err := decl.Validate(); err != nil {
				report(moduleName, fmt.Errorf("command[%d]: %w", index, err))
				continue
			}
			if err := addOverload(byName, &entries, moduleName, decl); err != nil {
				report(moduleName, fmt.Errorf("command[%d]: %w", index, err))
			}
		}
	}

	byAlias := make(map[string]*commandEntry, len(entries))
	claimants := make(map[string][]string, len(entries))
	for _, entry := range entries {
		for _, alias := range entry.command.Aliases {
			key := console.NormalizeName(alias)
			claimants[key] = append(claimants[key], entry.command.Name)
			owner, claimed := byAlias[key]
			if claimed {
				report(entry.bindings[0].module, fmt.Errorf(
					"command %s alias %q already registered by command %s: %w",
					entry.command.Name,
					alias,
					owner.command.Name,
					console.ErrAliasConflict,
				))
				continue
			}
			byAlias[key] = entry
		}
	}

	quickActions := make([]console.QuickAction, 0)
	for _, entry := range entries {
		for _, signature := range entry.command.Signatures {
			if signature.QuickActionLabel == "" {
				continue
			}
			quickActions = append(quickActions, console.QuickAction{
				Label:       signature.QuickActionLabel,
				CommandText: console.FormatCommandLine(entry.command.Name, signature.QuickActionArgs),
			})
		}
	}

	r.entries = entries
	r.byName = byName
	r.byAlias = byAlias
	r.claimants = claimants
	r.quickActions = quickActions

	return diagnostics
}

// addOverload groups one declaration into the command sharing its name.
func addOverload(
	byName map[string]*commandEntry,
	entries *[]*commandEntry,
	moduleName string,
	decl console.CommandDecl,
) error {
	name := strings.ToLower(decl.DisplayName())
	key := console.NormalizeName(name)
	binding := decl.Binding.Normalized()
	params := cloneParameters(decl.Params)

	entry, exists := byName[key]
	if exists {
		if entry.command.Binding != binding {
			return fmt.Errorf(
				"command %s overload %s binds %s %q, command binds %s %q: %w",
				name,
				decl.Member,
				binding.Kind,
				binding.Capability,
				entry.command.Binding.Kind,
				entry.command.Binding.Capability,
				console.ErrInvalidDeclaration,
			)
		}
		if _, duplicate := entry.command.SignatureForArity(len(params)); duplicate {
			return fmt.Errorf(
				"command %s overload %s: duplicate arity %d: %w",
				name,
				decl.Member,
				len(params),
				console.ErrInvalidDeclaration,
			)
		}
	} else {
		entry = &commandEntry{
			command: console.Command{
				Name:    name,
				Aliases: []string{name},
				Binding: binding,
			},
		}
	}

	signature := console.Signature{Parameters: params}
	var quickActionErr error
	if label := strings.TrimSpace(decl.QuickAction); label != "" {
		if len(decl.QuickActionArgs) == len(params) {
			signature.QuickActionLabel = label
			signature.QuickActionArgs = append([]string(nil), decl.QuickActionArgs...)
		} else {
			quickActionErr = fmt.Errorf(
				"command %s quick action %q: %d args for %d params: %w",
				name,
				label,
				len(decl.QuickActionArgs),
				len(params),
				console.ErrInvalidDeclaration,
			)
		}
	}

	if !exists {
		byName[key] = entry
		*entries = append(*entries, entry)
	}
	if entry.command.Description == "" {
		entry.command.Description = strings.TrimSpace(decl.Description)
	}
	for _, alias := range decl.Aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if !entry.command.HasAlias(alias) {
			entry.command.Aliases = append(entry.command.Aliases, alias)
		}
	}
	entry.command.Signatures = append(entry.command.Signatures, signature)
	entry.bindings = append(entry.bindings, signatureBinding{
		module:  moduleName,
		member:  decl.Member,
		handler: decl.Handler,
		factory: decl.Factory,
	})

	return quickActionErr
}

// Resolve looks up one alias case-insensitively.
func (r *CommandRegistry) Resolve(alias string) (Resolution, error) {
	key := console.NormalizeName(alias)
	entry, exists := r.byAlias[key]
	if !exists {
		return Resolution{}, fmt.Errorf("resolve %q: %w", alias, console.ErrUnknownCommand)
	}

	resolution := Resolution{
		Command: cloneCommand(entry.command),
		entry:   entry,
	}
	for _, name := range r.claimants[key] {
		if name != entry.command.Name {
			resolution.Shadowed = append(resolution.Shadowed, name)
		}
	}

	return resolution, nil
}

// FindByName returns the command with the given canonical name.
func (r *CommandRegistry) FindByName(name string) (console.Command, bool) {
	entry, exists := r.byName[console.NormalizeName(name)]
	if !exists {
		return console.Command{}, false
	}

	return cloneCommand(entry.command), true
}

// ListAll returns every command in registration order.
func (r *CommandRegistry) ListAll() []console.Command {
	commands := make([]console.Command, 0, len(r.entries))
	for _, entry := range r.entries {
		commands = append(commands, cloneCommand(entry.command))
	}

	return commands
}

// ListQuickActions returns the quick actions generated by the last rescan.
func (r *CommandRegistry) ListQuickActions() []console.QuickAction {
	return append([]console.QuickAction(nil), r.quickActions...)
}

func cloneCommand(command console.Command) console.Command {
	cloned := command
	cloned.Aliases = append([]string(nil), command.Aliases...)
	if len(command.Signatures) == 0 {
		return cloned
	}

	cloned.Signatures = make([]console.Signature, 0, len(command.Signatures))
	for _, signature := range command.Signatures {
		copied := signature
		copied.Parameters = cloneParameters(signature.Parameters)
		copied.QuickActionArgs = append([]string(nil), signature.QuickActionArgs...)
		if len(copied.QuickActionArgs) == 0 {
			copied.QuickActionArgs = nil
		}
		cloned.Signatures = append(cloned.Signatures, copied)
	}

	return cloned
}

func cloneParameters(params []console.Parameter) []console.Parameter {
	if len(params) == 0 {
		return nil
	}

	cloned := make([]console.Parameter, 0, len(params))
	for _, param := range params {
		copied := param
		copied.Name = strings.TrimSpace(param.Name)
		if len(param.Enum) > 0 {
			copied.Enum = append([]string(nil), param.Enum...)
		}
		cloned = append(cloned, copied)
	}

	return cloned
}
