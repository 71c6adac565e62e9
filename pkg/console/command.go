package console

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ParamType identifies one member of the closed set of coercible parameter types.
type ParamType string

const (
	// ParamInt accepts base-10 integers.
	ParamInt ParamType = "int"
	// ParamFloat accepts decimal and exponent float notation.
	ParamFloat ParamType = "float"
	// ParamBool accepts the strconv.ParseBool spellings.
	ParamBool ParamType = "bool"
	// ParamString passes the argument through unchanged.
	ParamString ParamType = "string"
	// ParamEnum accepts one of Parameter.Enum by case-insensitive name.
	ParamEnum ParamType = "enum"
)

// Validate checks whether one parameter type is supported.
func (t ParamType) Validate() error {
	switch t {
	case ParamInt, ParamFloat, ParamBool, ParamString, ParamEnum:
		return nil
	default:
		return fmt.Errorf("validate param type %q: %w", t, ErrUnsupportedType)
	}
}

// Parameter is one named, typed positional parameter of a signature.
type Parameter struct {
	// Name is the parameter name shown in suggestions and help.
	Name string
	// Type selects the coercion applied to the raw argument.
	Type ParamType
	// Enum lists the accepted names when Type is ParamEnum.
	Enum []string
}

// Validate checks parameter declaration coherence.
func (p Parameter) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("validate parameter: missing name: %w", ErrInvalidDeclaration)
	}
	if err := p.Type.Validate(); err != nil {
		return fmt.Errorf("validate parameter %s: %w", p.Name, err)
	}
	if p.Type == ParamEnum && len(p.Enum) == 0 {
		return fmt.Errorf("validate parameter %s: enum without values: %w", p.Name, ErrInvalidDeclaration)
	}
	if p.Type != ParamEnum && len(p.Enum) > 0 {
		return fmt.Errorf("validate parameter %s: enum values on %s parameter: %w", p.Name, p.Type, ErrInvalidDeclaration)
	}

	return nil
}

// TypeName returns the display form of the parameter type.
func (p Parameter) TypeName() string {
	if p.Type == ParamEnum {
		return strings.Join(p.Enum, "|")
	}

	return string(p.Type)
}

// Render formats the parameter as `<name:type>`.
func (p Parameter) Render() string {
	return fmt.Sprintf("<%s:%s>", p.Name, p.TypeName())
}

// TargetKind selects which receiver an invocation runs against.
type TargetKind string

const (
	// TargetStateless invokes once against a throwaway instance.
	TargetStateless TargetKind = "stateless"
	// TargetPerInstance invokes once per live object implementing a capability.
	TargetPerInstance TargetKind = "per_instance"
)

// Binding describes the receiver of a command.
type Binding struct {
	// Kind selects stateless or per-instance invocation.
	Kind TargetKind
	// Capability names the live-object group queried for per-instance commands.
	Capability string
}

// Validate checks binding coherence.
func (b Binding) Validate() error {
	switch b.Kind {
	case TargetStateless:
		if b.Capability != "" {
			return fmt.Errorf("validate binding: stateless binding with capability %q: %w", b.Capability, ErrInvalidDeclaration)
		}
	case TargetPerInstance:
		if strings.TrimSpace(b.Capability) == "" {
			return fmt.Errorf("validate binding: per-instance binding without capability: %w", ErrInvalidDeclaration)
		}
	default:
		return fmt.Errorf("validate binding: unsupported kind %q: %w", b.Kind, ErrInvalidDeclaration)
	}

	return nil
}

// Normalized fills the default kind.
func (b Binding) Normalized() Binding {
	if b.Kind == "" {
		b.Kind = TargetStateless
	}
	b.Capability = strings.TrimSpace(b.Capability)

	return b
}

// Call carries one resolved invocation to a handler.
type Call struct {
	// Target is the live object or throwaway instance the command runs against.
	Target any
	// Args holds arguments already coerced to their parameter types.
	Args Args
	// Out writes lines to the console log.
	Out Printer
}

// TargetAs casts the call target to the requested type.
func TargetAs[T any](call Call) (T, bool) {
	typed, ok := call.Target.(T)
	return typed, ok
}

// Handler runs one command signature.
//
// A non-empty return value is reported as an error line.
type Handler func(ctx context.Context, call Call) string

// CommandDecl is one command declaration supplied by a host module.
//
// Declarations sharing a display name are overloads of one command and must
// differ in parameter count.
type CommandDecl struct {
	// Member is the Go member implementing the command.
	Member string
	// Name is the display name; Member is used when empty.
	Name string
	// Aliases lists additional tokens resolving to the command.
	Aliases []string
	// Description is shown by help output.
	Description string
	// QuickAction labels a one-click trigger for this signature.
	QuickAction string
	// QuickActionArgs are the arguments submitted by the quick action.
	QuickActionArgs []string
	// Params declares the positional parameters.
	Params []Parameter
	// Binding selects the invocation receiver.
	Binding Binding
	// Factory builds the throwaway receiver for stateless commands.
	Factory func() any
	// Handler runs the command.
	Handler Handler
}

// DisplayName returns the declared name, defaulting to the member name.
func (d CommandDecl) DisplayName() string {
	if name := strings.TrimSpace(d.Name); name != "" {
		return name
	}

	return strings.TrimSpace(d.Member)
}

// Validate checks declaration coherence.
func (d CommandDecl) Validate() error {
	name := d.DisplayName()
	if name == "" {
		return fmt.Errorf("validate command: missing name and member: %w", ErrInvalidDeclaration)
	}
	if strings.ContainsAny(name, " \t\r\n\"") {
		return fmt.Errorf("validate command %q: name contains whitespace or quotes: %w", name, ErrInvalidDeclaration)
	}
	if d.Handler == nil {
		return fmt.Errorf("validate command %s: nil handler: %w", name, ErrInvalidDeclaration)
	}
	for index, alias := range d.Aliases {
		trimmed := strings.TrimSpace(alias)
		if trimmed == "" || strings.ContainsAny(trimmed, " \t\r\n\"") {
			return fmt.Errorf("validate command %s alias[%d] %q: %w", name, index, alias, ErrInvalidDeclaration)
		}
	}

	seen := make(map[string]struct{}, len(d.Params))
	for index, param := range d.Params {
		if err := param.Validate(); err != nil {
			return fmt.Errorf("validate command %s param[%d]: %w", name, index, err)
		}
		key := NormalizeName(param.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validate command %s: duplicate param %q: %w", name, param.Name, ErrInvalidDeclaration)
		}
		seen[key] = struct{}{}
	}
	if err := d.Binding.Normalized().Validate(); err != nil {
		return fmt.Errorf("validate command %s: %w", name, err)
	}

	return nil
}

// Signature is one arity-distinguished overload of a command.
type Signature struct {
	// Parameters is the ordered parameter list.
	Parameters []Parameter
	// QuickActionLabel is set when the overload is exposed as a quick action.
	QuickActionLabel string
	// QuickActionArgs are submitted with the quick action.
	QuickActionArgs []string
}

// Arity returns the parameter count.
func (s Signature) Arity() int {
	return len(s.Parameters)
}

// Render formats the parameter list with a leading space per parameter.
func (s Signature) Render() string {
	var builder strings.Builder
	for _, param := range s.Parameters {
		builder.WriteByte(' ')
		builder.WriteString(param.Render())
	}

	return builder.String()
}

// Command is one registered operation with its overloads.
type Command struct {
	// Name is the canonical lower-case identifier; it is always Aliases[0].
	Name string
	// Aliases are every token resolving to this command, in first-seen order.
	Aliases []string
	// Description is the first non-empty description across overloads.
	Description string
	// Signatures are the overloads in declaration order.
	Signatures []Signature
	// Binding is the receiver shared by every overload.
	Binding Binding
}

// RenderSignature renders the name followed by the parameter list of one overload.
func (c Command) RenderSignature(index int) string {
	if index < 0 || index >= len(c.Signatures) {
		return c.Name
	}

	return c.Name + c.Signatures[index].Render()
}

// SignatureForArity returns the overload accepting argCount arguments.
func (c Command) SignatureForArity(argCount int) (int, bool) {
	for index, signature := range c.Signatures {
		if signature.Arity() == argCount {
			return index, true
		}
	}

	return -1, false
}

// HasAlias reports whether the token resolves to this command.
func (c Command) HasAlias(alias string) bool {
	key := NormalizeName(alias)
	for _, candidate := range c.Aliases {
		if NormalizeName(candidate) == key {
			return true
		}
	}

	return false
}

// QuickAction is a pre-filled command line bound to a one-click trigger.
type QuickAction struct {
	// Label is the trigger caption.
	Label string
	// CommandText is submitted through the regular command-line path.
	CommandText string
}

// Diagnostic is a non-fatal problem found while scanning host declarations.
type Diagnostic struct {
	// Source names the module or owner that produced the declaration.
	Source string
	// Err describes the problem.
	Err error
}

// Error formats the diagnostic.
func (d Diagnostic) Error() string {
	if d.Source == "" {
		return d.Err.Error()
	}

	return fmt.Sprintf("%s: %v", d.Source, d.Err)
}

// Unwrap exposes the underlying error.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// NormalizeName folds a command name, alias, or enum value for case-insensitive lookup.
func NormalizeName(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
