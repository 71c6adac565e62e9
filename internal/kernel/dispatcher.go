package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"ex-console/pkg/console"
)

const (
	msgUnknownCommand   = "Unknown command"
	msgInvalidArity     = "Invalid number of parameters"
	msgMultipleCommands = "Multiple commands are defined with: "
)

// Dispatcher resolves raw input against the command registry and invokes it.
//
// All outcomes are reported through out; Execute keeps its parse state on the
// stack so handlers may submit further input re-entrantly.
type Dispatcher struct {
	registry *CommandRegistry
	world    console.World
	out      console.Printer
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(
	registry *CommandRegistry,
	world console.World,
	out console.Printer,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		registry: registry,
		world:    world,
		out:      out,
		logger:   logger,
	}
}

// Execute echoes, parses, resolves, coerces and invokes one input line.
func (d *Dispatcher) Execute(ctx context.Context, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	d.out.Print(console.FormatInput(raw))

	line, matched := console.ParseCommandLine(raw)
	if !matched {
		return
	}

	resolution, err := d.registry.Resolve(line.Name)
	if err != nil {
		d.logger.DebugContext(ctx, "console dispatch", "input", raw, "error", err)
		d.out.Log(console.LevelError, msgUnknownCommand)
		return
	}
	if len(resolution.Shadowed) > 0 {
		d.out.Log(console.LevelError, msgMultipleCommands+line.Name)
	}

	command := resolution.Command
	index, ok := command.SignatureForArity(len(line.Args))
	if !ok {
		d.out.Log(console.LevelError, fmt.Sprintf(
			"%s: %s accepts %s argument(s), got %d",
			msgInvalidArity,
			command.Name,
			acceptedArities(command),
			len(line.Args),
		))
		return
	}

	args, coerceErrs := console.CoerceAll(line.Args, command.Signatures[index].Parameters)
	if len(coerceErrs) > 0 {
		for _, coerceErr := range coerceErrs {
			d.out.Log(console.LevelError, coerceErr.Error())
		}
		return
	}

	binding := resolution.entry.bindings[index]
	targets, err := d.targets(command, binding)
	if err != nil {
		d.out.Log(console.LevelException, err.Error())
		d.logger.ErrorContext(ctx, "console dispatch", "command", command.Name, "error", err)
		return
	}
	for _, target := range targets {
		d.invoke(ctx, command, binding, console.Call{Target: target, Args: args, Out: d.out})
	}
}

// targets resolves the receivers of one invocation.
func (d *Dispatcher) targets(command console.Command, binding signatureBinding) ([]any, error) {
	if command.Binding.Kind == console.TargetPerInstance {
		if d.world == nil {
			return nil, nil
		}
		return d.world.LiveObjects(command.Binding.Capability), nil
	}

	if binding.factory == nil {
		return []any{nil}, nil
	}
	var instance any
	if err := runSafely("command "+command.Name+" factory", func() error {
		instance = binding.factory()
		return nil
	}); err != nil {
		return nil, err
	}

	return []any{instance}, nil
}

// invoke runs one handler against one receiver and reports its result.
func (d *Dispatcher) invoke(
	ctx context.Context,
	command console.Command,
	binding signatureBinding,
	call console.Call,
) {
	var result string
	err := runSafely("command "+command.Name, func() error {
		result = binding.handler(ctx, call)
		return nil
	})
	if err != nil {
		d.out.Log(console.LevelException, err.Error())
		d.logger.ErrorContext(
			ctx,
			"console command panicked",
			"command", command.Name,
			"module", binding.module,
			"member", binding.member,
			"error", err,
		)
		return
	}
	if result != "" {
		d.out.Log(console.LevelError, result)
	}
}

func acceptedArities(command console.Command) string {
	arities := make([]string, 0, len(command.Signatures))
	for _, signature := range command.Signatures {
		arities = append(arities, strconv.Itoa(signature.Arity()))
	}
	if len(arities) <= 1 {
		return strings.Join(arities, "")
	}

	return strings.Join(arities[:len(arities)-1], ", ") + " or " + arities[len(arities)-1]
}
