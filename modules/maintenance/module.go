// Package maintenance provides console housekeeping commands: registry
// rescans and log clearing.
package maintenance

import (
	"context"
	"fmt"

	"ex-console/pkg/console"
)

const clearedMessage = "Console cleared!"

// Module exposes cache rebuild and clear commands with quick actions.
type Module struct {
	runtime console.Runtime
}

// New creates a maintenance module.
func New() *Module {
	return &Module{}
}

// Name returns the stable module identifier.
func (m *Module) Name() string {
	return "maintenance"
}

// Spec declares the housekeeping commands.
func (m *Module) Spec() console.ModuleSpec {
	return console.ModuleSpec{
		Commands: []console.CommandDecl{
			{
				Member:      "ReCacheCommands",
				Name:        "recache-commands",
				Description: "Re-cache and regenerate all commands and quick actions for the console.",
				QuickAction: "Re-Cache Commands",
				Handler:     m.handleRecacheCommands,
			},
			{
				Member:      "ReCacheVariables",
				Name:        "recache-variables",
				Description: "Re-cache all exposed variables for the console.",
				QuickAction: "Re-Cache Variables",
				Handler:     m.handleRecacheVariables,
			},
			{
				Member: "ReCacheAll",
				Name:   "recache-all",
				Description: "Re-cache all exposed variables for the console and re-cache and " +
					"regenerate all commands and quick actions for the console.",
				QuickAction: "Re-Cache All",
				Handler:     m.handleRecacheAll,
			},
			{
				Member:      "ClearConsole",
				Name:        "clear",
				Aliases:     []string{"cls"},
				Description: "Clear the console.",
				QuickAction: "Clear Console",
				Handler:     m.handleClear,
			},
		},
	}
}

// OnRegister captures the runtime the commands operate on.
func (m *Module) OnRegister(_ context.Context, runtime console.Runtime) error {
	if runtime == nil {
		return fmt.Errorf("maintenance register: nil runtime")
	}
	m.runtime = runtime

	return nil
}

func (m *Module) handleRecacheCommands(ctx context.Context, _ console.Call) string {
	if m.runtime == nil {
		return errNotRegistered
	}
	m.runtime.RescanCommands(ctx)

	return ""
}

func (m *Module) handleRecacheVariables(ctx context.Context, _ console.Call) string {
	if m.runtime == nil {
		return errNotRegistered
	}
	m.runtime.RescanFields(ctx)

	return ""
}

func (m *Module) handleRecacheAll(ctx context.Context, _ console.Call) string {
	if m.runtime == nil {
		return errNotRegistered
	}
	m.runtime.RescanCommands(ctx)
	m.runtime.RescanFields(ctx)

	return ""
}

func (m *Module) handleClear(_ context.Context, _ console.Call) string {
	if m.runtime == nil {
		return errNotRegistered
	}
	m.runtime.Clear()
	m.runtime.Log(console.LevelLog, clearedMessage)

	return ""
}

const errNotRegistered = "maintenance: module not registered"

var (
	_ console.Module          = (*Module)(nil)
	_ console.ModuleRegistrar = (*Module)(nil)
)
