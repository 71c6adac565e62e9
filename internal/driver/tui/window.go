package tui

import (
	"context"
	"fmt"

	"ex-console/pkg/console"
)

const (
	windowCapability = "debug-window"
	windowLabel      = "Debug Window"
	windowModuleName = "tui-window"
)

// windowState is the operator-visible state of the console window.
//
// It is tracked as a live entity so per-instance commands and the field
// tracker see it like any other host object.
type windowState struct {
	Showing  bool
	TabIndex int
}

func (w *windowState) ExposedFields() []console.FieldDecl {
	return []console.FieldDecl{
		console.ExposeField(w, windowLabel, "Debug Window Showing", &w.Showing),
		console.ExposeField(w, windowLabel, "tabIndex", &w.TabIndex),
	}
}

// windowModule declares the commands that drive the console window itself.
type windowModule struct{}

func (windowModule) Name() string {
	return windowModuleName
}

func (windowModule) Spec() console.ModuleSpec {
	binding := console.Binding{Kind: console.TargetPerInstance, Capability: windowCapability}

	return console.ModuleSpec{Commands: []console.CommandDecl{
		{
			Member:      "ToggleWindow",
			Name:        "toggle-console",
			Description: "Shows or hides the console window",
			Binding:     binding,
			Handler:     toggleWindow,
		},
		{
			Member:      "SelectTab",
			Name:        "tab",
			Aliases:     []string{"show-tab"},
			Description: "Switches the console window tab",
			Params:      []console.Parameter{{Name: "index", Type: console.ParamInt}},
			Binding:     binding,
			Handler:     selectTab,
		},
	}}
}

func toggleWindow(_ context.Context, call console.Call) string {
	window, ok := console.TargetAs[*windowState](call)
	if !ok {
		return fmt.Sprintf("unexpected target %T", call.Target)
	}
	window.Showing = !window.Showing

	return ""
}

func selectTab(_ context.Context, call console.Call) string {
	window, ok := console.TargetAs[*windowState](call)
	if !ok {
		return fmt.Sprintf("unexpected target %T", call.Target)
	}
	index := call.Args.Int(0)
	if index < 0 || index >= len(tabTitles) {
		return fmt.Sprintf("Tab index must be between 0 and %d", len(tabTitles)-1)
	}
	window.TabIndex = index

	return ""
}
