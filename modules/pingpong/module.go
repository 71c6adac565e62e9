package pingpong

import (
	"context"

	"ex-console/pkg/console"
)

const (
	pingCommandName = "ping"
	echoCommandName = "echo"
)

// Module replies with "pong!" to ping and repeats echo arguments.
type Module struct{}

// New creates a ping-pong module with default configuration.
func New() *Module {
	return &Module{}
}

// Name returns the stable module identifier.
func (m *Module) Name() string {
	return "pingpong"
}

// Spec declares the smoke-test commands.
func (m *Module) Spec() console.ModuleSpec {
	return console.ModuleSpec{
		Commands: []console.CommandDecl{
			{
				Member:      "Ping",
				Name:        pingCommandName,
				Description: "Reply with pong!",
				QuickAction: "Ping",
				Handler:     m.handlePing,
			},
			{
				Member:      "Echo",
				Name:        echoCommandName,
				Aliases:     []string{"say"},
				Description: "Print the message back. Quote messages containing spaces.",
				Params:      []console.Parameter{{Name: "message", Type: console.ParamString}},
				Handler:     m.handleEcho,
			},
		},
	}
}

func (m *Module) handlePing(_ context.Context, call console.Call) string {
	call.Out.Log(console.LevelLog, "pong!")

	return ""
}

func (m *Module) handleEcho(_ context.Context, call console.Call) string {
	message := call.Args.String(0)
	if message == "" {
		return "echo: empty message"
	}
	call.Out.Print(message)

	return ""
}

var _ console.Module = (*Module)(nil)
