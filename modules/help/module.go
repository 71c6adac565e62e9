package help

import (
	"context"
	"fmt"
	"strings"

	"ex-console/pkg/console"
)

const (
	commandsCommandName = "commands"
	helpCommandName     = "help"
	separator           = "----------------------"
)

var welcomeLines = []string{
	separator,
	"Welcome to the console!",
	"This console can be used to debug the host by running commands and viewing its output logs.",
	"In order to see specific details about a command, please use the 'help {command}' command.",
	"To see a full list of all the currently cached commands, use 'commands'.",
	separator,
}

// Module renders command reference text into the console.
type Module struct {
	commandCatalog console.CommandCatalog
}

// New creates a help module with default configuration.
func New() *Module {
	return &Module{}
}

// Name returns the stable module identifier.
func (m *Module) Name() string {
	return "help"
}

// Spec declares the command list and help commands.
func (m *Module) Spec() console.ModuleSpec {
	return console.ModuleSpec{
		Commands: []console.CommandDecl{
			{
				Member:      "PrintCommandList",
				Name:        commandsCommandName,
				Description: "Show a list of all possible commands.",
				Handler:     m.handleCommands,
			},
			{
				Member:  "Help",
				Name:    helpCommandName,
				Handler: m.handleWelcome,
			},
			{
				Member:      "Help",
				Name:        helpCommandName,
				Description: "Learn more about a specific command.",
				Params:      []console.Parameter{{Name: "command", Type: console.ParamString}},
				Handler:     m.handleCommandHelp,
			},
		},
	}
}

// OnRegister captures the command catalog.
func (m *Module) OnRegister(_ context.Context, runtime console.Runtime) error {
	if runtime == nil {
		return fmt.Errorf("help register: nil runtime")
	}
	m.commandCatalog = runtime.Commands()

	return nil
}

func (m *Module) handleCommands(_ context.Context, call console.Call) string {
	if m.commandCatalog == nil {
		return "help: command catalog not configured"
	}
	for _, line := range renderCommandList(m.commandCatalog.ListCommands()) {
		call.Out.Print(line)
	}

	return ""
}

func (m *Module) handleWelcome(_ context.Context, call console.Call) string {
	for _, line := range welcomeLines {
		call.Out.Print(line)
	}

	return ""
}

func (m *Module) handleCommandHelp(_ context.Context, call console.Call) string {
	if m.commandCatalog == nil {
		return "help: command catalog not configured"
	}
	alias := call.Args.String(0)
	command, found := m.commandCatalog.FindCommand(alias)
	if !found {
		return fmt.Sprintf("No command found for: %s", alias)
	}
	for _, line := range renderCommandHelp(alias, command) {
		call.Out.Print(line)
	}

	return ""
}

func renderCommandList(commands []console.Command) []string {
	lines := make([]string, 0, len(commands)*2+3)
	lines = append(lines,
		"------ Commands ------",
		`{COMMAND FORMAT} - {COMMAND DESCRIPTION}  - Use "help {command}" for more info.`,
	)
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf(
			"%s - %s",
			console.Colored(`"`+command.RenderSignature(0)+`"`, console.ColorInput),
			command.Description,
		))
		if len(command.Aliases) > 1 {
			lines = append(lines, "  - Aliases: "+renderAliases(command.Aliases))
		}
	}
	lines = append(lines, separator)

	return lines
}

func renderCommandHelp(alias string, command console.Command) []string {
	lines := []string{
		separator,
		"Generated command help for " + console.Colored(alias, console.ColorHighlight),
		"Available command signatures:",
	}
	for index := range command.Signatures {
		lines = append(lines, "  - "+console.Colored(alias+command.Signatures[index].Render(), console.ColorInput))
	}

	params := uniqueParameters(command.Signatures)
	if len(params) > 0 {
		lines = append(lines, "Parameter info:")
		for _, param := range params {
			lines = append(lines, fmt.Sprintf(
				"  - %s: %s",
				console.Colored(param.Name, console.ColorInput),
				console.Colored(param.TypeName(), console.ColorHighlight),
			))
		}
	}
	if len(command.Aliases) > 1 {
		lines = append(lines, "Available command aliases:", "  - "+renderAliases(command.Aliases))
	}

	description := strings.TrimSpace(command.Description)
	if description == "" {
		description = "(no description)"
	}
	lines = append(lines, " ", "Command description:", description, separator)

	return lines
}

// uniqueParameters lists parameters across overloads, first occurrence of each name wins.
func uniqueParameters(signatures []console.Signature) []console.Parameter {
	seen := make(map[string]struct{})
	params := make([]console.Parameter, 0)
	for _, signature := range signatures {
		for _, param := range signature.Parameters {
			if _, exists := seen[param.Name]; exists {
				continue
			}
			seen[param.Name] = struct{}{}
			params = append(params, param)
		}
	}

	return params
}

func renderAliases(aliases []string) string {
	colored := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		colored = append(colored, console.Colored(alias, console.ColorInput))
	}

	return strings.Join(colored, ", ")
}

var (
	_ console.Module          = (*Module)(nil)
	_ console.ModuleRegistrar = (*Module)(nil)
)
