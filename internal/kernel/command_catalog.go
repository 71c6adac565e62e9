package kernel

import (
	"ex-console/pkg/console"
)

// commandCatalog exposes the command registry to modules read-only.
type commandCatalog struct {
	registry *CommandRegistry
}

// ListCommands returns every command in registration order.
func (c *commandCatalog) ListCommands() []console.Command {
	if c == nil || c.registry == nil {
		return nil
	}

	return c.registry.ListAll()
}

// FindCommand resolves one alias case-insensitively.
func (c *commandCatalog) FindCommand(alias string) (console.Command, bool) {
	if c == nil || c.registry == nil {
		return console.Command{}, false
	}
	resolution, err := c.registry.Resolve(alias)
	if err != nil {
		return console.Command{}, false
	}

	return resolution.Command, true
}

// ListQuickActions returns the quick actions generated by the last rescan.
func (c *commandCatalog) ListQuickActions() []console.QuickAction {
	if c == nil || c.registry == nil {
		return nil
	}

	return c.registry.ListQuickActions()
}

var _ console.CommandCatalog = (*commandCatalog)(nil)
