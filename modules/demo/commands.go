package demo

import (
	"context"
	"fmt"

	"ex-console/pkg/console"
)

// spawner is the throwaway receiver built for each spawn invocation.
type spawner struct {
	module *Module
}

func handleSpawn(ctx context.Context, call console.Call) string {
	target, ok := console.TargetAs[*spawner](call)
	if !ok || target.module == nil {
		return "spawn: missing spawner"
	}
	player, err := target.module.spawn(call.Args.String(0))
	if err != nil {
		return err.Error()
	}
	target.module.runtime.RescanFields(ctx)
	call.Out.Print(console.ObjectPrefix(player, player.Name) + "spawned at " + player.Position.String())

	return ""
}

func (m *Module) handleDespawn(ctx context.Context, call console.Call) string {
	name := call.Args.String(0)
	if err := m.despawn(name); err != nil {
		return err.Error()
	}
	m.runtime.RescanFields(ctx)
	call.Out.Log(console.LevelLog, fmt.Sprintf("Player %s removed", name))

	return ""
}

func (m *Module) handleDamage(ctx context.Context, call console.Call) string {
	player, ok := console.TargetAs[*Player](call)
	if !ok {
		return fmt.Sprintf("damage: unexpected target %T", call.Target)
	}
	amount := call.Args.Float(0)
	if amount < 0 {
		return "damage: amount must not be negative"
	}
	applied := player.Damage(amount)
	call.Out.Print(console.ObjectPrefix(player, player.Name) + fmt.Sprintf("took %.1f damage, health %.1f", applied, player.Health))
	if !player.Alive() {
		m.logger.WarnContext(ctx, "player died", "player", player.Name)
	}

	return ""
}

func (m *Module) handleHeal(_ context.Context, call console.Call) string {
	player, ok := console.TargetAs[*Player](call)
	if !ok {
		return fmt.Sprintf("heal: unexpected target %T", call.Target)
	}
	amount := player.MaxHealth
	if call.Args.Len() == 1 {
		amount = call.Args.Float(0)
	}
	applied := player.Heal(amount)
	call.Out.Print(console.ObjectPrefix(player, player.Name) + fmt.Sprintf("healed %.1f, health %.1f", applied, player.Health))

	return ""
}

func (m *Module) handleTeleport(_ context.Context, call console.Call) string {
	player, ok := console.TargetAs[*Player](call)
	if !ok {
		return fmt.Sprintf("teleport: unexpected target %T", call.Target)
	}
	player.Position = Vector{X: call.Args.Float(0), Y: call.Args.Float(1), Z: call.Args.Float(2)}
	call.Out.Print(console.ObjectPrefix(player, player.Name) + "moved to " + player.Position.String())

	return ""
}

func (m *Module) handleGodMode(_ context.Context, call console.Call) string {
	player, ok := console.TargetAs[*Player](call)
	if !ok {
		return fmt.Sprintf("god: unexpected target %T", call.Target)
	}
	player.GodMode = call.Args.Bool(0)
	call.Out.Print(console.ObjectPrefix(player, player.Name) + fmt.Sprintf("god mode %t", player.GodMode))

	return ""
}

func (m *Module) handleWeather(ctx context.Context, call console.Call) string {
	weather, ok := console.TargetAs[*Weather](call)
	if !ok {
		return fmt.Sprintf("weather: unexpected target %T", call.Target)
	}
	seconds := 0.0
	if call.Args.Len() == 2 {
		seconds = call.Args.Float(1)
		if seconds <= 0 {
			return "weather: seconds must be positive"
		}
	}
	weather.Set(call.Args.String(0), seconds)
	m.logger.InfoContext(ctx, "weather changed", "mode", weather.Mode, "seconds", seconds)

	return ""
}

func (m *Module) handlePlayers(_ context.Context, call console.Call) string {
	if len(m.players) == 0 {
		call.Out.Log(console.LevelWarning, "No players spawned")
		return ""
	}
	for _, player := range m.players {
		call.Out.Print(fmt.Sprintf(
			"%s health %s at %s",
			console.Colored(player.Name, console.ColorHighlight),
			console.Colored(fmt.Sprintf("%.1f/%.1f", player.Health, player.MaxHealth), console.ColorValue),
			player.Position,
		))
	}

	return ""
}

func (m *Module) handleFail(_ context.Context, _ console.Call) string {
	panic(fmt.Sprintf("demo failure requested with %d players", len(m.players)))
}
