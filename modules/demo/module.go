// Package demo provides a small sandbox world whose entities are driven from
// the console: per-instance player and weather commands, a stateless spawner
// and exposed fields.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ex-console/pkg/console"
)

// Option mutates demo module configuration.
type Option func(*Module)

// WithLogger injects a logger directly, bypassing the console runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(module *Module) {
		if logger != nil {
			module.logger = logger
		}
	}
}

// WithPlayers sets the players spawned at registration.
func WithPlayers(names ...string) Option {
	return func(module *Module) {
		module.initialPlayers = append([]string(nil), names...)
	}
}

// Module owns the sandbox world.
type Module struct {
	logger         *slog.Logger
	runtime        console.Runtime
	initialPlayers []string

	players []*Player
	weather *Weather
	uptime  time.Duration
}

// New creates the demo module.
func New(options ...Option) *Module {
	module := &Module{
		initialPlayers: []string{"alice", "bob"},
		weather:        &Weather{Mode: weatherClear},
	}
	for _, option := range options {
		option(module)
	}

	return module
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "demo"
}

// Spec declares the sandbox commands in one place.
func (m *Module) Spec() console.ModuleSpec {
	playerBinding := console.Binding{Kind: console.TargetPerInstance, Capability: CapabilityPlayer}
	weatherBinding := console.Binding{Kind: console.TargetPerInstance, Capability: CapabilityWeather}
	modeParam := console.Parameter{Name: "mode", Type: console.ParamEnum, Enum: weatherModes}

	return console.ModuleSpec{
		Commands: []console.CommandDecl{
			{
				Member:      "Damage",
				Name:        "damage",
				Aliases:     []string{"hurt"},
				Description: "Damage every player.",
				Params:      []console.Parameter{{Name: "amount", Type: console.ParamFloat}},
				Binding:     playerBinding,
				Handler:     m.handleDamage,
			},
			{
				Member:      "Heal",
				Name:        "heal",
				Description: "Heal every player, fully when no amount is given.",
				QuickAction: "Heal Everyone",
				Binding:     playerBinding,
				Handler:     m.handleHeal,
			},
			{
				Member:  "Heal",
				Name:    "heal",
				Params:  []console.Parameter{{Name: "amount", Type: console.ParamFloat}},
				Binding: playerBinding,
				Handler: m.handleHeal,
			},
			{
				Member:      "Teleport",
				Name:        "teleport",
				Aliases:     []string{"tp"},
				Description: "Move every player to a position.",
				Params: []console.Parameter{
					{Name: "x", Type: console.ParamFloat},
					{Name: "y", Type: console.ParamFloat},
					{Name: "z", Type: console.ParamFloat},
				},
				Binding: playerBinding,
				Handler: m.handleTeleport,
			},
			{
				Member:      "SetGodMode",
				Name:        "god",
				Aliases:     []string{"godmode"},
				Description: "Toggle damage immunity for every player.",
				Params:      []console.Parameter{{Name: "enabled", Type: console.ParamBool}},
				Binding:     playerBinding,
				Handler:     m.handleGodMode,
			},
			{
				Member:          "SetWeather",
				Name:            "weather",
				Description:     "Change the weather, optionally for a number of seconds.",
				QuickAction:     "Clear Skies",
				QuickActionArgs: []string{weatherClear},
				Params:          []console.Parameter{modeParam},
				Binding:         weatherBinding,
				Handler:         m.handleWeather,
			},
			{
				Member:  "SetWeather",
				Name:    "weather",
				Params:  []console.Parameter{modeParam, {Name: "seconds", Type: console.ParamFloat}},
				Binding: weatherBinding,
				Handler: m.handleWeather,
			},
			{
				Member:      "Spawn",
				Name:        "spawn",
				Description: "Spawn a new player.",
				Params:      []console.Parameter{{Name: "name", Type: console.ParamString}},
				Factory:     func() any { return &spawner{module: m} },
				Handler:     handleSpawn,
			},
			{
				Member:      "Despawn",
				Name:        "despawn",
				Description: "Remove a player.",
				Params:      []console.Parameter{{Name: "name", Type: console.ParamString}},
				Handler:     m.handleDespawn,
			},
			{
				Member:      "ListPlayers",
				Name:        "players",
				Description: "List every player with health and position.",
				QuickAction: "List Players",
				Handler:     m.handlePlayers,
			},
			{
				Member:      "Fail",
				Name:        "fail",
				Description: "Raise a panic inside a command handler.",
				Handler:     m.handleFail,
			},
		},
	}
}

// OnRegister spawns the initial world and tracks its entities.
func (m *Module) OnRegister(ctx context.Context, runtime console.Runtime) error {
	if runtime == nil {
		return fmt.Errorf("demo register: nil runtime")
	}
	m.runtime = runtime
	if m.logger == nil {
		m.logger = runtime.Logger()
	}

	if err := runtime.Entities().Track(CapabilityWeather, m.weather); err != nil {
		return fmt.Errorf("demo register track weather: %w", err)
	}
	for _, name := range m.initialPlayers {
		if _, err := m.spawn(name); err != nil {
			return fmt.Errorf("demo register spawn %s: %w", name, err)
		}
	}
	m.logger.InfoContext(ctx, "demo world ready", "players", len(m.players))

	return nil
}

// Update advances the weather countdown.
func (m *Module) Update(ctx context.Context, elapsed time.Duration) {
	m.uptime += elapsed
	if m.weather.advance(elapsed.Seconds()) {
		m.logger.InfoContext(ctx, "weather reverted", "mode", m.weather.Mode)
	}
}

// ExposedFields exposes world-level state.
func (m *Module) ExposedFields() []console.FieldDecl {
	return []console.FieldDecl{
		console.ExposeFunc(m, "Demo World", "Uptime", func() string {
			return m.uptime.Truncate(time.Second).String()
		}),
		console.ExposeFunc(m, "Demo World", "Players", func() int {
			return len(m.players)
		}),
	}
}

// Players returns the live players in spawn order.
func (m *Module) Players() []*Player {
	return append([]*Player(nil), m.players...)
}

// Weather returns the weather controller.
func (m *Module) Weather() *Weather {
	return m.weather
}

func (m *Module) spawn(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("spawn: empty player name")
	}
	if m.findPlayer(name) != nil {
		return nil, fmt.Errorf("spawn %s: player already exists", name)
	}
	player := newPlayer(name)
	if err := m.runtime.Entities().Track(CapabilityPlayer, player); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}
	m.players = append(m.players, player)

	return player, nil
}

func (m *Module) despawn(name string) error {
	for index, player := range m.players {
		if !strings.EqualFold(player.Name, name) {
			continue
		}
		if err := m.runtime.Entities().Untrack(CapabilityPlayer, player); err != nil {
			return fmt.Errorf("despawn %s: %w", name, err)
		}
		m.players = append(m.players[:index:index], m.players[index+1:]...)
		return nil
	}

	return fmt.Errorf("despawn %s: no such player", name)
}

func (m *Module) findPlayer(name string) *Player {
	for _, player := range m.players {
		if strings.EqualFold(player.Name, name) {
			return player
		}
	}

	return nil
}

var (
	_ console.Module          = (*Module)(nil)
	_ console.ModuleRegistrar = (*Module)(nil)
	_ console.Updater         = (*Module)(nil)
	_ console.FieldSource     = (*Module)(nil)
)
