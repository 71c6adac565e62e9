package demo

import (
	"fmt"
	"math"

	"ex-console/pkg/console"
)

const (
	// CapabilityPlayer groups live players for per-instance commands.
	CapabilityPlayer = "demo-player"
	// CapabilityWeather groups the weather controller.
	CapabilityWeather = "demo-weather"

	defaultMaxHealth = 100.0
	weatherClear     = "clear"
)

// weatherModes are the accepted weather enum members.
var weatherModes = []string{weatherClear, "rain", "snow", "storm"}

// Vector is a position in the sandbox world.
type Vector struct {
	X, Y, Z float64
}

// String renders the vector with one decimal.
func (v Vector) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}

// Player is one live sandbox entity.
type Player struct {
	Name      string
	Health    float64
	MaxHealth float64
	Position  Vector
	GodMode   bool
}

func newPlayer(name string) *Player {
	return &Player{
		Name:      name,
		Health:    defaultMaxHealth,
		MaxHealth: defaultMaxHealth,
	}
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool {
	return p.Health > 0
}

// Damage removes health unless god mode is on and returns the applied amount.
func (p *Player) Damage(amount float64) float64 {
	if p.GodMode || amount <= 0 {
		return 0
	}
	applied := math.Min(amount, p.Health)
	p.Health -= applied

	return applied
}

// Heal restores health up to MaxHealth and returns the applied amount.
func (p *Player) Heal(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	applied := math.Min(amount, p.MaxHealth-p.Health)
	p.Health += applied

	return applied
}

// ExposedFields exposes the player's vitals.
func (p *Player) ExposedFields() []console.FieldDecl {
	label := "Player " + p.Name
	return []console.FieldDecl{
		console.ExposeField(p, label, "Health", &p.Health),
		console.ExposeField(p, label, "Position", &p.Position),
		console.ExposeField(p, label, "God Mode", &p.GodMode),
		console.ExposeFunc(p, label, "Alive", p.Alive),
	}
}

// Weather is the sandbox weather controller.
type Weather struct {
	Mode      string
	Remaining float64
}

// Set switches the mode. A positive duration reverts to clear skies once it runs out.
func (w *Weather) Set(mode string, seconds float64) {
	w.Mode = mode
	w.Remaining = math.Max(seconds, 0)
}

// advance counts down a timed mode and reports whether it reverted.
func (w *Weather) advance(seconds float64) bool {
	if w.Remaining <= 0 {
		return false
	}
	w.Remaining -= seconds
	if w.Remaining > 0 {
		return false
	}
	w.Remaining = 0
	w.Mode = weatherClear

	return true
}

// ExposedFields exposes the current mode and countdown.
func (w *Weather) ExposedFields() []console.FieldDecl {
	return []console.FieldDecl{
		console.ExposeField(w, "Weather", "Mode", &w.Mode),
		console.ExposeField(w, "Weather", "Remaining Seconds", &w.Remaining),
	}
}

var (
	_ console.FieldSource = (*Player)(nil)
	_ console.FieldSource = (*Weather)(nil)
)
