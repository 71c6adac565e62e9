package demo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ex-console/pkg/console"
	"ex-console/pkg/console/consoletest"
)

func newRegisteredModule(t *testing.T, options ...Option) (*Module, *consoletest.Recorder) {
	t.Helper()

	module := New(options...)
	recorder := consoletest.NewRecorder(module)
	if err := module.OnRegister(context.Background(), recorder); err != nil {
		t.Fatalf("OnRegister failed: %v", err)
	}

	return module, recorder
}

func playerNames(players []*Player) []string {
	names := make([]string, 0, len(players))
	for _, player := range players {
		names = append(names, player.Name)
	}

	return names
}

func TestModuleOnRegisterTracksEntities(t *testing.T) {
	t.Parallel()

	module, recorder := newRegisteredModule(t, WithPlayers("carol", "dave", "erin"))

	if diff := cmp.Diff([]string{"carol", "dave", "erin"}, playerNames(module.Players())); diff != "" {
		t.Fatalf("players mismatch (-want +got):\n%s", diff)
	}
	if got := len(recorder.Entities().LiveObjects(CapabilityPlayer)); got != 3 {
		t.Fatalf("tracked players = %d, want 3", got)
	}
	weather := recorder.Entities().LiveObjects(CapabilityWeather)
	if len(weather) != 1 || weather[0] != module.Weather() {
		t.Fatalf("tracked weather = %v, want module weather", weather)
	}
	if !strings.Contains(recorder.LogOutput(), "demo world ready") {
		t.Fatalf("log output missing ready record: %s", recorder.LogOutput())
	}
}

func TestModuleOnRegisterRejectsDuplicatePlayers(t *testing.T) {
	t.Parallel()

	module := New(WithPlayers("alice", "ALICE"))
	if err := module.OnRegister(context.Background(), consoletest.NewRecorder()); err == nil {
		t.Fatal("expected duplicate player error")
	}
}

func TestModulePlayerCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prepare    func(*Player)
		command    string
		args       []string
		wantResult string
		wantHealth float64
		wantLine   string
	}{
		{
			name:       "damage reduces health",
			command:    "damage",
			args:       []string{"30"},
			wantHealth: 70,
			wantLine:   "took 30.0 damage, health 70.0",
		},
		{
			name:       "damage clamps at zero",
			command:    "damage",
			args:       []string{"250"},
			wantHealth: 0,
			wantLine:   "took 100.0 damage, health 0.0",
		},
		{
			name:       "negative damage is rejected",
			command:    "damage",
			args:       []string{"-5"},
			wantResult: "damage: amount must not be negative",
			wantHealth: 100,
		},
		{
			name:       "god mode ignores damage",
			prepare:    func(player *Player) { player.GodMode = true },
			command:    "damage",
			args:       []string{"30"},
			wantHealth: 100,
			wantLine:   "took 0.0 damage",
		},
		{
			name:       "heal without amount restores fully",
			prepare:    func(player *Player) { player.Health = 10 },
			command:    "heal",
			wantHealth: 100,
			wantLine:   "healed 90.0, health 100.0",
		},
		{
			name:       "heal with amount",
			prepare:    func(player *Player) { player.Health = 10 },
			command:    "heal",
			args:       []string{"15"},
			wantHealth: 25,
			wantLine:   "healed 15.0, health 25.0",
		},
		{
			name:       "teleport moves player",
			command:    "teleport",
			args:       []string{"1", "2.5", "-3"},
			wantHealth: 100,
			wantLine:   "moved to (1.0, 2.5, -3.0)",
		},
		{
			name:       "god enables immunity",
			command:    "god",
			args:       []string{"true"},
			wantHealth: 100,
			wantLine:   "god mode true",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			module, recorder := newRegisteredModule(t, WithPlayers("alice"))
			player := module.Players()[0]
			if testCase.prepare != nil {
				testCase.prepare(player)
			}

			result, err := consoletest.Invoke(context.Background(), module, recorder, player, testCase.command, testCase.args...)
			if err != nil {
				t.Fatalf("invoke failed: %v", err)
			}
			if result != testCase.wantResult {
				t.Fatalf("result = %q, want %q", result, testCase.wantResult)
			}
			if player.Health != testCase.wantHealth {
				t.Fatalf("health = %v, want %v", player.Health, testCase.wantHealth)
			}
			if testCase.wantLine != "" && !recorder.Contains(testCase.wantLine) {
				t.Fatalf("lines %v missing %q", recorder.Lines, testCase.wantLine)
			}
		})
	}
}

func TestModuleDamageLogsDeath(t *testing.T) {
	t.Parallel()

	module, recorder := newRegisteredModule(t, WithPlayers("alice"))
	if _, err := consoletest.Invoke(context.Background(), module, recorder, module.Players()[0], "damage", "100"); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if !strings.Contains(recorder.LogOutput(), "player died") {
		t.Fatalf("log output missing death record: %s", recorder.LogOutput())
	}
}

func TestModuleSpawnAndDespawn(t *testing.T) {
	t.Parallel()

	module, recorder := newRegisteredModule(t, WithPlayers("alice"))

	result, err := consoletest.Invoke(context.Background(), module, recorder, nil, "spawn", "bob")
	if err != nil {
		t.Fatalf("spawn invoke failed: %v", err)
	}
	if result != "" {
		t.Fatalf("spawn result = %q, want empty", result)
	}
	if diff := cmp.Diff([]string{"alice", "bob"}, playerNames(module.Players())); diff != "" {
		t.Fatalf("players mismatch (-want +got):\n%s", diff)
	}
	if recorder.FieldRescans != 1 {
		t.Fatalf("field rescans = %d, want 1", recorder.FieldRescans)
	}

	result, err = consoletest.Invoke(context.Background(), module, recorder, nil, "spawn", "Bob")
	if err != nil {
		t.Fatalf("duplicate spawn invoke failed: %v", err)
	}
	if !strings.Contains(result, "already exists") {
		t.Fatalf("duplicate spawn result = %q, want already exists", result)
	}

	result, err = consoletest.Invoke(context.Background(), module, recorder, nil, "despawn", "alice")
	if err != nil {
		t.Fatalf("despawn invoke failed: %v", err)
	}
	if result != "" {
		t.Fatalf("despawn result = %q, want empty", result)
	}
	if diff := cmp.Diff([]string{"bob"}, playerNames(module.Players())); diff != "" {
		t.Fatalf("players mismatch after despawn (-want +got):\n%s", diff)
	}
	if got := len(recorder.Entities().LiveObjects(CapabilityPlayer)); got != 1 {
		t.Fatalf("tracked players = %d, want 1", got)
	}

	result, err = consoletest.Invoke(context.Background(), module, recorder, nil, "despawn", "zed")
	if err != nil {
		t.Fatalf("despawn invoke failed: %v", err)
	}
	if !strings.Contains(result, "no such player") {
		t.Fatalf("despawn result = %q, want no such player", result)
	}
}

func TestModuleWeather(t *testing.T) {
	t.Parallel()

	module, recorder := newRegisteredModule(t)
	weather := module.Weather()

	result, err := consoletest.Invoke(context.Background(), module, recorder, weather, "weather", "STORM", "2")
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if result != "" {
		t.Fatalf("result = %q, want empty", result)
	}
	if weather.Mode != "storm" {
		t.Fatalf("mode = %q, want storm", weather.Mode)
	}

	module.Update(context.Background(), time.Second)
	if weather.Mode != "storm" {
		t.Fatalf("mode after 1s = %q, want storm", weather.Mode)
	}
	module.Update(context.Background(), 1500*time.Millisecond)
	if weather.Mode != weatherClear {
		t.Fatalf("mode after 2.5s = %q, want %q", weather.Mode, weatherClear)
	}
	if !strings.Contains(recorder.LogOutput(), "weather reverted") {
		t.Fatalf("log output missing revert record: %s", recorder.LogOutput())
	}

	if _, err := consoletest.Invoke(context.Background(), module, recorder, weather, "weather", "hail"); err == nil {
		t.Fatal("expected coercion error for unknown weather mode")
	}
	result, err = consoletest.Invoke(context.Background(), module, recorder, weather, "weather", "rain", "0")
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if result != "weather: seconds must be positive" {
		t.Fatalf("result = %q, want seconds error", result)
	}
}

func TestModulePlayersListing(t *testing.T) {
	t.Parallel()

	module, recorder := newRegisteredModule(t, WithPlayers())
	if _, err := consoletest.Invoke(context.Background(), module, recorder, nil, "players"); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if diff := cmp.Diff([]string{"[CONSOLE][WARNING]: No players spawned"}, recorder.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}

	if _, err := consoletest.Invoke(context.Background(), module, recorder, nil, "spawn", "alice"); err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	recorder.Lines = nil
	if _, err := consoletest.Invoke(context.Background(), module, recorder, nil, "players"); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if diff := cmp.Diff([]string{"alice health 100.0/100.0 at (0.0, 0.0, 0.0)"}, recorder.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestModuleFailPanics(t *testing.T) {
	t.Parallel()

	module, recorder := newRegisteredModule(t)
	defer func() {
		if recovered := recover(); recovered == nil {
			t.Fatal("expected fail to panic")
		}
	}()
	_, _ = consoletest.Invoke(context.Background(), module, recorder, nil, "fail")
}

func TestExposedFields(t *testing.T) {
	t.Parallel()

	module, _ := newRegisteredModule(t, WithPlayers("alice"))
	player := module.Players()[0]
	player.Health = 42
	module.Update(context.Background(), 3*time.Second)

	tests := []struct {
		name   string
		fields []console.FieldDecl
		want   map[string]string
	}{
		{
			name:   "player",
			fields: player.ExposedFields(),
			want: map[string]string{
				"Health":   "42",
				"Position": "(0.0, 0.0, 0.0)",
				"God Mode": "false",
				"Alive":    "true",
			},
		},
		{
			name:   "world",
			fields: module.ExposedFields(),
			want: map[string]string{
				"Uptime":  "3s",
				"Players": "1",
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := make(map[string]string, len(testCase.fields))
			for _, field := range testCase.fields {
				value, err := field.Read()
				if err != nil {
					t.Fatalf("read %s failed: %v", field.Name, err)
				}
				text, err := console.Stringify(value)
				if err != nil {
					t.Fatalf("stringify %s failed: %v", field.Name, err)
				}
				got[field.Name] = text
			}
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
