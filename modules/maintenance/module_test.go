package maintenance

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ex-console/pkg/console"
	"ex-console/pkg/console/consoletest"
)

func TestModuleCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		command            string
		wantCommandRescans int
		wantFieldRescans   int
		wantClears         int
		wantLines          []string
	}{
		{
			name:               "recache commands",
			command:            "recache-commands",
			wantCommandRescans: 1,
			wantLines:          []string{"stale"},
		},
		{
			name:             "recache variables",
			command:          "recache-variables",
			wantFieldRescans: 1,
			wantLines:        []string{"stale"},
		},
		{
			name:               "recache all",
			command:            "recache-all",
			wantCommandRescans: 1,
			wantFieldRescans:   1,
			wantLines:          []string{"stale"},
		},
		{
			name:       "clear logs confirmation after clearing",
			command:    "clear",
			wantClears: 1,
			wantLines:  []string{"[CONSOLE][LOG]: Console cleared!"},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			module := New()
			recorder := consoletest.NewRecorder(module)
			if err := module.OnRegister(context.Background(), recorder); err != nil {
				t.Fatalf("OnRegister failed: %v", err)
			}
			recorder.Print("stale")

			result, err := consoletest.Invoke(context.Background(), module, recorder, nil, testCase.command)
			if err != nil {
				t.Fatalf("invoke failed: %v", err)
			}
			if result != "" {
				t.Fatalf("result = %q, want empty", result)
			}
			if recorder.CommandRescans != testCase.wantCommandRescans {
				t.Fatalf("command rescans = %d, want %d", recorder.CommandRescans, testCase.wantCommandRescans)
			}
			if recorder.FieldRescans != testCase.wantFieldRescans {
				t.Fatalf("field rescans = %d, want %d", recorder.FieldRescans, testCase.wantFieldRescans)
			}
			if recorder.Clears != testCase.wantClears {
				t.Fatalf("clears = %d, want %d", recorder.Clears, testCase.wantClears)
			}
			if diff := cmp.Diff(testCase.wantLines, recorder.Lines); diff != "" {
				t.Fatalf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModuleQuickActions(t *testing.T) {
	t.Parallel()

	recorder := consoletest.NewRecorder(New())
	want := []console.QuickAction{
		{Label: "Re-Cache Commands", CommandText: "recache-commands"},
		{Label: "Re-Cache Variables", CommandText: "recache-variables"},
		{Label: "Re-Cache All", CommandText: "recache-all"},
		{Label: "Clear Console", CommandText: "clear"},
	}
	if diff := cmp.Diff(want, recorder.Commands().ListQuickActions()); diff != "" {
		t.Fatalf("quick actions mismatch (-want +got):\n%s", diff)
	}
}

func TestModuleRequiresRegistration(t *testing.T) {
	t.Parallel()

	result, err := consoletest.Invoke(context.Background(), New(), consoletest.NewRecorder(), nil, "clear")
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if result != errNotRegistered {
		t.Fatalf("result = %q, want %q", result, errNotRegistered)
	}
}
