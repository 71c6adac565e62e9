package driver

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ex-console/internal/driver/frontend"
	"ex-console/internal/driver/line"
	"ex-console/internal/driver/tui"
	"ex-console/internal/kernel"
)

func TestNewBuiltinRegistryIncludesFrontends(t *testing.T) {
	t.Parallel()

	registry, err := NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("new builtin registry failed: %v", err)
	}

	want := []string{line.FrontendType, tui.FrontendType}
	if diff := cmp.Diff(want, registry.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryBuildLineFrontend(t *testing.T) {
	t.Parallel()

	registry, err := NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("new builtin registry failed: %v", err)
	}

	built, err := registry.Build(context.Background(), line.FrontendType, kernel.New(), frontend.Settings{
		Input:  strings.NewReader(""),
		Output: &bytes.Buffer{},
	}, nil)
	if err != nil {
		t.Fatalf("build line frontend failed: %v", err)
	}
	if built.Name() != line.FrontendType {
		t.Fatalf("frontend name = %q, want %q", built.Name(), line.FrontendType)
	}
}
