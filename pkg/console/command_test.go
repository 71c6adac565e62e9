package console

import (
	"context"
	"errors"
	"testing"
)

func noopHandler(context.Context, Call) string {
	return ""
}

func TestCommandDeclValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decl    CommandDecl
		wantErr error
	}{
		{
			name: "member name is enough",
			decl: CommandDecl{Member: "Ping", Handler: noopHandler},
		},
		{
			name: "per-instance with capability",
			decl: CommandDecl{
				Name:    "heal",
				Binding: Binding{Kind: TargetPerInstance, Capability: "player"},
				Params:  []Parameter{{Name: "amount", Type: ParamFloat}},
				Handler: noopHandler,
			},
		},
		{
			name:    "missing name",
			decl:    CommandDecl{Handler: noopHandler},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name:    "name with whitespace",
			decl:    CommandDecl{Name: "two words", Handler: noopHandler},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name:    "nil handler",
			decl:    CommandDecl{Name: "ping"},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name:    "blank alias",
			decl:    CommandDecl{Name: "ping", Aliases: []string{" "}, Handler: noopHandler},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name: "duplicate parameter name",
			decl: CommandDecl{
				Name:    "tp",
				Params:  []Parameter{{Name: "x", Type: ParamFloat}, {Name: "X", Type: ParamFloat}},
				Handler: noopHandler,
			},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name:    "unsupported parameter type",
			decl:    CommandDecl{Name: "tp", Params: []Parameter{{Name: "v", Type: "vector"}}, Handler: noopHandler},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "enum without values",
			decl:    CommandDecl{Name: "weather", Params: []Parameter{{Name: "mode", Type: ParamEnum}}, Handler: noopHandler},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name: "enum values on int",
			decl: CommandDecl{
				Name:    "weather",
				Params:  []Parameter{{Name: "mode", Type: ParamInt, Enum: []string{"a"}}},
				Handler: noopHandler,
			},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name:    "per-instance without capability",
			decl:    CommandDecl{Name: "heal", Binding: Binding{Kind: TargetPerInstance}, Handler: noopHandler},
			wantErr: ErrInvalidDeclaration,
		},
		{
			name:    "stateless with capability",
			decl:    CommandDecl{Name: "heal", Binding: Binding{Capability: "player"}, Handler: noopHandler},
			wantErr: ErrInvalidDeclaration,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.decl.Validate()
			if testCase.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("error = %v, want %v", err, testCase.wantErr)
			}
		})
	}
}

func TestCommandRendering(t *testing.T) {
	t.Parallel()

	command := Command{
		Name:    "weather",
		Aliases: []string{"weather", "wx"},
		Signatures: []Signature{
			{Parameters: []Parameter{{Name: "mode", Type: ParamEnum, Enum: []string{"clear", "rain"}}}},
			{Parameters: []Parameter{
				{Name: "mode", Type: ParamEnum, Enum: []string{"clear", "rain"}},
				{Name: "seconds", Type: ParamFloat},
			}},
		},
	}

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{name: "first overload", index: 0, want: "weather <mode:clear|rain>"},
		{name: "second overload", index: 1, want: "weather <mode:clear|rain> <seconds:float>"},
		{name: "out of range", index: 2, want: "weather"},
	}
	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := command.RenderSignature(testCase.index); got != testCase.want {
				t.Fatalf("signature = %q, want %q", got, testCase.want)
			}
		})
	}

	if index, ok := command.SignatureForArity(2); !ok || index != 1 {
		t.Fatalf("SignatureForArity(2) = %d, %v, want 1, true", index, ok)
	}
	if _, ok := command.SignatureForArity(0); ok {
		t.Fatal("SignatureForArity(0) found an overload, want none")
	}
	if !command.HasAlias("WX") || command.HasAlias("w") {
		t.Fatal("HasAlias should match case-insensitively and exactly")
	}
}

func TestNormalizeNameFoldsUnicode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		left  string
		right string
	}{
		{left: "Straße", right: "STRASSE"},
		{left: " Ping ", right: "ping"},
		{left: "ΣΊΣΥΦΟΣ", right: "σίσυφος"},
	}
	for _, testCase := range tests {
		if NormalizeName(testCase.left) != NormalizeName(testCase.right) {
			t.Fatalf("NormalizeName(%q) != NormalizeName(%q)", testCase.left, testCase.right)
		}
	}
}

func TestTargetAs(t *testing.T) {
	t.Parallel()

	type player struct{ name string }
	target := &player{name: "alice"}

	got, ok := TargetAs[*player](Call{Target: target})
	if !ok || got != target {
		t.Fatalf("TargetAs = %v, %v, want target", got, ok)
	}
	if _, ok := TargetAs[*player](Call{}); ok {
		t.Fatal("TargetAs on nil target succeeded")
	}
}
