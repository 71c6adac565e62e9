package kernel

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ex-console/pkg/console"
)

// TestLogBufferEvictsOldestLines verifies FIFO eviction and monotonic sequences.
func TestLogBufferEvictsOldestLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		maxLines int
		appends  int
		want     []console.LogLine
	}{
		{
			name:     "under capacity keeps everything",
			maxLines: 3,
			appends:  2,
			want: []console.LogLine{
				{Text: "line 1", Sequence: 1},
				{Text: "line 2", Sequence: 2},
			},
		},
		{
			name:     "over capacity keeps newest",
			maxLines: 3,
			appends:  5,
			want: []console.LogLine{
				{Text: "line 3", Sequence: 3},
				{Text: "line 4", Sequence: 4},
				{Text: "line 5", Sequence: 5},
			},
		},
		{
			name:     "single line capacity",
			maxLines: 1,
			appends:  4,
			want: []console.LogLine{
				{Text: "line 4", Sequence: 4},
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			buffer := NewLogBuffer(testCase.maxLines)
			for index := 1; index <= testCase.appends; index++ {
				buffer.Append(fmt.Sprintf("line %d", index))
			}

			if diff := cmp.Diff(testCase.want, buffer.Snapshot()); diff != "" {
				t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
			}
			if buffer.Len() > buffer.MaxLines() {
				t.Fatalf("len = %d exceeds max lines %d", buffer.Len(), buffer.MaxLines())
			}
		})
	}
}

// TestLogBufferDefaultCapacity verifies the fallback for non-positive capacities.
func TestLogBufferDefaultCapacity(t *testing.T) {
	t.Parallel()

	for _, maxLines := range []int{0, -5} {
		if got := NewLogBuffer(maxLines).MaxLines(); got != defaultMaxLines {
			t.Fatalf("NewLogBuffer(%d).MaxLines() = %d, want %d", maxLines, got, defaultMaxLines)
		}
	}
}

// TestLogBufferClearKeepsSequence verifies that clearing does not reset sequence numbers.
func TestLogBufferClearKeepsSequence(t *testing.T) {
	t.Parallel()

	buffer := NewLogBuffer(4)
	buffer.Append("a")
	buffer.Append("b")
	buffer.Clear()

	if buffer.Len() != 0 {
		t.Fatalf("len after clear = %d, want 0", buffer.Len())
	}
	if got := buffer.Snapshot(); len(got) != 0 {
		t.Fatalf("snapshot after clear = %v, want empty", got)
	}

	line := buffer.Append("c")
	if line.Sequence != 3 {
		t.Fatalf("sequence after clear = %d, want 3", line.Sequence)
	}
	if buffer.LastSequence() != 3 {
		t.Fatalf("last sequence = %d, want 3", buffer.LastSequence())
	}
}
