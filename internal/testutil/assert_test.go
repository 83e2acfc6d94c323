package testutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recorder captures failures instead of failing the running test
type recorder struct {
	testing.TB
	msgs  []string
	fatal bool
}

func (r *recorder) Helper() {}
func (r *recorder) Error(args ...any) {
	r.msgs = append(r.msgs, fmt.Sprint(args...))
}
func (r *recorder) Errorf(format string, args ...any) {
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}
func (r *recorder) Fatalf(format string, args ...any) {
	r.fatal = true
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

func TestPassingAssertionsStayQuiet(t *testing.T) {
	r := &recorder{TB: t}
	Equal(r, []int{1, 2}, []int{1, 2})
	Equalf(r, "a", "a", "case %d", 1)
	NoError(r, nil)
	NoErrorf(r, nil, "step %s", "x")
	True(r, true)
	Truef(r, true, "flag %v", true)
	False(r, false)
	Contains(r, "checkmate", "mate")
	ErrorIs(r, fmt.Errorf("wrap: %w", errSentinel), errSentinel)
	if len(r.msgs) != 0 || r.fatal {
		t.Fatalf("unexpected failures: %q", r.msgs)
	}
}

var errSentinel = errors.New("sentinel")

func TestFormattedVariantsPrefixMessage(t *testing.T) {
	tests := []struct {
		name   string
		run    func(r *recorder)
		prefix string
		fatal  bool
	}{
		{"Equalf", func(r *recorder) { Equalf(r, 1, 2, "move %s", "e2e4") }, "move e2e4: mismatch", false},
		{"Truef", func(r *recorder) { Truef(r, false, "create failed: %+v", struct{ Code string }{"X"}) }, "create failed: {Code:X}: expected true", false},
		{"NoErrorf", func(r *recorder) { NoErrorf(r, errSentinel, "body: %s", []byte("{}")) }, "body: {}: unexpected error: sentinel", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{TB: t}
			tt.run(r)
			if len(r.msgs) != 1 {
				t.Fatalf("want one failure, got %q", r.msgs)
			}
			if !strings.HasPrefix(r.msgs[0], tt.prefix) {
				t.Errorf("message %q does not start with %q", r.msgs[0], tt.prefix)
			}
			if r.fatal != tt.fatal {
				t.Errorf("fatal = %v, want %v", r.fatal, tt.fatal)
			}
		})
	}
}

func TestFailingAssertions(t *testing.T) {
	r := &recorder{TB: t}
	Equal(r, "got", "want")
	False(r, true)
	Contains(r, "stalemate", "check")
	ErrorIs(r, nil, errSentinel)
	if len(r.msgs) != 4 {
		t.Fatalf("want 4 failures, got %q", r.msgs)
	}
	if !strings.Contains(r.msgs[0], "-want +got") {
		t.Errorf("diff header missing: %q", r.msgs[0])
	}
}
