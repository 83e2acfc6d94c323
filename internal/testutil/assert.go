// FILE: internal/testutil/assert.go
// Package testutil holds assertion helpers shared by the package tests.
// The f variants prefix failures with a printf-formatted context message.
package testutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Equal compares with cmp.Diff and reports the difference as -want +got
func Equal(t testing.TB, got, want any) {
	t.Helper()
	equal(t, "", got, want)
}

func Equalf(t testing.TB, got, want any, format string, args ...any) {
	t.Helper()
	equal(t, fmt.Sprintf(format, args...)+": ", got, want)
}

func equal(t testing.TB, prefix string, got, want any) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%smismatch (-want +got):\n%s", prefix, diff)
	}
}

func NoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func NoErrorf(t testing.TB, err error, format string, args ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", fmt.Sprintf(format, args...), err)
	}
}

// ErrorIs fails unless errors.Is(err, target)
func ErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
	}
}

func True(t testing.TB, cond bool) {
	t.Helper()
	if !cond {
		t.Error("expected true but got false")
	}
}

func Truef(t testing.TB, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Errorf("%s: expected true but got false", fmt.Sprintf(format, args...))
	}
}

func False(t testing.TB, cond bool) {
	t.Helper()
	if cond {
		t.Error("expected false but got true")
	}
}

func Contains(t testing.TB, got, substr string) {
	t.Helper()
	if !strings.Contains(got, substr) {
		t.Errorf("%q does not contain %q", got, substr)
	}
}
