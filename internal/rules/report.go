// FILE: internal/rules/report.go
package rules

// Reporter receives human-readable diagnostics. The engine keeps returning
// failure results after reporting; it never aborts.
type Reporter interface {
	Report(msg string)
}

// ReporterFunc adapts a plain function to Reporter
type ReporterFunc func(msg string)

func (f ReporterFunc) Report(msg string) {
	f(msg)
}

type discard struct{}

func (discard) Report(string) {}

// Describe names a piece for messages, e.g. "white knight"
func Describe(p Piece) string {
	if p.IsEmpty() {
		return "empty square"
	}
	return p.Color().String() + " " + p.Kind().String()
}
