// FILE: internal/client/display/format.go
package display

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PrettyPrintJSON prints formatted JSON
func PrettyPrintJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Println(string(data))
}

// FormatHistory numbers moves in pairs: "1.e2e4 e7e5 2.g1f3"
func FormatHistory(moves []string) string {
	parts := make([]string, 0, len(moves))
	for i, mv := range moves {
		if i%2 == 0 {
			parts = append(parts, fmt.Sprintf("%d.%s", i/2+1, mv))
		} else {
			parts = append(parts, mv)
		}
	}
	return strings.Join(parts, " ")
}
