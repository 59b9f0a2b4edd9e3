package utils

import (
	"fmt"
	"strings"
)

// LogPreview flattens s onto one line and keeps at most limit runes of it.
// A cut preview ends with the number of runes left out.
func LogPreview(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	runes := []rune(strings.Join(strings.Fields(s), " "))
	if len(runes) <= limit {
		return string(runes)
	}

	return fmt.Sprintf("%s... (+%d chars)", strings.TrimRight(string(runes[:limit]), " "), len(runes)-limit)
}
