package catalog

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo can be from a catalog name before
// we stop offering it.
const maxSuggestDistance = 3

// suggestion renders a "did you mean" hint for an unknown name, or "" when
// nothing in candidates is close enough.
func suggestion(candidates []string, input string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	needle := strings.ToUpper(strings.TrimSpace(input))
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToUpper(c))
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
