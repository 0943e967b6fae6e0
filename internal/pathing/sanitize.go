package pathing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jmonterocr/archivador/internal/common"
)

// Characters the network volume (SMB, Windows semantics) rejects in names.
var invalidNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

var repeatedSpaces = regexp.MustCompile(`\s{2,}`)

// SanitizeSegment makes a single path segment safe for the destination
// volume: forbidden characters are stripped, whitespace is normalized, and
// trailing dots are removed. A segment that is empty after cleaning fails
// with ErrInvalidSegment.
func SanitizeSegment(seg string) (string, error) {
	clean := strings.ReplaceAll(seg, "\x00", " ")
	clean = invalidNameChars.ReplaceAllString(clean, "")
	clean = repeatedSpaces.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	clean = strings.TrimRight(clean, ". ")
	if clean == "" {
		return "", fmt.Errorf("%w: empty after sanitization", common.ErrInvalidSegment)
	}
	return clean, nil
}
