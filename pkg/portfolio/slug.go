package portfolio

import (
	"fmt"
	"strings"
)

const maxSlugBase = 80

// Slug derives the unique storage key for a portfolio from its display
// name and member count. Encoding the building count means a cluster
// whose composition changes materially produces a new slug instead of
// silently overwriting the old row.
func Slug(name string, buildingCount int) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	base := b.String()
	if len(base) > maxSlugBase {
		base = strings.TrimRight(base[:maxSlugBase], "-")
	}

	return fmt.Sprintf("%s-%db", base, buildingCount)
}
