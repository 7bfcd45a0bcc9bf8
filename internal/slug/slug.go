// Package slug derives URL-safe unique identifiers from display names.
package slug

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tourhub/tourhub/internal/shared"
)

// MaxAttempts bounds the suffix search. Reaching it means storage is full of
// colliding names and is reported as CONFLICT.
const MaxAttempts = 1000

// ExistsFunc reports whether candidate is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// letterFolds spells lower-case letters that carry no decomposable accent.
var letterFolds = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ø': "o",
	'ł': "l",
	'đ': "d",
	'ð': "d",
	'þ': "th",
	'ħ': "h",
	'ı': "i",
	'ŧ': "t",
}

// Normalize lower-cases raw, strips diacritics, transliterates letters such
// as ø or ß and joins runs of anything else with a single hyphen.
func Normalize(raw string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(strings.TrimSpace(raw)),
	)
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(raw))
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		piece := letterFolds[r]
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			piece = string(r)
		}
		if piece == "" {
			pendingHyphen = true
			continue
		}
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteString(piece)
	}
	return b.String()
}

// Generate returns the first free slug for raw: the normalized base, then
// base-2, base-3, ... while exists reports a collision. exists is consulted
// without a lock; the storage unique constraint arbitrates races.
func Generate(ctx context.Context, raw string, exists ExistsFunc) (string, error) {
	base := Normalize(raw)
	if base == "" {
		return "", shared.Validation("name required", shared.Issue{
			Path:    "name",
			Rule:    "required",
			Message: "name must contain at least one letter or digit",
		})
	}
	if exists == nil {
		return base, nil
	}

	candidate := base
	for n := 2; n <= MaxAttempts+1; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug: check %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
	return "", shared.Conflict("no free slug for " + base)
}
