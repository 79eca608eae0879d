// Package normalize implements the alias and coordinate normalization
// rules shared by the gazetteer index and the LSS context lattice.
package normalize

import "strings"

// Key canonicalizes a gazetteer alias or lookup string into the form used
// as a map key throughout pkg/gazetteer: lowercase, apostrophes dropped,
// hyphens mapped to spaces, whitespace collapsed and trimmed.
//
// Key(Key(s)) == Key(s) for all s (idempotence is required by callers that
// re-normalize values already stored in the index).
func Key(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '\'' || r == '’' || r == '‘' || r == 'ʼ':
			// apostrophes drop entirely, no space inserted
			continue
		case r == '-' || r == '‐' || r == '‑' || r == '‒' || r == '–' || r == '—':
			r = ' '
			fallthrough
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if lastSpace || b.Len() == 0 {
				continue
			}
			b.WriteRune(' ')
			lastSpace = true
			continue
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimRight(b.String(), " ")
}
