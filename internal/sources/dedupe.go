// Package sources handles citation records attached to stage outputs.
package sources

import "github.com/EyalShechtman/AWSHackDay/internal/contracts"

// Dedupe removes duplicate citations keyed by URI, keeping the first
// occurrence and preserving order. Titles are ignored for uniqueness:
// search grounding frequently returns the same URI under different
// titles. Input lists are small (tens of items), so a map per call is
// plenty.
func Dedupe(citations []contracts.Citation) []contracts.Citation {
	if len(citations) == 0 {
		return citations
	}

	seen := make(map[string]struct{}, len(citations))
	out := make([]contracts.Citation, 0, len(citations))

	for _, c := range citations {
		if _, ok := seen[c.URI]; ok {
			continue
		}
		seen[c.URI] = struct{}{}
		out = append(out, c)
	}

	return out
}
