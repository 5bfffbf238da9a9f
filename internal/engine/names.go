package engine

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// nameSuffixes are generational suffixes dropped before deriving sort keys.
var nameSuffixes = map[string]struct{}{
	"jr": {}, "jr.": {}, "sr": {}, "sr.": {},
	"ii": {}, "iii": {}, "iv": {}, "v": {},
}

// SplitName parses a display name into its first/last components.
// Both "Last, First Middle" and "First Middle Last" forms are handled;
// a recognized suffix on the last token is discarded. A single remaining
// token is treated as the last name.
func SplitName(full string) (first, last string) {
	s := strings.Join(strings.Fields(full), " ")
	if s == "" {
		return "", ""
	}

	if i := strings.IndexByte(s, ','); i >= 0 {
		return strings.TrimSpace(s[i+1:]), strings.TrimSpace(s[:i])
	}

	parts := strings.Split(s, " ")
	if _, ok := nameSuffixes[strings.ToLower(parts[len(parts)-1])]; ok {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// NameKeys returns the case-folded comparison keys for a display name.
func NameKeys(full string) (firstKey, lastKey string) {
	first, last := SplitName(full)
	return strings.ToLower(first), strings.ToLower(last)
}

// newCollator builds the locale-aware comparator used for every ordering
// decision in the directory. Loose matches the front end's base sensitivity
// (case and accent insensitive).
//
// Collators are not safe for concurrent use, so callers create one per pass.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.Loose)
}

// compareByName orders two employees by last-name key, then first-name key.
func compareByName(col *collate.Collator, a, b Employee) int {
	aFirst, aLast := NameKeys(a.Name)
	bFirst, bLast := NameKeys(b.Name)
	if c := col.CompareString(aLast, bLast); c != 0 {
		return c
	}
	return col.CompareString(aFirst, bFirst)
}
