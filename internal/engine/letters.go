package engine

import "strings"

const letterA = 'A'

// LetterCounts buckets a sorted employee list by the first letter of the
// last-name key. All 26 buckets are always present, zero or not, so the
// navigation bar can render a stable row. Non-alphabetic initials are
// silently ignored.
func LetterCounts(employees []Employee) map[string]int {
	counts := make(map[string]int, 26)
	for i := 0; i < 26; i++ {
		counts[string(rune(letterA+i))] = 0
	}
	for _, e := range employees {
		_, lastKey := NameKeys(e.Name)
		if lastKey == "" {
			continue
		}
		c := lastKey[0]
		if c >= 'a' && c <= 'z' {
			counts[strings.ToUpper(string(c))]++
		}
	}
	return counts
}

// FilterByLetter returns the subsequence whose last-name key starts with
// the given letter, case-insensitively. An empty letter means no filter.
func FilterByLetter(employees []Employee, letter string) []Employee {
	if letter == "" {
		return employees
	}
	prefix := strings.ToLower(letter)
	var out []Employee
	for _, e := range employees {
		_, lastKey := NameKeys(e.Name)
		if strings.HasPrefix(lastKey, prefix) {
			out = append(out, e)
		}
	}
	return out
}
