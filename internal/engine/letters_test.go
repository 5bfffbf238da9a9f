package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdir/internal/engine"
)

func TestLetterCounts(t *testing.T) {
	employees := []engine.Employee{
		{Name: "Alice Zimmerman"},
		{Name: "Bob Anderson"},
		{Name: "Adams, Carol"},
		{Name: "dan ashton"},
		{Name: "4real Numbers"}, // last name "Numbers"
		{Name: "Özil"},          // non a-z initial, ignored
		{Name: ""},              // no keys at all
	}

	counts := engine.LetterCounts(employees)

	// The navigation bar needs a stable 26-bucket row.
	require.Len(t, counts, 26)

	assert.Equal(t, 3, counts["A"])
	assert.Equal(t, 1, counts["Z"])
	assert.Equal(t, 1, counts["N"])
	assert.Equal(t, 0, counts["B"]) // Bob files under Anderson
	assert.Equal(t, 0, counts["Q"])
}

func TestFilterByLetter(t *testing.T) {
	employees := []engine.Employee{
		{Name: "Alice Zimmerman"},
		{Name: "Bob Anderson"},
		{Name: "Adams, Carol"},
	}

	byA := engine.FilterByLetter(employees, "A")
	require.Len(t, byA, 2)
	assert.Equal(t, "Bob Anderson", byA[0].Name)
	assert.Equal(t, "Adams, Carol", byA[1].Name)

	// Case-insensitive.
	assert.Len(t, engine.FilterByLetter(employees, "z"), 1)

	// Empty letter means no filtering at all.
	assert.Equal(t, employees, engine.FilterByLetter(employees, ""))

	assert.Empty(t, engine.FilterByLetter(employees, "Q"))
}
