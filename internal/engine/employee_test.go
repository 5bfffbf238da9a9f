package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"staffdir/internal/config"
	"staffdir/internal/engine"
)

func TestClean(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Operations  ", "Operations"},
		{"null", ""},
		{"NULL", ""},
		{"undefined", ""},
		{"N/A", ""},
		{"na", ""},
		{"none", ""},
		{"", ""},
		{"   ", ""},
		{"Nadia", "Nadia"}, // junk matching is whole-value only
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.Clean(tt.input), "input %q", tt.input)
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "2085551212", engine.DigitsOnly("(208) 555-1212"))
	assert.Equal(t, "", engine.DigitsOnly("ext"))
	assert.Equal(t, "", engine.DigitsOnly("null"))
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		e    engine.Employee
		want string
	}{
		{
			"standard three digits",
			engine.Employee{WorkPhone: "(208) 555-1212", JobTitle: "Engineer"},
			"212",
		},
		{
			"general counsel gets four",
			engine.Employee{WorkPhone: "(208) 555-1212", JobTitle: "General Counsel"},
			"1212",
		},
		{
			"general counsel spacing variant",
			engine.Employee{WorkPhone: "(208) 555-1212", JobTitle: "GeneralCounsel"},
			"1212",
		},
		{
			"short number returned whole",
			engine.Employee{WorkPhone: "42", JobTitle: "Engineer"},
			"42",
		},
		{
			"no phone",
			engine.Employee{JobTitle: "Engineer"},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.e.Extension())
		})
	}
}

func TestGroupUnitFallbacks(t *testing.T) {
	assert.Equal(t, "Water", engine.Employee{Unit: "Water", Department: "Public Works"}.GroupUnit())
	assert.Equal(t, "Public Works", engine.Employee{Department: "Public Works"}.GroupUnit())
	assert.Equal(t, "Public Works", engine.Employee{Unit: "null", Department: "Public Works"}.GroupUnit())
	assert.Equal(t, config.UnassignedGroup, engine.Employee{}.GroupUnit())
}

func TestGroupCrew(t *testing.T) {
	assert.Equal(t, "Night Shift", engine.Employee{Crew: "Night Shift"}.GroupCrew())
	assert.Equal(t, config.UnassignedGroup, engine.Employee{Crew: "  "}.GroupCrew())
}

func TestSpecialFilterActive(t *testing.T) {
	assert.False(t, engine.SpecialFilter{}.Active())
	assert.True(t, engine.SpecialFilter{ShowBirthdays: true}.Active())
	assert.True(t, engine.SpecialFilter{ShowNewHires: true}.Active())
	assert.True(t, engine.SpecialFilter{ShowAnniversaries: true}.Active())
}
