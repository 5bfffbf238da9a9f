package engine

import (
	"regexp"
	"strings"
	"time"

	"staffdir/internal/config"
)

// Employee is a single directory record as supplied by the employee store.
// BirthDate and HireDate carry only calendar-date precision; the zero value
// means the date is unknown, which makes every occasion predicate false.
type Employee struct {
	EmpNo      string `json:"empNo"`
	Name       string `json:"name"`
	JobTitle   string `json:"jobTitle"`
	WorkPhone  string `json:"workPhone"`
	CellPhone  string `json:"cellPhone"`
	Email      string `json:"email"`
	Unit       string `json:"unit"`
	Crew       string `json:"crew"`
	Department string `json:"department"`
	Location   string `json:"location"`
	ReportsTo  string `json:"reportsTo"`

	// Dates are excluded from list payloads; the detail endpoint formats them.
	BirthDate time.Time `json:"-"`
	HireDate  time.Time `json:"-"`
}

// CrewGroup is the unit-of-display bucket keyed by (unit, crew).
type CrewGroup struct {
	Unit    string     `json:"unit"`
	Crew    string     `json:"crew"`
	Members []Employee `json:"members"`
}

// OrgFilter restricts the directory by organizational attributes.
// Empty slices impose no restriction. The struct doubles as the persisted
// filter-state shape, so it carries JSON tags.
type OrgFilter struct {
	Units      []string `json:"units"`
	Crews      []string `json:"crews"`
	Locations  []string `json:"locations"`
	OnlyMyCrew bool     `json:"onlyMyCrew"`
}

// SpecialFilter unions the occasion checkboxes. All false means pass-through.
type SpecialFilter struct {
	ShowBirthdays     bool `json:"showBirthdays"`
	ShowNewHires      bool `json:"showNewHires"`
	ShowAnniversaries bool `json:"showAnniversaries"`
}

// Active reports whether any occasion checkbox is set.
func (f SpecialFilter) Active() bool {
	return f.ShowBirthdays || f.ShowNewHires || f.ShowAnniversaries
}

var junkValuePattern = regexp.MustCompile(`(?i)^(null|undefined|n/a|na|none)$`)

// Clean normalizes a raw field value: trimmed, with common database junk
// placeholders ("null", "N/A", ...) collapsed to the empty string.
func Clean(v string) string {
	s := strings.TrimSpace(v)
	if s == "" || junkValuePattern.MatchString(s) {
		return ""
	}
	return s
}

var nonDigitPattern = regexp.MustCompile(`\D+`)

// DigitsOnly strips every non-digit character, for phone comparisons.
func DigitsOnly(v string) string {
	return nonDigitPattern.ReplaceAllString(Clean(v), "")
}

var generalCounselPattern = regexp.MustCompile(`(?i)^general\s*counsel$`)

// Extension derives the internal dialing extension from the work phone.
// General Counsel keeps a four-digit extension; everyone else gets three.
func (e Employee) Extension() string {
	nums := DigitsOnly(e.WorkPhone)
	if nums == "" {
		return ""
	}
	n := 3
	if generalCounselPattern.MatchString(Clean(e.JobTitle)) {
		n = 4
	}
	if len(nums) < n {
		return nums
	}
	return nums[len(nums)-n:]
}

// GroupUnit returns the display unit for grouping and org filtering.
// A blank unit falls back to the department, then to the Unassigned bucket.
func (e Employee) GroupUnit() string {
	if u := Clean(e.Unit); u != "" {
		return u
	}
	if d := Clean(e.Department); d != "" {
		return d
	}
	return config.UnassignedGroup
}

// GroupCrew returns the display crew for grouping and org filtering.
func (e Employee) GroupCrew() string {
	if c := Clean(e.Crew); c != "" {
		return c
	}
	return config.UnassignedGroup
}
