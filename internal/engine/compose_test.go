package engine_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdir/internal/config"
	"staffdir/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// composeFixture is a small roster spanning three group buckets.
func composeFixture() []engine.Employee {
	return []engine.Employee{
		{
			EmpNo: "1001", Name: "Alice Zimmerman", JobTitle: "Support Tech",
			Unit: "IT", Crew: "Helpdesk", WorkPhone: "(208) 555-1212",
		},
		{
			EmpNo: "1002", Name: "Bob Anderson", JobTitle: "Network Engineer",
			Unit: "IT", Crew: "Network",
		},
		{
			EmpNo: "1003", Name: "Carol Baker", JobTitle: "Accountant",
			Department: "Finance", // no unit, falls back to department
			BirthDate:  date(1988, 8, 3),
		},
		{
			EmpNo: "1004", Name: "Dan Cooper", JobTitle: "Laborer",
			Unit: "null", // junk value, lands in Unassigned
			HireDate: date(2025, 8, 15),
		},
	}
}

func newComposer(today time.Time) *engine.Composer {
	return &engine.Composer{Clock: MockClock{CurrentTime: today}}
}

func TestCompose_NoFilters(t *testing.T) {
	c := newComposer(date(2025, 8, 20))
	groups := c.Compose(engine.GroupByCrew(composeFixture()), engine.OrgFilter{}, engine.SpecialFilter{}, "")

	require.Len(t, groups, 4)

	// Groups sort by unit then crew; Unassigned just sorts as a word.
	assert.Equal(t, "Finance", groups[0].Unit)
	assert.Equal(t, "IT", groups[1].Unit)
	assert.Equal(t, "Helpdesk", groups[1].Crew)
	assert.Equal(t, "IT", groups[2].Unit)
	assert.Equal(t, "Network", groups[2].Crew)
	assert.Equal(t, config.UnassignedGroup, groups[3].Unit)
	assert.Equal(t, config.UnassignedGroup, groups[3].Crew)
}

func TestCompose_MembersSortedByLastName(t *testing.T) {
	employees := []engine.Employee{
		{EmpNo: "1", Name: "Zoe Young", Unit: "IT", Crew: "Helpdesk"},
		{EmpNo: "2", Name: "Adams, Bert", Unit: "IT", Crew: "Helpdesk"},
		{EmpNo: "3", Name: "Bert Adams Jr.", Unit: "IT", Crew: "Helpdesk"},
	}
	c := newComposer(date(2025, 8, 20))
	groups := c.Compose(engine.GroupByCrew(employees), engine.OrgFilter{}, engine.SpecialFilter{}, "")

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 3)
	assert.Equal(t, "Adams, Bert", groups[0].Members[0].Name)
	assert.Equal(t, "Bert Adams Jr.", groups[0].Members[1].Name)
	assert.Equal(t, "Zoe Young", groups[0].Members[2].Name)
}

func TestCompose_OrgUnitFilter(t *testing.T) {
	c := newComposer(date(2025, 8, 20))
	org := engine.OrgFilter{Units: []string{"IT"}}
	groups := c.Compose(engine.GroupByCrew(composeFixture()), org, engine.SpecialFilter{}, "")

	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Equal(t, "IT", g.Unit)
	}
}

func TestCompose_OrgFilterMatchesNormalizedUnit(t *testing.T) {
	// Carol has no unit; the filter panel offers her department instead.
	c := newComposer(date(2025, 8, 20))
	org := engine.OrgFilter{Units: []string{"Finance"}}
	groups := c.Compose(engine.GroupByCrew(composeFixture()), org, engine.SpecialFilter{}, "")

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 1)
	assert.Equal(t, "Carol Baker", groups[0].Members[0].Name)
}

func TestCompose_TextSearch(t *testing.T) {
	c := newComposer(date(2025, 8, 20))
	base := engine.GroupByCrew(composeFixture())

	groups := c.Compose(base, engine.OrgFilter{}, engine.SpecialFilter{}, "zimmer")
	require.Len(t, groups, 1)
	assert.Equal(t, "Alice Zimmerman", groups[0].Members[0].Name)

	// Job titles are searched too.
	groups = c.Compose(base, engine.OrgFilter{}, engine.SpecialFilter{}, "ACCOUNTANT")
	require.Len(t, groups, 1)
	assert.Equal(t, "Carol Baker", groups[0].Members[0].Name)

	// No match leaves nothing.
	groups = c.Compose(base, engine.OrgFilter{}, engine.SpecialFilter{}, "xyzzy")
	assert.Empty(t, groups)
}

func TestCompose_PhoneDigitSearch(t *testing.T) {
	c := newComposer(date(2025, 8, 20))
	base := engine.GroupByCrew(composeFixture())

	// "208" appears in no text field but matches the digits of Alice's phone.
	groups := c.Compose(base, engine.OrgFilter{}, engine.SpecialFilter{}, "208")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 1)
	assert.Equal(t, "Alice Zimmerman", groups[0].Members[0].Name)

	// Punctuation in the query is fine; digits are compared digit-wise.
	groups = c.Compose(base, engine.OrgFilter{}, engine.SpecialFilter{}, "555-12")
	require.Len(t, groups, 1)
	assert.Equal(t, "Alice Zimmerman", groups[0].Members[0].Name)

	// A query containing letters never takes the phone path.
	groups = c.Compose(base, engine.OrgFilter{}, engine.SpecialFilter{}, "ext208")
	assert.Empty(t, groups)
}

func TestCompose_SpecialFilterUnion(t *testing.T) {
	c := newComposer(date(2025, 8, 20))
	base := engine.GroupByCrew(composeFixture())

	// Birthdays this month: only Carol (born in August).
	groups := c.Compose(base, engine.OrgFilter{}, engine.SpecialFilter{ShowBirthdays: true}, "")
	require.Len(t, groups, 1)
	assert.Equal(t, "Carol Baker", groups[0].Members[0].Name)

	// Union with new hires picks up Dan as well.
	special := engine.SpecialFilter{ShowBirthdays: true, ShowNewHires: true}
	groups = c.Compose(base, engine.OrgFilter{}, special, "")

	var names []string
	for _, e := range engine.Flatten(groups) {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"Carol Baker", "Dan Cooper"}, names)
}

func TestCompose_Idempotent(t *testing.T) {
	c := newComposer(date(2025, 8, 20))
	org := engine.OrgFilter{Units: []string{"IT", "Finance"}}
	special := engine.SpecialFilter{}

	base := engine.GroupByCrew(composeFixture())
	once := c.Compose(base, org, special, "")
	twice := c.Compose(once, org, special, "")

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("recomposition changed the result (-once +twice):\n%s", diff)
	}
}

func TestEffectiveOrg(t *testing.T) {
	org := engine.OrgFilter{OnlyMyCrew: true, Crews: []string{"Network"}}

	resolved := engine.EffectiveOrg(org, "Helpdesk")
	assert.Equal(t, []string{"Helpdesk"}, resolved.Crews)

	// Unknown own crew leaves the selection alone.
	resolved = engine.EffectiveOrg(org, "")
	assert.Equal(t, []string{"Network"}, resolved.Crews)

	resolved = engine.EffectiveOrg(engine.OrgFilter{}, "Helpdesk")
	assert.Empty(t, resolved.Crews)
}

func TestMatchesSpecial_InactivePassesEveryone(t *testing.T) {
	today := date(2025, 8, 20)
	e := engine.Employee{Name: "No Dates"}
	assert.True(t, engine.MatchesSpecial(e, engine.SpecialFilter{}, today))

	// Once any checkbox is on, an employee without dates is excluded.
	assert.False(t, engine.MatchesSpecial(e, engine.SpecialFilter{ShowBirthdays: true}, today))
}

func TestFlatten(t *testing.T) {
	groups := engine.GroupByCrew(composeFixture())
	flat := engine.Flatten(groups)
	assert.Len(t, flat, 4)
}
