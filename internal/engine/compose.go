package engine

import (
	"sort"
	"strings"
	"unicode"
)

// Composer rebuilds the grouped directory view from raw groups and filter
// state. It holds only a Clock; every Compose call is a full recomputation
// over an immutable snapshot, with no cached partial results.
type Composer struct {
	Clock Clock
}

// Compose applies the search, org, and special predicates in conjunction,
// then regroups and re-sorts the survivors. The input is never mutated.
func (c *Composer) Compose(groups []CrewGroup, org OrgFilter, special SpecialFilter, search string) []CrewGroup {
	today := c.Clock.Now()

	units := toSet(org.Units)
	crews := toSet(org.Crews)
	locations := toSet(org.Locations)
	query := strings.ToLower(strings.TrimSpace(search))

	var kept []Employee
	for _, g := range groups {
		for _, e := range g.Members {
			if !matchesSearch(e, query) {
				continue
			}
			if !matchesOrg(e, units, crews, locations) {
				continue
			}
			if !matchesSpecial(e, special, today) {
				continue
			}
			kept = append(kept, e)
		}
	}

	return GroupByCrew(kept)
}

// GroupByCrew buckets employees by (unit, crew), normalizing blank values
// to the Unassigned group, and sorts groups by unit then crew and members
// by last/first name keys. Empty groups are dropped by construction.
func GroupByCrew(employees []Employee) []CrewGroup {
	type key struct{ unit, crew string }
	buckets := make(map[key]*CrewGroup)
	var order []key

	for _, e := range employees {
		k := key{e.GroupUnit(), e.GroupCrew()}
		g, ok := buckets[k]
		if !ok {
			g = &CrewGroup{Unit: k.unit, Crew: k.crew}
			buckets[k] = g
			order = append(order, k)
		}
		g.Members = append(g.Members, e)
	}

	col := newCollator()

	groups := make([]CrewGroup, 0, len(order))
	for _, k := range order {
		groups = append(groups, *buckets[k])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if c := col.CompareString(groups[i].Unit, groups[j].Unit); c != 0 {
			return c < 0
		}
		return col.CompareString(groups[i].Crew, groups[j].Crew) < 0
	})

	for i := range groups {
		members := groups[i].Members
		sort.SliceStable(members, func(a, b int) bool {
			return compareByName(col, members[a], members[b]) < 0
		})
	}
	return groups
}

// Flatten returns the members of all groups in group order.
func Flatten(groups []CrewGroup) []Employee {
	var out []Employee
	for _, g := range groups {
		out = append(out, g.Members...)
	}
	return out
}

// EffectiveOrg resolves the only-my-crew toggle against the caller's crew.
// The composer itself only ever sees plain value sets.
func EffectiveOrg(org OrgFilter, myCrew string) OrgFilter {
	if org.OnlyMyCrew && Clean(myCrew) != "" {
		org.Crews = []string{Clean(myCrew)}
	}
	return org
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = Clean(v); v != "" {
			set[v] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// matchesSearch checks the folded query against the employee's text fields,
// plus a digit-wise comparison against phone numbers when the query itself
// is a phone fragment. An empty query matches everyone.
func matchesSearch(e Employee, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{
		e.Name, e.JobTitle, e.Department, e.Email, e.Unit, e.Crew, e.Location,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	if digits := DigitsOnly(query); digits != "" && !strings.ContainsFunc(query, unicode.IsLetter) {
		if strings.Contains(DigitsOnly(e.WorkPhone), digits) ||
			strings.Contains(DigitsOnly(e.CellPhone), digits) {
			return true
		}
	}
	return false
}

// matchesOrg requires membership in every non-empty selection set.
// Unit and crew are matched on their normalized group values, since that is
// what the filter panel offers as options.
func matchesOrg(e Employee, units, crews, locations map[string]struct{}) bool {
	if units != nil {
		if _, ok := units[e.GroupUnit()]; !ok {
			return false
		}
	}
	if crews != nil {
		if _, ok := crews[e.GroupCrew()]; !ok {
			return false
		}
	}
	if locations != nil {
		if _, ok := locations[Clean(e.Location)]; !ok {
			return false
		}
	}
	return true
}
