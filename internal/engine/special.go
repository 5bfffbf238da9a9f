package engine

import (
	"time"

	"staffdir/internal/config"
)

// matchesSpecial unions whichever occasion checkboxes are enabled.
// With nothing enabled every employee passes. The birthday leg is the
// coarse month-only check and the anniversary leg is the milestone-this-month
// check, both deliberately looser than the day-exact badges.
func matchesSpecial(e Employee, f SpecialFilter, today time.Time) bool {
	if !f.Active() {
		return true
	}
	if f.ShowBirthdays && IsBirthdayThisMonth(e.BirthDate, today) {
		return true
	}
	if f.ShowNewHires && IsNewHire(e.HireDate, today, config.NewHireWindowDays) {
		return true
	}
	if f.ShowAnniversaries && IsMilestoneThisMonth(e.HireDate, today) {
		return true
	}
	return false
}

// MatchesSpecial is the exported form used by callers that need the
// occasion predicate outside a full Compose pass.
func MatchesSpecial(e Employee, f SpecialFilter, today time.Time) bool {
	return matchesSpecial(e, f, today)
}
