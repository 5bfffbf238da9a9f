package engine

import (
	"time"

	"staffdir/internal/config"
)

// Occasions is the per-employee celebration summary shown on the detail
// view. Every field derives from the two optional dates; unknown dates
// leave the whole struct at its zero value.
type Occasions struct {
	BirthdayToday       bool      `json:"birthdayToday"`
	UpcomingBirthday    *Upcoming `json:"upcomingBirthday,omitempty"`
	AnniversaryToday    bool      `json:"anniversaryToday"`
	AnniversaryYears    int       `json:"anniversaryYears,omitempty"`
	UpcomingAnniversary *Upcoming `json:"upcomingAnniversary,omitempty"`
	MilestoneMonth      bool      `json:"milestoneMonth"`
	NewHire             bool      `json:"newHire"`
}

// OccasionsFor evaluates every occasion predicate for one employee.
func OccasionsFor(e Employee, today time.Time) Occasions {
	var occ Occasions

	occ.BirthdayToday = IsBirthdayObservedToday(today, e.BirthDate)
	if up, ok := UpcomingBirthday(e.BirthDate, today); ok {
		occ.UpcomingBirthday = &up
	}

	if years, ok := IsAnniversaryToday(e.HireDate, today); ok {
		occ.AnniversaryToday = true
		occ.AnniversaryYears = years
	}
	if up, ok := UpcomingAnniversary(e.HireDate, today); ok {
		occ.UpcomingAnniversary = &up
	}

	occ.MilestoneMonth = IsMilestoneThisMonth(e.HireDate, today)
	occ.NewHire = IsNewHire(e.HireDate, today, config.NewHireWindowDays)

	return occ
}
