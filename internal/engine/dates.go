package engine

import (
	"errors"
	"math"
	"time"

	"staffdir/internal/config"
)

const millisPerDay = 24 * 60 * 60 * 1000

// milestoneSet indexes config.MilestoneYears for O(1) membership checks.
var milestoneSet = func() map[int]struct{} {
	m := make(map[int]struct{}, len(config.MilestoneYears))
	for _, y := range config.MilestoneYears {
		m[y] = struct{}{}
	}
	return m
}()

// Normalize strips the time-of-day component, leaving local midnight.
// All occasion comparisons operate on normalized dates so that only the
// calendar date matters, never the hour.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole-day distance between the calendar dates
// of a and b. Both dates are re-anchored to UTC midnight first; stored
// dates and the clock may carry different locations, and only the
// calendar date may influence the distance. Rounding absorbs
// daylight-saving artifacts in the subtraction.
func DaysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	diff := bu.Sub(au)
	return int(math.Round(float64(diff.Milliseconds()) / float64(millisPerDay)))
}

// sameDate reports whether a and b fall on the same calendar date.
// Instant comparison (time.Time.Equal) is wrong here: parsed dates are
// UTC midnights while the clock runs in local time, which are different
// instants even on the same day.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dateAfter reports whether a's calendar date is strictly after b's,
// ignoring location for the same reason as sameDate.
func dateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

// IsLeapYear reports whether year has a February 29th.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// AdjustLeapDay maps Feb 29 to Feb 28 when year has no leap day.
// Every other (month, day) pair passes through unchanged.
func AdjustLeapDay(month time.Month, day, year int) (time.Month, int) {
	if month == time.February && day == 29 && !IsLeapYear(year) {
		return time.February, 28
	}
	return month, day
}

// ObservedBirthday projects a birth date into the given year and applies the
// weekend shift: Saturday observes on the preceding Friday, Sunday on the
// Friday two days prior. Returns the zero time for an unknown birth date.
func ObservedBirthday(birth time.Time, year int) time.Time {
	if birth.IsZero() {
		return time.Time{}
	}
	month, day := AdjustLeapDay(birth.Month(), birth.Day(), year)
	date := time.Date(year, month, day, 0, 0, 0, 0, birth.Location())
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, -1)
	case time.Sunday:
		return date.AddDate(0, 0, -2)
	default:
		return date
	}
}

// IsBirthdayObservedToday reports whether today is the observed birthday.
func IsBirthdayObservedToday(today, birth time.Time) bool {
	if birth.IsZero() {
		return false
	}
	return sameDate(ObservedBirthday(birth, today.Year()), today)
}

// NextObservedBirthday returns the next observed birthday strictly after
// today, or today itself when excludeToday is false and it lands today.
func NextObservedBirthday(birth, today time.Time, excludeToday bool) time.Time {
	if birth.IsZero() {
		return time.Time{}
	}
	observed := ObservedBirthday(birth, today.Year())
	if dateAfter(observed, today) || (sameDate(observed, today) && !excludeToday) {
		return observed
	}
	return ObservedBirthday(birth, today.Year()+1)
}

// Upcoming describes an occasion landing within its lookahead window.
// Years is only meaningful for anniversaries.
type Upcoming struct {
	Date  time.Time `json:"date"`
	Days  int       `json:"days"`
	Years int       `json:"years,omitempty"`
}

// UpcomingBirthday reports a birthday observed within the next
// config.BirthdayWindowDays days. A birthday observed today is not
// "upcoming"; the today badge covers it.
func UpcomingBirthday(birth, today time.Time) (Upcoming, bool) {
	if birth.IsZero() || IsBirthdayObservedToday(today, birth) {
		return Upcoming{}, false
	}
	next := NextObservedBirthday(birth, today, true)
	days := DaysBetween(today, next)
	if days < 1 || days > config.BirthdayWindowDays {
		return Upcoming{}, false
	}
	return Upcoming{Date: next, Days: days}, true
}

// IsAnniversaryToday reports whether today is the day-exact hire
// anniversary and, when it is, how many years of service it marks.
// Anniversaries are never weekend-shifted, unlike birthdays.
func IsAnniversaryToday(hire, today time.Time) (int, bool) {
	if hire.IsZero() {
		return 0, false
	}
	month, day := AdjustLeapDay(hire.Month(), hire.Day(), today.Year())
	date := time.Date(today.Year(), month, day, 0, 0, 0, 0, hire.Location())
	if !sameDate(date, today) {
		return 0, false
	}
	return today.Year() - hire.Year(), true
}

// NextAnniversary mirrors NextObservedBirthday without the weekend shift.
func NextAnniversary(hire, today time.Time, excludeToday bool) time.Time {
	if hire.IsZero() {
		return time.Time{}
	}
	candidate := anniversaryInYear(hire, today.Year())
	if dateAfter(candidate, today) || (sameDate(candidate, today) && !excludeToday) {
		return candidate
	}
	return anniversaryInYear(hire, today.Year()+1)
}

func anniversaryInYear(hire time.Time, year int) time.Time {
	month, day := AdjustLeapDay(hire.Month(), hire.Day(), year)
	return time.Date(year, month, day, 0, 0, 0, 0, hire.Location())
}

// UpcomingAnniversary reports an anniversary within the next
// config.AnniversaryWindowDays days. The window is deliberately shorter
// than the birthday one.
func UpcomingAnniversary(hire, today time.Time) (Upcoming, bool) {
	if hire.IsZero() {
		return Upcoming{}, false
	}
	if _, ok := IsAnniversaryToday(hire, today); ok {
		return Upcoming{}, false
	}
	next := NextAnniversary(hire, today, true)
	days := DaysBetween(today, next)
	if days < 1 || days > config.AnniversaryWindowDays {
		return Upcoming{}, false
	}
	return Upcoming{Date: next, Days: days, Years: next.Year() - hire.Year()}, true
}

// IsMilestoneYears reports whether n is a celebrated service milestone.
func IsMilestoneYears(n int) bool {
	_, ok := milestoneSet[n]
	return ok
}

// IsMilestoneThisMonth reports a milestone anniversary falling anywhere in
// the current month. Year count is naive subtraction; an employee hired in
// a later month of the year is counted a year early. That matches the
// production behavior and is kept pending product clarification.
func IsMilestoneThisMonth(hire, today time.Time) bool {
	if hire.IsZero() {
		return false
	}
	years := today.Year() - hire.Year()
	return IsMilestoneYears(years) && hire.Month() == today.Month()
}

// IsNewHire reports whether the hire date falls within the last windowDays
// days, inclusive on both ends.
func IsNewHire(hire, today time.Time, windowDays int) bool {
	if hire.IsZero() {
		return false
	}
	diff := DaysBetween(hire, today)
	return diff >= 0 && diff <= windowDays
}

// IsBirthdayThisMonth is the coarse month-only check used by the filter
// panel. The day-exact observed check drives the per-card badge instead;
// the two definitions coexist on purpose.
func IsBirthdayThisMonth(birth, today time.Time) bool {
	return !birth.IsZero() && birth.Month() == today.Month()
}

// ParseDate handles the calendar-date formats found in vCard feeds and
// database columns. The boolean reports whether a year was present;
// year-less forms are anchored to a leap year so Feb 29 survives parsing.
func ParseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return Normalize(t), true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
