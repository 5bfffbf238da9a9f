package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"

	"staffdir/internal/config"
)

// CalendarBuilder renders the directory's occasions as an iCalendar feed:
// observed birthdays (weekend-shifted) and milestone service anniversaries.
//
// FormatBirthday and FormatAnniversary let the caller inject localized
// summaries; nil formatters fall back to the config templates.
type CalendarBuilder struct {
	Clock Clock

	FormatBirthday    func(name string) string
	FormatAnniversary func(name string, years int) string
}

// Build produces the ICS payload for the given employees along with the
// number of birthdays observed today. Employees without the relevant date
// simply contribute no events.
func (b *CalendarBuilder) Build(employees []Employee, reminderTrigger string) ([]byte, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Occasions are defined by the local calendar date; only the DTSTAMP is
	// converted to UTC for the wire format.
	now := b.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	today := 0
	var children []*ical.Component

	for _, e := range employees {
		uidBase := occasionUID(e)

		for _, ev := range b.birthdayEvents(e, now, uidBase, reminderTrigger) {
			ev.Props.Set(dtStampProp)
			children = append(children, ev.Component)
		}
		for _, ev := range b.anniversaryEvents(e, now, uidBase, reminderTrigger) {
			ev.Props.Set(dtStampProp)
			children = append(children, ev.Component)
		}

		if IsBirthdayObservedToday(now, e.BirthDate) {
			today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, e.Name,
				config.LogKeyDOB, e.BirthDate.Format(config.DateFormatFullDash),
			)
		}
	}

	if len(children) == 0 {
		// A valid empty VCALENDAR keeps calendar clients from flagging the feed.
		return []byte(config.StubVCalendar), today, nil
	}
	cal.Children = children

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), today, nil
}

// birthdayEvents emits the observed birthday for last year, this year, and
// next year, so calendar clients can scroll without an immediate re-sync.
func (b *CalendarBuilder) birthdayEvents(e Employee, now time.Time, uidBase, reminderTrigger string) []*ical.Event {
	if e.BirthDate.IsZero() {
		return nil
	}

	summary := fmt.Sprintf(config.FallbackBirthdaySummary, e.Name)
	if b.FormatBirthday != nil {
		summary = b.FormatBirthday(e.Name)
	}

	var events []*ical.Event
	for _, y := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		if y < e.BirthDate.Year() {
			continue
		}
		events = append(events, b.newEvent(
			fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain),
			summary,
			ObservedBirthday(e.BirthDate, y),
			reminderTrigger,
		))
	}
	return events
}

// anniversaryEvents emits this year's anniversary only when it marks a
// celebrated milestone. Anniversaries stay on their actual date.
func (b *CalendarBuilder) anniversaryEvents(e Employee, now time.Time, uidBase, reminderTrigger string) []*ical.Event {
	if e.HireDate.IsZero() {
		return nil
	}
	years := now.Year() - e.HireDate.Year()
	if !IsMilestoneYears(years) {
		return nil
	}

	summary := fmt.Sprintf(config.FallbackAnnivSummary, e.Name, years)
	if b.FormatAnniversary != nil {
		summary = b.FormatAnniversary(e.Name, years)
	}

	return []*ical.Event{b.newEvent(
		fmt.Sprintf(config.FormatUID, uidBase+"-svc", now.Year(), config.ICalDomain),
		summary,
		anniversaryInYear(e.HireDate, now.Year()),
		reminderTrigger,
	)}
}

func (b *CalendarBuilder) newEvent(uid, summary string, date time.Time, reminderTrigger string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(date)
	event.Props.Set(dtStartProp)

	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, summary)
	}
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// occasionUID derives a stable event UID base from identifying fields, so
// feeds stay consistent across refreshes.
func occasionUID(e Employee) string {
	id := e.EmpNo
	if id == "" {
		id = e.Name
	}
	input := fmt.Sprintf(config.FormatHashInput, id, e.Name, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}
