package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/directory"
)

// CalendarStats reports what a Build produced.
type CalendarStats struct {
	Members      int
	WithBirthday int
	Events       int
}

// CalendarBuilder renders member birthdays as an iCalendar feed.
type CalendarBuilder struct {
	Clock Clock

	// FormatSummary lets the UI inject localized event titles.
	FormatSummary func(name string, age int) string

	// Alarm adds a DISPLAY reminder at the start of each birthday.
	Alarm bool
}

// Build emits one all-day event per member for the previous, current and
// next year, skipping years before the member was born.
func (b *CalendarBuilder) Build(users []directory.UserRecord) ([]byte, CalendarStats, error) {
	now := b.Clock.Now()
	stats := CalendarStats{Members: len(users)}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	// Birthdays follow the local calendar date; only DTSTAMP is UTC.
	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(now.UTC())

	// Exact duplicates in the listing still get distinct UIDs.
	seen := make(map[string]int, len(users))

	for _, u := range users {
		bday, ok := birthdayOf(u)
		if !ok {
			continue
		}
		stats.WithBirthday++

		uid := memberUID(u, bday)
		if n := seen[uid]; n > 0 {
			seen[uid] = n + 1
			uid = fmt.Sprintf(config.FormatUIDDup, uid, n)
		} else {
			seen[uid] = 1
		}

		for _, e := range b.memberEvents(u, uid, bday, now) {
			e.Props.Set(stamp)
			cal.Children = append(cal.Children, e.Component)
			stats.Events++
		}
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Members),
			slog.Int(config.LogKeyFound, stats.WithBirthday),
		),
	)

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), stats, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, stats, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), stats, nil
}

func (b *CalendarBuilder) memberEvents(u directory.UserRecord, uidBase string, bday, now time.Time) []*ical.Event {
	loc := now.Location()
	name := u.FullName()

	var events []*ical.Event
	for _, y := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		if y < bday.Year() {
			continue
		}
		// time.Date moves Feb 29 to Mar 1 in non-leap years.
		date := time.Date(y, bday.Month(), bday.Day(), 0, 0, 0, 0, loc)
		age := y - bday.Year()

		summary := b.summary(name, age)

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		start := ical.NewProp(config.PropDTStart)
		start.SetDate(date)
		event.Props.Set(start)

		if b.Alarm {
			alarm := ical.NewComponent(config.ICalComponent)
			alarm.Props.SetText(config.PropAction, config.ICalAction)
			alarm.Props.SetText(config.PropDescription, summary)
			// Raw value keeps the DURATION type implicit (no VALUE=TEXT).
			trigger := ical.NewProp(config.PropTrigger)
			trigger.Value = config.DefaultAlarmTrigger
			alarm.Props.Set(trigger)
			event.Children = append(event.Children, alarm)
		}

		events = append(events, event)
	}
	return events
}

func (b *CalendarBuilder) summary(name string, age int) string {
	if b.FormatSummary != nil {
		return b.FormatSummary(name, age)
	}
	if age > 0 {
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
	return fmt.Sprintf(config.FallbackSummary, name)
}

// memberUID is stable across refreshes as long as the member's id, email,
// name and birthday are. Members listed without an id all carry 0, so the
// email and name keep them apart.
func memberUID(u directory.UserRecord, bday time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput,
		u.ID,
		strings.ToLower(strings.TrimSpace(u.Email)),
		strings.TrimSpace(u.FullName()),
		bday.Format(config.VCardDateISO),
		config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}
