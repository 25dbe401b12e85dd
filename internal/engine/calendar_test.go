package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/directory"
	"github.com/tartampluch/hermandad/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func decodeEvents(t *testing.T, data []byte) []*ical.Component {
	t.Helper()
	cal, err := ical.NewDecoder(strings.NewReader(string(data))).Decode()
	require.NoError(t, err)
	var events []*ical.Component
	for _, c := range cal.Children {
		if c.Name == ical.CompEvent {
			events = append(events, c)
		}
	}
	return events
}

func TestCalendarBuilder_ThreeYearsPerMember(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}}
	users := []directory.UserRecord{
		{ID: 1, Name: "Ana", Lastname: "Pérez", Birthday: "15-06-1990"},
		{ID: 2, Name: "Luis", Birthday: "malformed"},
	}

	data, stats, err := b.Build(users)
	require.NoError(t, err)

	assert.Equal(t, engine.CalendarStats{Members: 2, WithBirthday: 1, Events: 3}, stats)

	events := decodeEvents(t, data)
	require.Len(t, events, 3)
	assert.Contains(t, string(data), "SUMMARY:Cumpleaños: Ana Pérez (35)")

	uids := make(map[string]bool)
	for _, e := range events {
		uid, err := e.Props.Text(config.PropUID)
		require.NoError(t, err)
		uids[uid] = true
	}
	assert.Len(t, uids, 3, "Every yearly event needs its own UID")
}

func TestCalendarBuilder_NotBornYet(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}}
	data, stats, err := b.Build([]directory.UserRecord{{ID: 9, Name: "Bebé", Birthday: "05-05-2025"}})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Events, "No event for 2024")
	assert.Len(t, decodeEvents(t, data), 2)
}

func TestCalendarBuilder_StableUIDs(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}}
	users := []directory.UserRecord{{ID: 1, Name: "Ana", Birthday: "15-06-1990"}}

	first, _, err := b.Build(users)
	require.NoError(t, err)
	second, _, err := b.Build(users)
	require.NoError(t, err)

	uid := func(data []byte) string {
		v, err := decodeEvents(t, data)[0].Props.Text(config.PropUID)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, uid(first), uid(second))
}

func allUIDs(t *testing.T, data []byte) map[string]bool {
	t.Helper()
	uids := make(map[string]bool)
	for _, e := range decodeEvents(t, data) {
		uid, err := e.Props.Text(config.PropUID)
		require.NoError(t, err)
		uids[uid] = true
	}
	return uids
}

func TestCalendarBuilder_MembersWithoutIDKeepDistinctUIDs(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}}
	users := []directory.UserRecord{
		{Name: "Ana", Lastname: "Pérez", Email: "ana@example.com", Birthday: "15-06-1990"},
		{Name: "Luis", Lastname: "Soto", Email: "luis@example.com", Birthday: "15-06-1990"},
	}

	data, stats, err := b.Build(users)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Events)
	assert.Len(t, allUIDs(t, data), 6, "Same birthday and no id must not collide")
}

func TestCalendarBuilder_DuplicateRecordsKeepDistinctUIDs(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}}
	twin := directory.UserRecord{ID: 4, Name: "Ana", Email: "ana@example.com", Birthday: "15-06-1990"}

	data, _, err := b.Build([]directory.UserRecord{twin, twin, twin})
	require.NoError(t, err)
	assert.Len(t, allUIDs(t, data), 9)
}

func TestCalendarBuilder_AlarmAndFormatter(t *testing.T) {
	b := &engine.CalendarBuilder{
		Clock:         MockClock{CurrentTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		Alarm:         true,
		FormatSummary: func(name string, age int) string { return "Feliz cumple " + name },
	}

	data, _, err := b.Build([]directory.UserRecord{{ID: 1, Name: "Ana", Birthday: "15-06-1990"}})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, "BEGIN:VALARM")
	assert.Contains(t, s, "TRIGGER:"+config.DefaultAlarmTrigger)
	assert.Contains(t, s, "SUMMARY:Feliz cumple Ana")
}

func TestCalendarBuilder_EmptyStub(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: engine.RealClock{}}
	data, stats, err := b.Build(nil)
	require.NoError(t, err)

	assert.Equal(t, config.StubVCalendar, string(data))
	assert.Zero(t, stats.Events)
}
