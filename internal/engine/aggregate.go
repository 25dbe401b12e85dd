// Package engine derives display data from the member directory: ages,
// birthdays of the month, sex counts and the birthday calendar feed.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/directory"
)

// ErrBirthdayFormat is returned for any birthday not in DD-MM-YYYY form.
var ErrBirthdayFormat = errors.New(config.ErrBirthdayFormat)

// SexCount holds the result of CountBySex.
type SexCount struct {
	Male   int
	Female int
}

// MemberBirthday pairs a member with the age they have today.
type MemberBirthday struct {
	User     directory.UserRecord
	Birthday time.Time
	Age      int
}

// Summary is everything the consolidated screen shows.
type Summary struct {
	Total     int
	Counts    SexCount
	Month     time.Month
	Birthdays []MemberBirthday
}

// ParseBirthday reads text strictly as DD-MM-YYYY. Out-of-range days or
// months fail instead of rolling over.
func ParseBirthday(text string) (time.Time, error) {
	t, err := time.Parse(config.BirthdayLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBirthdayFormat, text)
	}
	return t, nil
}

// ComputeAge returns the whole years between birthday and today.
// Only the calendar date of both values is considered.
func ComputeAge(birthday, today time.Time) int {
	age := today.Year() - birthday.Year()
	if today.Month() < birthday.Month() ||
		(today.Month() == birthday.Month() && today.Day() < birthday.Day()) {
		age--
	}
	return age
}

// BirthdaysInMonth keeps the users born in month, any year, in input order.
// Users whose birthday cannot be parsed are left out.
func BirthdaysInMonth(users []directory.UserRecord, month time.Month) []directory.UserRecord {
	out := make([]directory.UserRecord, 0)
	for _, u := range users {
		bday, ok := birthdayOf(u)
		if ok && bday.Month() == month {
			out = append(out, u)
		}
	}
	return out
}

// CountBySex counts exact "M" and "F" codes. Any other value, including the
// empty string, lands in neither bucket.
func CountBySex(users []directory.UserRecord) SexCount {
	var c SexCount
	for _, u := range users {
		switch u.Sex {
		case config.SexMale:
			c.Male++
		case config.SexFemale:
			c.Female++
		}
	}
	return c
}

// Summarize builds the consolidated view for the month of today.
func Summarize(users []directory.UserRecord, today time.Time) Summary {
	s := Summary{
		Total:     len(users),
		Counts:    CountBySex(users),
		Month:     today.Month(),
		Birthdays: make([]MemberBirthday, 0),
	}
	for _, u := range BirthdaysInMonth(users, today.Month()) {
		bday, _ := birthdayOf(u)
		s.Birthdays = append(s.Birthdays, MemberBirthday{
			User:     u,
			Birthday: bday,
			Age:      ComputeAge(bday, today),
		})
	}
	return s
}

func birthdayOf(u directory.UserRecord) (time.Time, bool) {
	if u.Birthday == "" {
		return time.Time{}, false
	}
	bday, err := ParseBirthday(u.Birthday)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyID, u.ID,
			config.LogKeyValue, u.Birthday)
		return time.Time{}, false
	}
	return bday, true
}
