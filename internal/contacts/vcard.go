package contacts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/hermandad/internal/config"
)

// ErrNoCards reports a non-blank stream that held no BEGIN:VCARD at all.
var ErrNoCards = errors.New(config.ErrVCardEmpty)

// contentTracker remembers whether anything other than whitespace went through.
// The decoder silently drops lines it cannot parse, so plain text would
// otherwise look like an empty file.
type contentTracker struct {
	r       io.Reader
	content bool
}

func (t *contentTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if !t.content && len(bytes.TrimSpace(p[:n])) > 0 {
		t.content = true
	}
	return n, err
}

// ReadVCard decodes every card of r into contact records.
// Cards without a UID receive one from newID. Malformed cards are skipped.
// A blank stream yields no records and no error; a non-blank one without
// any card yields ErrNoCards.
func ReadVCard(r io.Reader, newID func() string) ([]ContactRecord, error) {
	src := &contentTracker{r: r}
	dec := vcard.NewDecoder(src)
	var out []ContactRecord

	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A broken stream cannot be resynchronised; keep what we have.
			if len(out) == 0 {
				return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyError, err)
			break
		}
		out = append(out, fromCard(card, newID))
	}

	if len(out) == 0 && src.content {
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, ErrNoCards)
	}
	return out, nil
}

// WriteVCard encodes records as vCard 4.0.
func WriteVCard(w io.Writer, records []ContactRecord) error {
	enc := vcard.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(toCard(rec)); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

func fromCard(card vcard.Card, newID func() string) ContactRecord {
	rec := ContactRecord{
		ID:       card.Value(vcard.FieldUID),
		Company:  card.Value(vcard.FieldOrganization),
		Phone:    card.PreferredValue(vcard.FieldTelephone),
		Email:    card.PreferredValue(vcard.FieldEmail),
		Note:     card.Value(vcard.FieldNote),
		PhotoURI: card.Value(vcard.FieldPhoto),
		Tag:      strings.Join(card.Categories(), ","),
	}
	if rec.ID == "" && newID != nil {
		rec.ID = newID()
	}

	// Name Strategy: N (Structured) > FN (Formatted, first word is the given name)
	if n := card.Name(); n != nil && (n.GivenName != "" || n.FamilyName != "") {
		rec.FirstName = n.GivenName
		rec.LastName = n.FamilyName
	} else if fn := card.Value(vcard.FieldFormattedName); fn != "" {
		first, last, _ := strings.Cut(fn, " ")
		rec.FirstName, rec.LastName = first, last
	}

	if adr := card.Address(); adr != nil {
		rec.Address = adr.StreetAddress
	}

	if raw := card.Value(vcard.FieldBirthday); raw != "" {
		if bday, ok := parseVCardDate(raw); ok {
			rec.Birthday = &bday
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyValue, raw)
		}
	}
	return rec
}

func toCard(rec ContactRecord) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldUID, rec.ID)
	card.SetValue(vcard.FieldFormattedName, rec.DisplayName())
	card.AddName(&vcard.Name{GivenName: rec.FirstName, FamilyName: rec.LastName})

	optional := []struct{ key, value string }{
		{vcard.FieldOrganization, rec.Company},
		{vcard.FieldTelephone, rec.Phone},
		{vcard.FieldEmail, rec.Email},
		{vcard.FieldNote, rec.Note},
		{vcard.FieldPhoto, rec.PhotoURI},
	}
	for _, o := range optional {
		if o.value != "" {
			card.SetValue(o.key, o.value)
		}
	}
	if rec.Tag != "" {
		card.SetCategories(strings.Split(rec.Tag, ","))
	}
	if rec.Address != "" {
		card.AddAddress(&vcard.Address{StreetAddress: rec.Address})
	}
	if rec.Birthday != nil {
		card.SetValue(vcard.FieldBirthday, formatVCardDate(*rec.Birthday))
	}
	return card
}

func parseVCardDate(v string) (time.Time, bool) {
	for _, layout := range []string{config.VCardDateISO, "20060102", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(config.VCardDateNoY, v); err == nil {
		return time.Date(0, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func formatVCardDate(t time.Time) string {
	if t.Year() == 0 {
		return t.Format(config.VCardDateNoY)
	}
	return t.Format(config.VCardDateISO)
}
