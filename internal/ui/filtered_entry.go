package ui

import (
	"unicode"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// FilteredEntry is an Entry that drops every rune the allow func rejects.
// Pasted text is filtered the same way.
type FilteredEntry struct {
	widget.Entry
	allow    func(rune) bool
	keyboard mobile.KeyboardType
}

// NewDigitEntry accepts 0-9 only. Used for age, port and interval fields.
func NewDigitEntry() *FilteredEntry {
	return newFilteredEntry(unicode.IsDigit, mobile.NumberKeyboard)
}

// NewDateEntry accepts digits and '-' for DD-MM-YYYY input.
func NewDateEntry() *FilteredEntry {
	return newFilteredEntry(func(r rune) bool {
		return unicode.IsDigit(r) || r == '-'
	}, mobile.DefaultKeyboard)
}

func newFilteredEntry(allow func(rune) bool, kb mobile.KeyboardType) *FilteredEntry {
	e := &FilteredEntry{allow: allow, keyboard: kb}
	e.ExtendBaseWidget(e)
	return e
}

// TypedRune overrides the default behavior to filter input.
func (e *FilteredEntry) TypedRune(r rune) {
	if e.allow(r) {
		e.Entry.TypedRune(r)
	}
}

// TypedShortcut filters clipboard content before pasting it.
func (e *FilteredEntry) TypedShortcut(s fyne.Shortcut) {
	paste, ok := s.(*fyne.ShortcutPaste)
	if !ok {
		e.Entry.TypedShortcut(s)
		return
	}
	for _, r := range paste.Clipboard.Content() {
		e.TypedRune(r)
	}
}

// Keyboard shows the numeric keypad on mobile where it fits.
func (e *FilteredEntry) Keyboard() mobile.KeyboardType {
	return e.keyboard
}
