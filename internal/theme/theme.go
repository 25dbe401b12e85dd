// Package theme holds the process-wide background color selection.
package theme

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"sync"

	"github.com/tartampluch/hermandad/internal/config"
)

// Key names one entry of the closed palette.
type Key string

const (
	AmarilloClaro Key = "amarilloClaro"
	Blanco        Key = "blanco"
	Naranja1      Key = "naranja1"
	Naranja2      Key = "naranja2"
	GrisClaro     Key = "grisClaro"
	VerdeMenta    Key = "verdeMenta"
)

// DefaultKey is the selection every launch starts with.
const DefaultKey = Blanco

// Entry is one palette option as shown by the settings screen.
type Entry struct {
	Key      Key
	Color    string // #RRGGBB
	LabelKey string // translation key
}

// palette is ordered as presented to the user.
var palette = []Entry{
	{AmarilloClaro, "#FFF7D6", config.TKeyColorAmarilloClaro},
	{Blanco, "#FFFFFF", config.TKeyColorBlanco},
	{Naranja1, "#F59E0B", config.TKeyColorNaranja1},
	{Naranja2, "#F53C0B", config.TKeyColorNaranja2},
	{GrisClaro, "#C0C4C9", config.TKeyColorGrisClaro},
	{VerdeMenta, "#3CB371", config.TKeyColorVerdeMenta},
}

// Palette returns a copy of the selectable entries.
func Palette() []Entry {
	out := make([]Entry, len(palette))
	copy(out, palette)
	return out
}

// Lookup resolves a key against the palette.
func Lookup(k Key) (Entry, bool) {
	for _, e := range palette {
		if e.Key == k {
			return e, true
		}
	}
	return Entry{}, false
}

// Selection is the current theme. Color is always palette[Key].
type Selection struct {
	Key   Key
	Color string
}

// Store is the shared theme state. The zero value is not usable; call NewStore.
type Store struct {
	mu        sync.Mutex
	current   Selection
	listeners map[int]func(Selection)
	order     []int
	nextID    int
}

// NewStore returns a store holding the default selection.
func NewStore() *Store {
	def, _ := Lookup(DefaultKey)
	return &Store{
		current:   Selection{Key: def.Key, Color: def.Color},
		listeners: make(map[int]func(Selection)),
	}
}

// Current returns the selection in effect.
func (s *Store) Current() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Color returns the color in effect.
func (s *Store) Color() string {
	return s.Current().Color
}

// Select switches to the palette entry named by k. Keys outside the
// palette are ignored. Subscribers have been notified when Select returns.
func (s *Store) Select(k Key) {
	entry, ok := Lookup(k)
	if !ok {
		slog.Debug(config.MsgThemeUnknown,
			config.LogKeyComponent, config.CompTheme,
			config.LogKeyTheme, string(k))
		return
	}

	s.mu.Lock()
	s.current = Selection{Key: entry.Key, Color: entry.Color}
	sel := s.current
	fns := make([]func(Selection), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	slog.Info(config.MsgThemeChanged,
		config.LogKeyComponent, config.CompTheme,
		config.LogKeyTheme, string(sel.Key))

	// Listeners run outside the lock so they may read the store.
	for _, fn := range fns {
		fn(sel)
	}
}

// Subscribe registers fn for every future change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Selection)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// ParseHex converts a #RRGGBB string into an opaque color.
func ParseHex(hex string) (color.NRGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("%s: %q", config.ErrInvalidHexColor, hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%s: %w", config.ErrInvalidHexColor, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// NRGBA returns the selection's color for canvas objects, white if malformed.
func (sel Selection) NRGBA() color.NRGBA {
	c, err := ParseHex(sel.Color)
	if err != nil {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return c
}
