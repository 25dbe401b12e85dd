package ui

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/theme"
)

// liveView is what every tab shares: a background painted from the theme
// store and a closed flag that async results check before touching widgets.
type liveView struct {
	name       string
	background *canvas.Rectangle
	closed     atomic.Bool

	mu      sync.Mutex
	cancels []func()
}

// onClose registers fn to run once when the view is torn down.
func (v *liveView) onClose(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancels = append(v.cancels, fn)
}

func (v *liveView) close() {
	if v.closed.Swap(true) {
		return
	}
	v.mu.Lock()
	fns := v.cancels
	v.cancels = nil
	v.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// themedPage wraps content in a rectangle that follows the theme store
// until the view closes.
func (app *HermandadApp) themedPage(v *liveView, content fyne.CanvasObject) fyne.CanvasObject {
	v.background = canvas.NewRectangle(app.Theme.Current().NRGBA())
	v.onClose(app.Theme.Subscribe(func(sel theme.Selection) {
		v.background.FillColor = sel.NRGBA()
		v.background.Refresh()
	}))
	return container.NewStack(v.background, content)
}

// deliver runs fn on the UI thread unless v was closed in the meantime.
func (app *HermandadApp) deliver(v *liveView, fn func()) {
	app.runOnMain(func() {
		if v.closed.Load() {
			slog.Debug(config.MsgResultDropped,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyView, v.name)
			return
		}
		fn()
	})
}
