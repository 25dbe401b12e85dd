package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/storage"
	fynetheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/go-resty/resty/v2"
	"github.com/tartampluch/hermandad/internal/config"
)

// photoURI accepts http(s) URLs only. Members' photos are remote links,
// anything else is shown as the placeholder.
func photoURI(raw string) (fyne.URI, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	uri, err := storage.ParseURI(raw)
	if err != nil {
		return nil, false
	}
	if uri.Scheme() != config.SchemeHTTP && uri.Scheme() != config.SchemeHTTPS {
		return nil, false
	}
	return uri, true
}

// photoFrame renders a square of side points for raw.
//
// A usable URL yields a *canvas.Image straight away, empty until the bytes
// arrive from FetchPhoto on a worker goroutine. canvas.NewImageFromURI is not
// used because it downloads on the calling goroutine, the UI thread here.
// Results are cached per URL, so recycled list rows do not download again.
// Without a URL, a rounded placeholder with the captionKey text is returned.
func (app *HermandadApp) photoFrame(v *liveView, raw string, side float32, captionKey string) fyne.CanvasObject {
	size := fyne.NewSize(side, side)

	uri, ok := photoURI(raw)
	if !ok {
		icon := widget.NewIcon(fynetheme.AccountIcon())
		bg := canvas.NewRectangle(fynetheme.Color(fynetheme.ColorNameInputBackground))
		bg.SetMinSize(size)
		bg.CornerRadius = side / 2
		caption := widget.NewLabelWithStyle(app.GetMsg(captionKey), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
		return container.NewVBox(container.NewStack(bg, icon), caption)
	}

	img := canvas.NewImageFromResource(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(size)
	app.loadPhoto(v, uri, img)
	return img
}

func (app *HermandadApp) loadPhoto(v *liveView, uri fyne.URI, img *canvas.Image) {
	key := uri.String()
	if cached, ok := app.photos.Load(key); ok {
		img.Resource = cached.(fyne.Resource)
		img.Refresh()
		return
	}

	app.spawn(func() {
		res, err := app.FetchPhoto(uri)
		if err != nil {
			slog.Debug(config.MsgPhotoFailed,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyURL, key,
				config.LogKeyError, err)
			return
		}
		app.photos.Store(key, res)
		app.deliver(v, func() {
			img.Resource = res
			img.Refresh()
		})
	})
}

// newPhotoFetcher downloads image bytes with the same timeout as the
// directory and a hard size cap.
func newPhotoFetcher() func(fyne.URI) (fyne.Resource, error) {
	rc := resty.New().
		SetTimeout(config.HTTPTimeout).
		SetHeader(config.HeaderUserAgent, config.UserAgent).
		SetResponseBodyLimit(config.MaxPhotoSize)

	return func(uri fyne.URI) (fyne.Resource, error) {
		resp, err := rc.R().Get(uri.String())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrPhotoFetch, err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%s: %d", config.ErrPhotoFetch, resp.StatusCode())
		}
		return fyne.NewStaticResource(uri.Name(), resp.Body()), nil
	}
}
