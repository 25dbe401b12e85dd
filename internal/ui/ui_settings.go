package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	fynetheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/contacts"
	"github.com/tartampluch/hermandad/internal/theme"
)

// settingsView holds the widgets read back on save.
type settingsView struct {
	app           *HermandadApp
	live          liveView
	palette       map[theme.Key]*widget.Button
	langSelect    *widget.Select
	urlEntry      *widget.Entry
	entryPort     *FilteredEntry
	entryInterval *FilteredEntry
	contactsLabel *widget.Label
	btnSave       *widget.Button
	content       fyne.CanvasObject
}

// newSettingsView builds the settings tab.
//
// Palette swatches apply immediately through the theme store, with no Save
// needed. Every other field is read back by save. Values come from the
// preferences, except where an environment override is active: the override
// is shown and, for the API URL, the entry is disabled.
func (app *HermandadApp) newSettingsView() *settingsView {
	v := &settingsView{
		app:     app,
		live:    liveView{name: config.TKeyTabSettings},
		palette: make(map[theme.Key]*widget.Button),
	}

	// --- 1. Background palette ---
	swatches := make([]fyne.CanvasObject, 0, len(theme.Palette()))
	for _, entry := range theme.Palette() {
		key := entry.Key
		btn := widget.NewButton(app.GetMsg(entry.LabelKey), func() { app.Theme.Select(key) })
		v.palette[key] = btn
		swatches = append(swatches, btn)
	}
	v.highlight(app.Theme.Current())
	v.live.onClose(app.Theme.Subscribe(v.highlight))

	paletteCard := widget.NewCard(app.GetMsg(config.TKeyLblBackground), "",
		container.NewGridWithColumns(config.LayoutColumnsDouble, swatches...))

	// --- 2. General ---
	v.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	v.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	v.urlEntry = widget.NewEntry()
	v.urlEntry.SetText(app.baseURL())
	v.urlEntry.PlaceHolder = config.PlaceholderURL
	if app.Overrides.APIBaseURL != "" {
		v.urlEntry.Disable()
	}

	// Port: strict validation, blocks saving.
	v.entryPort = NewDigitEntry()
	v.entryPort.SetText(config.Pick(app.Overrides.FeedPort,
		app.Preferences.String(config.PrefFeedPort), config.DefaultFeedPort))
	v.entryPort.Validator = app.validatePort

	// Interval: empty or zero disables periodic refresh.
	v.entryInterval = NewDigitEntry()
	v.entryInterval.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))

	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), v.langSelect)

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblAPIURL), v.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpAPIURL)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), v.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), v.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "",
		widget.NewForm(itemLang, itemURL, itemPort, itemInterval))

	// --- 3. Local contacts ---
	v.contactsLabel = widget.NewLabel("")
	v.setContactsCount(app.Contacts.Len())
	v.live.onClose(app.Contacts.Subscribe(func(n int) {
		app.deliver(&v.live, func() { v.setContactsCount(n) })
	}))

	btnImport := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnImport), fynetheme.FolderOpenIcon(), v.showImport)
	btnExport := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnExport), fynetheme.DownloadIcon(), v.showExport)
	contactsCard := widget.NewCard(app.GetMsg(config.TKeyLblContacts), "", container.NewVBox(
		v.contactsLabel,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnImport, btnExport),
	))

	// --- Actions ---
	v.btnSave = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), fynetheme.DocumentSaveIcon(), func() {
		if err := v.entryPort.Validate(); err != nil {
			app.Notify(app.GetMsg(config.TKeyTitleError), err.Error())
			return
		}
		v.save()
	})
	v.btnSave.Importance = widget.HighImportance

	footer := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footer.Alignment = fyne.TextAlignCenter
	footer.TextStyle = fyne.TextStyle{Italic: true}

	title := widget.NewLabelWithStyle(app.GetMsg(config.TKeySettingsTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	body := container.NewVBox(title, paletteCard, generalCard, contactsCard, v.btnSave, footer)
	v.content = app.themedPage(&v.live, container.NewVScroll(container.NewPadded(body)))
	return v
}

// highlight marks the swatch of the current selection.
func (v *settingsView) highlight(sel theme.Selection) {
	for key, btn := range v.palette {
		want := widget.MediumImportance
		if key == sel.Key {
			want = widget.HighImportance
		}
		if btn.Importance != want {
			btn.Importance = want
			btn.Refresh()
		}
	}
}

func (v *settingsView) setContactsCount(n int) {
	v.contactsLabel.SetText(v.app.GetMsgWith(config.TKeyContactsCount, map[string]any{"Count": n}))
}

// validatePort accepts 1..65535 with localized messages.
func (app *HermandadApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}
	if port < config.MinPort || port > config.MaxPort {
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
	return nil
}

// save persists the preferences. A new API URL is dialed before it is kept;
// a new language remounts every screen. The feed port applies on restart.
func (v *settingsView) save() {
	app := v.app
	log := slog.With(config.LogKeyComponent, config.CompUISet)
	log.Info(config.MsgSettingsSaved)

	if app.Overrides.APIBaseURL == "" {
		url := strings.TrimSpace(v.urlEntry.Text)
		if url != app.baseURL() {
			if _, err := app.connect(url); err != nil {
				log.Error(config.ErrInvalidURL, config.LogKeyURL, url, config.LogKeyError, err)
				app.Notify(app.GetMsg(config.TKeyTitleError), err.Error())
				return
			}
			app.Preferences.SetString(config.PrefAPIBaseURL, url)
		}
	}

	app.Preferences.SetString(config.PrefFeedPort, v.entryPort.Text)

	text := v.entryInterval.Text
	if text == "" || text == "0" {
		app.Preferences.SetInt(config.PrefInterval, config.DisabledInterval)
	} else if i, err := strconv.Atoi(text); err == nil {
		app.Preferences.SetInt(config.PrefInterval, i)
	}

	langChanged := v.langSelect.Selected != "" &&
		v.langSelect.Selected != app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	if v.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, v.langSelect.Selected)
	}

	if langChanged {
		app.UpdateLocalizer()
		app.mountScreens()
	}
	app.Notify(app.GetMsg(config.TKeyTitleNotice), app.GetMsg(config.TKeyNoticeSettings))
	app.spawn(func() { app.performSync(false) })
}

func (v *settingsView) showImport() {
	app := v.app
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			app.Notify(app.GetMsg(config.TKeyTitleError), app.GetMsg(config.TKeyNoticeFileErr))
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		app.importAndNotify(r)
	}, app.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
	d.Show()
}

func (v *settingsView) showExport() {
	app := v.app
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			app.Notify(app.GetMsg(config.TKeyTitleError), app.GetMsg(config.TKeyNoticeFileErr))
			return
		}
		if w == nil {
			return
		}
		defer w.Close()

		if err := app.exportContacts(w); err != nil {
			app.Notify(app.GetMsg(config.TKeyTitleError), app.GetMsg(config.TKeyNoticeFileErr))
		}
	}, app.Window)
	d.SetFileName(config.ExportFileName)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
	d.Show()
}

// importContacts appends every card of r to the contacts store.
func (app *HermandadApp) importContacts(r io.Reader) (int, error) {
	recs, err := contacts.ReadVCard(r, app.NewID)
	if err != nil {
		slog.Error(config.ErrVCardParse,
			config.LogKeyComponent, config.CompUISet,
			config.LogKeyError, err)
		return 0, err
	}
	for _, rec := range recs {
		app.Contacts.Add(rec)
	}
	slog.Info(config.MsgContactsImport,
		config.LogKeyComponent, config.CompUISet,
		config.LogKeyCount, len(recs))
	return len(recs), nil
}

// importAndNotify imports r and reports the count, or the file error notice
// when r holds no readable card.
func (app *HermandadApp) importAndNotify(r io.Reader) {
	n, err := app.importContacts(r)
	if err != nil {
		app.Notify(app.GetMsg(config.TKeyTitleError), app.GetMsg(config.TKeyNoticeFileErr))
		return
	}
	app.Notify(app.GetMsg(config.TKeyTitleNotice),
		app.GetMsgWith(config.TKeyNoticeImport, map[string]any{"Count": n}))
}

// exportContacts writes the whole store as vCard 4.0.
func (app *HermandadApp) exportContacts(w io.Writer) error {
	recs := app.Contacts.List()
	if err := contacts.WriteVCard(w, recs); err != nil {
		slog.Error(config.ErrVCardEncode,
			config.LogKeyComponent, config.CompUISet,
			config.LogKeyError, err)
		return err
	}
	slog.Info(config.MsgContactsExport,
		config.LogKeyComponent, config.CompUISet,
		config.LogKeyCount, len(recs))
	return nil
}
