package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/engine"
)

// summaryView shows the sex counts and this month's birthdays.
type summaryView struct {
	app       *HermandadApp
	live      liveView
	male      *widget.Label
	female    *widget.Label
	birthdays *fyne.Container
	content   fyne.CanvasObject
}

// newSummaryView builds the consolidated tab.
//
// It holds no data of its own: performSync hands it an engine.Summary
// computed from the same listing the members tab shows, with ages taken
// against app.Clock. Until the first load it shows zero counts and a
// loading line.
func (app *HermandadApp) newSummaryView() *summaryView {
	v := &summaryView{
		app:       app,
		live:      liveView{name: config.TKeyTabSummary},
		male:      widget.NewLabel(""),
		female:    widget.NewLabel(""),
		birthdays: container.NewVBox(widget.NewLabel(app.GetMsg(config.TKeyLoading))),
	}
	v.setCounts(engine.SexCount{})

	// --- Counts and birthdays of the month ---
	counts := widget.NewCard("", "", container.NewGridWithColumns(config.LayoutColumnsDouble, v.male, v.female))
	month := widget.NewCard(app.GetMsg(config.TKeyBirthdaysMonth), "", v.birthdays)
	title := widget.NewLabelWithStyle(app.GetMsg(config.TKeySummaryTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	body := container.NewVBox(title, counts, month)
	v.content = app.themedPage(&v.live, container.NewVScroll(container.NewPadded(body)))
	return v
}

// setCounts renders "<label>: <n>" for both sexes. Records with any other
// sex value count toward neither.
func (v *summaryView) setCounts(c engine.SexCount) {
	v.male.SetText(fmt.Sprintf("%s: %d", v.app.GetMsg(config.TKeyLblMale), c.Male))
	v.female.SetText(fmt.Sprintf("%s: %d", v.app.GetMsg(config.TKeyLblFemale), c.Female))
}

// show renders s. A load error keeps the last counts and says so in the list.
func (v *summaryView) show(s engine.Summary, err error) {
	if err != nil {
		v.birthdays.Objects = []fyne.CanvasObject{widget.NewLabel(v.app.GetMsg(config.TKeyNoticeLoad))}
		v.birthdays.Refresh()
		return
	}

	v.setCounts(s.Counts)

	// One row per member, in listing order: bold name, then birthday and
	// current age as of today.
	rows := make([]fyne.CanvasObject, 0, len(s.Birthdays))
	for _, mb := range s.Birthdays {
		name := widget.NewLabelWithStyle(mb.User.FullName(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		line := widget.NewLabel(v.app.GetMsgWith(config.TKeyAgeLine, map[string]any{
			"Birthday": mb.Birthday.Format(config.DateFormatDisplay),
			"Age":      mb.Age,
		}))
		rows = append(rows, container.NewVBox(name, line))
	}
	if len(rows) == 0 {
		rows = append(rows, widget.NewLabel(v.app.GetMsg(config.TKeyNoBirthdays)))
	}
	v.birthdays.Objects = rows
	v.birthdays.Refresh()
}
