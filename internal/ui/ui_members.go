package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	fynetheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/directory"
)

// membersView lists every registered member in server order.
type membersView struct {
	app     *HermandadApp
	live    liveView
	users   []directory.UserRecord
	status  *widget.Label
	list    *widget.List
	reload  *widget.Button
	content fyne.CanvasObject
}

// Row template layout, as built by container.NewBorder: the centre column
// first, then the left thumbnail slot.
const (
	rowLabels = 0
	rowThumb  = 1
)

// newMembersView builds the member list tab.
//
// The list is rendered lazily by widget.List: rows are recycled while
// scrolling, so fillRow must fully overwrite a row, including its photo.
// Reload keeps the current rows on screen until the new result arrives
// through performSync, which also feeds the consolidated tab.
func (app *HermandadApp) newMembersView() *membersView {
	v := &membersView{
		app:    app,
		live:   liveView{name: config.TKeyTabMembers},
		status: widget.NewLabelWithStyle(app.GetMsg(config.TKeyLoading), fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	}

	v.list = widget.NewList(
		func() int { return len(v.users) },
		func() fyne.CanvasObject {
			name := widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
			email := widget.NewLabel("")
			email.Truncation = fyne.TextTruncateEllipsis
			thumb := container.NewStack()
			return container.NewBorder(nil, nil, thumb, nil, container.NewVBox(name, email))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(v.users) {
				return
			}
			v.fillRow(v.users[id], obj)
		},
	)

	// --- Reload ---
	v.reload = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnReload), fynetheme.ViewRefreshIcon(), func() {
		v.status.SetText(app.GetMsg(config.TKeyLoading))
		v.status.Show()
		app.spawn(func() { app.performSync(true) })
	})

	title := widget.NewLabelWithStyle(app.GetMsg(config.TKeyMembersTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	header := container.NewVBox(title, v.status)
	v.content = app.themedPage(&v.live, container.NewBorder(header, v.reload, nil, nil, v.list))
	return v
}

// fillRow writes u into a recycled row: photo or "no photo" placeholder on
// the left, name and email beside it.
func (v *membersView) fillRow(u directory.UserRecord, obj fyne.CanvasObject) {
	row, ok := obj.(*fyne.Container)
	if !ok || len(row.Objects) <= rowThumb {
		return
	}
	labels, okL := row.Objects[rowLabels].(*fyne.Container)
	thumb, okT := row.Objects[rowThumb].(*fyne.Container)
	if !okL || !okT || len(labels.Objects) < 2 {
		return
	}

	labels.Objects[0].(*widget.Label).SetText(u.FullName())
	labels.Objects[1].(*widget.Label).SetText(u.Email)

	thumb.Objects = []fyne.CanvasObject{
		v.app.photoFrame(&v.live, u.Photo, config.ThumbSize, config.TKeyNoPhoto),
	}
	thumb.Refresh()
}

// show replaces the list. On error the previous rows stay visible.
func (v *membersView) show(users []directory.UserRecord, err error) {
	switch {
	case err != nil:
		v.status.SetText(v.app.GetMsg(config.TKeyNoticeLoad))
		v.status.Show()
		return
	case len(users) == 0:
		v.status.SetText(v.app.GetMsg(config.TKeyNoMembers))
		v.status.Show()
	default:
		v.status.Hide()
	}
	v.users = users
	v.list.Refresh()
}
