package ui

import (
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	fynetheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/directory"
)

// profileView is the registration screen.
type profileView struct {
	app     *HermandadApp
	live    liveView
	form    directory.Form
	inputs  map[directory.FieldID]*widget.Entry
	avatar  *fyne.Container
	submit  *widget.Button
	content fyne.CanvasObject
}

func (app *HermandadApp) newProfileView() *profileView {
	v := &profileView{
		app:    app,
		live:   liveView{name: config.TKeyTabProfile},
		inputs: make(map[directory.FieldID]*widget.Entry, len(directory.Fields)),
		avatar: container.NewStack(),
	}
	v.setAvatar("")

	items := make([]fyne.CanvasObject, 0, len(directory.Fields))
	for _, d := range directory.Fields {
		obj, entry := newFieldInput(d)
		entry.PlaceHolder = app.GetMsg(d.LabelKey)
		id := d.ID
		entry.OnChanged = func(s string) {
			v.form.Set(id, s)
			if id == directory.FieldPhoto {
				v.setAvatar(s)
			}
		}
		v.inputs[id] = entry
		items = append(items, obj)
	}

	v.submit = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSaveUser), fynetheme.DocumentSaveIcon(), func() {
		app.submitProfile(v)
	})
	v.submit.Importance = widget.HighImportance

	title := widget.NewLabelWithStyle(app.GetMsg(config.TKeyProfileTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	body := container.NewVBox(
		title,
		container.NewCenter(v.avatar),
		container.NewVBox(items...),
		v.submit,
	)
	v.content = app.themedPage(&v.live, container.NewVScroll(container.NewPadded(body)))
	return v
}

// newFieldInput picks the widget for a descriptor. The second value is the
// underlying entry, used for text and callbacks.
func newFieldInput(d directory.FieldDescriptor) (fyne.CanvasObject, *widget.Entry) {
	switch {
	case d.Secret:
		e := widget.NewPasswordEntry()
		return e, e
	case d.ID == directory.FieldAge:
		e := NewDigitEntry()
		return e, &e.Entry
	case d.ID == directory.FieldBirthday:
		e := NewDateEntry()
		return e, &e.Entry
	case d.ID == directory.FieldDescription:
		e := widget.NewMultiLineEntry()
		e.Wrapping = fyne.TextWrapWord
		return e, e
	default:
		e := widget.NewEntry()
		return e, e
	}
}

// setAvatar previews the photo URL, or shows a placeholder when it is not a URL.
func (v *profileView) setAvatar(raw string) {
	v.avatar.Objects = []fyne.CanvasObject{
		v.app.photoFrame(&v.live, raw, config.AvatarSize, config.TKeyPhotoPlaceholder),
	}
	v.avatar.Refresh()
}

// clear empties every input and, through OnChanged, the form itself.
func (v *profileView) clear() {
	for _, e := range v.inputs {
		e.SetText("")
	}
	v.form.Reset()
}

// submitProfile sends a snapshot of the form off the UI thread and reports
// the outcome with one notice. The form survives any failure.
func (app *HermandadApp) submitProfile(v *profileView) {
	form := v.form
	v.submit.Disable()

	app.spawn(func() {
		err := app.registerUser(form)
		app.deliver(&v.live, func() {
			v.submit.Enable()
			if err == nil {
				v.clear()
			}
			title, msg := noticeFor(err)
			app.Notify(app.GetMsg(title), app.GetMsg(msg))
		})
	})
}

// registerUser validates locally so an invalid form never reaches the network.
func (app *HermandadApp) registerUser(form directory.Form) error {
	log := slog.With(config.LogKeyComponent, config.CompUI)

	if err := form.Validate(); err != nil {
		var verr *directory.ValidationError
		if errors.As(err, &verr) {
			log.Info(config.MsgValidationFail, config.LogKeyFields, verr.Fields)
		}
		return err
	}

	dir, err := app.currentDirectory()
	if err != nil {
		log.Error(config.MsgUserCreateFail, config.LogKeyError, err)
		return err
	}

	user, err := dir.CreateUser(app.Ctx, form)
	if err != nil {
		log.Error(config.MsgUserCreateFail, config.LogKeyError, err)
		return err
	}
	log.Info(config.MsgUserCreated, config.LogKeyID, user.ID)
	return nil
}
