package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/contacts"
	"github.com/tartampluch/hermandad/internal/directory"
	"github.com/tartampluch/hermandad/internal/server"
	"github.com/tartampluch/hermandad/internal/theme"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockDirectory simulates the remote API using testify/mock.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) CreateUser(ctx context.Context, form directory.Form) (directory.UserRecord, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(directory.UserRecord), args.Error(1)
}

func (m *MockDirectory) ListUsers(ctx context.Context) ([]directory.UserRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.UserRecord), args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var errOffline = errors.New("offline")

type notice struct {
	title   string
	message string
}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

// setupTestApp builds a headless app whose async work runs inline.
func setupTestApp(t *testing.T) (*HermandadApp, *MockDirectory, *[]notice) {
	a := test.NewApp()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewHermandadApp(a, ctx, server.NewFeedServer("0"), config.Overrides{})

	dir := new(MockDirectory)
	app.Dial = func(string) (directory.Directory, error) { return dir, nil }
	app.Clock = MockClock{CurrentTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	app.NewID = func() string { return "generated-id" }
	app.runOnMain = func(fn func()) { fn() }
	app.spawn = func(fn func()) { fn() }
	app.FetchPhoto = func(fyne.URI) (fyne.Resource, error) { return nil, errOffline }

	notices := &[]notice{}
	app.Notify = func(title, message string) {
		*notices = append(*notices, notice{title: title, message: message})
	}

	app.Window = a.NewWindow(config.AppName)
	app.SetupI18n()
	return app, dir, notices
}

func members() []directory.UserRecord {
	return []directory.UserRecord{
		{ID: 1, Name: "Ana", Lastname: "García", Email: "ana@example.com", Birthday: "15-03-1990", Sex: "F"},
		{ID: 2, Name: "Luis", Lastname: "Pérez", Email: "luis@example.com", Birthday: "02-07-1985", Sex: "M"},
		{ID: 3, Name: "Marta", Lastname: "Ruiz", Email: "marta@example.com", Birthday: "31-03-2000", Sex: "F", Photo: "https://example.com/m.png"},
	}
}

func fillProfile(v *profileView, values map[directory.FieldID]string) {
	for id, s := range values {
		v.inputs[id].SetText(s)
	}
}

func validProfile() map[directory.FieldID]string {
	return map[directory.FieldID]string{
		directory.FieldName:     "Ana",
		directory.FieldLastname: "García",
		directory.FieldEmail:    "ana@example.com",
		directory.FieldPassword: "secreto",
		directory.FieldBirthday: "15-03-1990",
		directory.FieldAge:      "34",
		directory.FieldSex:      "F",
	}
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _, _ := setupTestApp(t)

	// Spanish is the default.
	assert.Equal(t, "Configuración", app.GetMsg(config.TKeyTabSettings))

	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()
	assert.Equal(t, "Settings", app.GetMsg(config.TKeyTabSettings))

	// Unknown keys come back verbatim.
	assert.Equal(t, "no_such_key", app.GetMsg("no_such_key"))
}

func TestLocalization_DefaultLanguageFirst(t *testing.T) {
	app, _, _ := setupTestApp(t)
	require.NotEmpty(t, app.SupportedLanguages)
	assert.Equal(t, config.DefaultLanguage, app.SupportedLanguages[0])
	assert.ElementsMatch(t, config.SupportedLanguages, app.SupportedLanguages)
}

func TestLocalization_SummaryFormatter(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()

	formatter := app.buildSummaryFormatter()

	res := formatter("Ana", 34)
	assert.Contains(t, res, "Ana")
	assert.Contains(t, res, "34")

	res = formatter("Bebé", 0)
	assert.Contains(t, res, "Bebé")
	assert.NotContains(t, res, "(0)")
}

func TestLocalization_SummaryFormatterWithoutLocalizer(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.Localizer = nil

	formatter := app.buildSummaryFormatter()
	assert.Equal(t, fmt.Sprintf(config.FallbackSummaryAge, "Ana", 34), formatter("Ana", 34))
	assert.Equal(t, fmt.Sprintf(config.FallbackSummary, "Ana"), formatter("Ana", 0))
}

// -----------------------------------------------------------------------------
// Registration Tests
// -----------------------------------------------------------------------------

func TestProfile_MissingRequiredSendsNothing(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	v := app.newProfileView()

	fillProfile(v, map[directory.FieldID]string{directory.FieldName: "Ana"})
	test.Tap(v.submit)

	dir.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeRequired), (*notices)[0].message)
	assert.Equal(t, "Ana", v.form.Name, "form must survive a rejected submit")
	assert.False(t, v.submit.Disabled())
}

func TestProfile_MalformedBirthdaySendsNothing(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	v := app.newProfileView()

	values := validProfile()
	values[directory.FieldBirthday] = "1990-03-15"
	fillProfile(v, values)
	test.Tap(v.submit)

	dir.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeInvalid), (*notices)[0].message)
}

func TestProfile_SuccessClearsForm(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	v := app.newProfileView()

	dir.On("CreateUser", mock.Anything, mock.MatchedBy(func(f directory.Form) bool {
		return f.Name == "Ana" && f.Password == "secreto" && f.Age == "34"
	})).Return(directory.UserRecord{ID: 7, Name: "Ana"}, nil).Once()

	fillProfile(v, validProfile())
	test.Tap(v.submit)

	dir.AssertExpectations(t)
	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyTitleNotice), (*notices)[0].title)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeSaved), (*notices)[0].message)
	assert.Equal(t, directory.Form{}, v.form)
	for id, e := range v.inputs {
		assert.Emptyf(t, e.Text, "input %s not cleared", id)
	}
	assert.False(t, v.submit.Disabled())
}

func TestProfile_RemoteFailureKeepsForm(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	v := app.newProfileView()

	dir.On("CreateUser", mock.Anything, mock.Anything).
		Return(directory.UserRecord{}, &directory.ServerError{Op: "create", StatusCode: http.StatusInternalServerError})

	fillProfile(v, validProfile())
	test.Tap(v.submit)

	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyTitleError), (*notices)[0].title)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeSaveError), (*notices)[0].message)
	assert.Equal(t, "Ana", v.form.Name)
	assert.Equal(t, "secreto", v.form.Password)
}

func TestProfile_ClosedViewDropsResult(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	v := app.newProfileView()

	dir.On("CreateUser", mock.Anything, mock.Anything).Return(directory.UserRecord{ID: 1}, nil)

	fillProfile(v, validProfile())
	v.live.close()
	test.Tap(v.submit)

	dir.AssertNumberOfCalls(t, "CreateUser", 1)
	assert.Empty(t, *notices)
	assert.Equal(t, "Ana", v.form.Name)
}

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
		msg   string
	}{
		{"Success", nil, config.TKeyTitleNotice, config.TKeyNoticeSaved},
		{"Missing", &directory.ValidationError{Kind: directory.ValidationMissing}, config.TKeyTitleNotice, config.TKeyNoticeRequired},
		{"Format", &directory.ValidationError{Kind: directory.ValidationFormat}, config.TKeyTitleNotice, config.TKeyNoticeInvalid},
		{"Transport", &directory.TransportError{Op: "create", Err: errors.New("refused")}, config.TKeyTitleError, config.TKeyNoticeSaveError},
		{"Config", errors.New(config.ErrBaseURLEmpty), config.TKeyTitleError, config.TKeyNoticeSaveError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, msg := noticeFor(tt.err)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

// -----------------------------------------------------------------------------
// Sync Logic Integration Tests
// -----------------------------------------------------------------------------

func TestPerformSync_Success(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	app.mountScreens()

	dir.On("ListUsers", mock.Anything).Return(members(), nil).Once()

	app.performSync(false)

	dir.AssertExpectations(t)
	assert.Empty(t, *notices)

	// Member list, server order.
	require.Len(t, app.members.users, 3)
	assert.Equal(t, "Ana", app.members.users[0].Name)
	assert.Equal(t, "Marta", app.members.users[2].Name)
	assert.True(t, app.members.status.Hidden)

	// Consolidated view: March filter and ages as of 10-03-2025.
	assert.Equal(t, fmt.Sprintf("%s: %d", app.GetMsg(config.TKeyLblMale), 1), app.summary.male.Text)
	assert.Equal(t, fmt.Sprintf("%s: %d", app.GetMsg(config.TKeyLblFemale), 2), app.summary.female.Text)
	assert.Len(t, app.summary.birthdays.Objects, 2)

	// Feed got published.
	rec := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, rec.Body.String(), "Ana García")
}

func TestPerformSync_EmptyDirectory(t *testing.T) {
	app, dir, _ := setupTestApp(t)
	app.mountScreens()

	dir.On("ListUsers", mock.Anything).Return([]directory.UserRecord{}, nil)
	app.performSync(false)

	assert.Equal(t, app.GetMsg(config.TKeyNoMembers), app.members.status.Text)
	require.Len(t, app.summary.birthdays.Objects, 1)
	assert.Equal(t, app.GetMsg(config.TKeyNoBirthdays), app.summary.birthdays.Objects[0].(*widget.Label).Text)
}

func TestPerformSync_FailureNotifiesWhenManual(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	app.mountScreens()

	dir.On("ListUsers", mock.Anything).
		Return(nil, &directory.TransportError{Op: "list", Err: errors.New("connection refused")})

	app.performSync(false)
	assert.Empty(t, *notices, "background failures stay silent")

	app.performSync(true)
	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeLoad), (*notices)[0].message)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeLoad), app.members.status.Text)

	// Nothing published yet.
	rec := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMembers_ReloadButton(t *testing.T) {
	app, dir, _ := setupTestApp(t)
	app.mountScreens()

	dir.On("ListUsers", mock.Anything).Return(members(), nil)
	test.Tap(app.members.reload)

	dir.AssertNumberOfCalls(t, "ListUsers", 1)
	assert.Equal(t, 3, app.members.list.Length())
}

// renderRow builds a list row for users[id] the way widget.List does and
// returns what sits in its thumbnail slot.
func renderRow(t *testing.T, v *membersView, id int) fyne.CanvasObject {
	t.Helper()
	row := v.list.CreateItem()
	v.list.UpdateItem(id, row)

	thumb, ok := row.(*fyne.Container).Objects[rowThumb].(*fyne.Container)
	require.True(t, ok)
	require.Len(t, thumb.Objects, 1)
	return thumb.Objects[0]
}

func TestMembers_RowShowsPhoto(t *testing.T) {
	app, _, _ := setupTestApp(t)
	var fetched []string
	app.FetchPhoto = func(uri fyne.URI) (fyne.Resource, error) {
		fetched = append(fetched, uri.String())
		return fyne.NewStaticResource("m.png", []byte("png")), nil
	}
	app.mountScreens()
	app.members.show(members(), nil)
	fetched = nil // the window may already have rendered rows

	app.photos.Delete("https://example.com/m.png")
	img, ok := renderRow(t, app.members, 2).(*canvas.Image)
	require.True(t, ok, "A member with a photo URL must show an image")
	require.NotNil(t, img.Resource)
	assert.Equal(t, "m.png", img.Resource.Name())

	// Recycled rows reuse the downloaded bytes.
	img, ok = renderRow(t, app.members, 2).(*canvas.Image)
	require.True(t, ok)
	assert.NotNil(t, img.Resource)
	assert.Equal(t, []string{"https://example.com/m.png"}, fetched)
}

func TestMembers_RowWithoutPhotoShowsPlaceholder(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.mountScreens()
	app.members.show(members(), nil)

	obj := renderRow(t, app.members, 0)
	_, isImage := obj.(*canvas.Image)
	assert.False(t, isImage)

	box, ok := obj.(*fyne.Container)
	require.True(t, ok)
	require.Len(t, box.Objects, 2)
	assert.Equal(t, app.GetMsg(config.TKeyNoPhoto), box.Objects[1].(*widget.Label).Text)
}

func TestMembers_FailedPhotoLeavesEmptyImage(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.mountScreens()
	app.members.show(members(), nil)

	img, ok := renderRow(t, app.members, 2).(*canvas.Image)
	require.True(t, ok)
	assert.Nil(t, img.Resource)
}

func TestPhotoURI(t *testing.T) {
	for raw, want := range map[string]bool{
		"":                     false,
		"   ":                  false,
		"file:///tmp/a.png":    false,
		"not a url":            false,
		"http://img/a.png":     true,
		" https://x.cl/b.jpg ": true,
	} {
		_, ok := photoURI(raw)
		assert.Equalf(t, want, ok, "photoURI(%q)", raw)
	}
}

func TestMountScreens_ReusesLoadedUsers(t *testing.T) {
	app, dir, _ := setupTestApp(t)
	app.mountScreens()
	dir.On("ListUsers", mock.Anything).Return(members(), nil).Once()
	app.performSync(false)

	old := app.members
	app.mountScreens()

	assert.True(t, old.live.closed.Load())
	assert.NotSame(t, old, app.members)
	assert.Len(t, app.members.users, 3, "new screens start from the last load")
	dir.AssertNumberOfCalls(t, "ListUsers", 1)
}

// -----------------------------------------------------------------------------
// Theme Tests
// -----------------------------------------------------------------------------

func TestSettings_PaletteTapRepaintsScreens(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.mountScreens()

	test.Tap(app.settings.palette[theme.VerdeMenta])

	assert.Equal(t, theme.VerdeMenta, app.Theme.Current().Key)
	want := app.Theme.Current().NRGBA()
	for _, v := range app.frames {
		assert.Equalf(t, want, v.background.FillColor, "view %s not repainted", v.name)
	}
	assert.Equal(t, widget.HighImportance, app.settings.palette[theme.VerdeMenta].Importance)
	assert.Equal(t, widget.MediumImportance, app.settings.palette[theme.Blanco].Importance)
}

func TestTheme_ClosedViewStopsRepainting(t *testing.T) {
	app, _, _ := setupTestApp(t)
	v := app.newSummaryView()
	before := v.live.background.FillColor

	v.live.close()
	app.Theme.Select(theme.Naranja2)

	assert.Equal(t, before, v.live.background.FillColor)
}

// -----------------------------------------------------------------------------
// Configuration & Preferences Tests
// -----------------------------------------------------------------------------

func TestSettings_ValidatePort(t *testing.T) {
	app, _, _ := setupTestApp(t)

	tests := []struct {
		in      string
		wantKey string
	}{
		{"", config.TKeyErrPortReq},
		{"abc", config.TKeyErrPortNum},
		{"0", config.TKeyErrPortRange},
		{"65536", config.TKeyErrPortRange},
		{"18081", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := app.validatePort(tt.in)
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, app.GetMsg(tt.wantKey), err.Error())
		})
	}
}

func TestSettings_SavePersistsPreferences(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	var dialed []string
	app.Dial = func(u string) (directory.Directory, error) {
		dialed = append(dialed, u)
		return dir, nil
	}
	dir.On("ListUsers", mock.Anything).Return([]directory.UserRecord{}, nil)
	app.mountScreens()

	s := app.settings
	s.urlEntry.SetText("http://10.0.0.2:8000/api")
	s.entryPort.SetText("19000")
	s.entryInterval.SetText("45")
	test.Tap(s.btnSave)

	assert.Equal(t, "http://10.0.0.2:8000/api", app.Preferences.String(config.PrefAPIBaseURL))
	assert.Equal(t, "19000", app.Preferences.String(config.PrefFeedPort))
	assert.Equal(t, 45, app.Preferences.Int(config.PrefInterval))
	assert.Contains(t, dialed, "http://10.0.0.2:8000/api")
	require.NotEmpty(t, *notices)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeSettings), (*notices)[len(*notices)-1].message)
}

func TestSettings_EmptyIntervalDisablesRefresh(t *testing.T) {
	app, dir, _ := setupTestApp(t)
	dir.On("ListUsers", mock.Anything).Return([]directory.UserRecord{}, nil)
	app.mountScreens()

	app.settings.entryInterval.SetText("")
	app.settings.save()

	assert.Equal(t, config.DisabledInterval, app.Preferences.Int(config.PrefInterval))
	assert.Equal(t, time.Duration(0), app.syncInterval())
}

func TestSettings_InvalidPortBlocksSave(t *testing.T) {
	app, dir, notices := setupTestApp(t)
	app.mountScreens()

	app.settings.entryPort.SetText("70000")
	test.Tap(app.settings.btnSave)

	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyErrPortRange), (*notices)[0].message)
	assert.Empty(t, app.Preferences.String(config.PrefFeedPort))
	dir.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestSettings_InvalidURLIsNotSaved(t *testing.T) {
	app, _, notices := setupTestApp(t)
	app.Dial = directory.Dial
	app.mountScreens()

	app.settings.urlEntry.SetText("ftp://example.com")
	app.settings.save()

	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyTitleError), (*notices)[0].title)
	assert.Empty(t, app.Preferences.String(config.PrefAPIBaseURL))
}

func TestSettings_LanguageChangeRemounts(t *testing.T) {
	app, dir, _ := setupTestApp(t)
	dir.On("ListUsers", mock.Anything).Return([]directory.UserRecord{}, nil)
	app.mountScreens()
	old := app.settings

	old.langSelect.SetSelected("en")
	old.save()

	assert.True(t, old.live.closed.Load())
	assert.NotSame(t, old, app.settings)
	assert.Equal(t, "en", app.Preferences.String(config.PrefLanguage))
	assert.Equal(t, "Settings", app.GetMsg(config.TKeyTabSettings))
}

func TestSettings_EnvOverrideWins(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.Overrides = config.Overrides{APIBaseURL: "http://override:9000/api", FeedPort: "20000"}
	app.Preferences.SetString(config.PrefAPIBaseURL, "http://pref:8000/api")
	app.mountScreens()

	assert.Equal(t, "http://override:9000/api", app.baseURL())
	assert.Equal(t, "http://override:9000/api", app.settings.urlEntry.Text)
	assert.True(t, app.settings.urlEntry.Disabled())
	assert.Equal(t, "20000", app.settings.entryPort.Text)
}

func TestConfiguration_WorkerSignal(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.watchPreferences()

	signalReceived := make(chan bool)
	go func() {
		select {
		case key := <-app.configChan:
			signalReceived <- key == config.PrefInterval
		case <-time.After(500 * time.Millisecond):
			signalReceived <- false
		}
	}()

	app.Preferences.SetInt(config.PrefInterval, 120)

	assert.True(t, <-signalReceived, "Changing interval should notify background worker")
}

func TestConfiguration_SyncInterval(t *testing.T) {
	app, _, _ := setupTestApp(t)

	assert.Equal(t, time.Duration(config.DefaultRefreshMin)*time.Minute, app.syncInterval())

	app.Preferences.SetInt(config.PrefInterval, -5)
	assert.Equal(t, time.Duration(config.DefaultRefreshMin)*time.Minute, app.syncInterval())

	app.Preferences.SetInt(config.PrefInterval, 15)
	assert.Equal(t, 15*time.Minute, app.syncInterval())
}

// -----------------------------------------------------------------------------
// Contacts Tests
// -----------------------------------------------------------------------------

const twoCards = "BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"UID:c-1\r\n" +
	"FN:Ana García\r\n" +
	"N:García;Ana;;;\r\n" +
	"END:VCARD\r\n" +
	"BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"FN:Luis Pérez\r\n" +
	"N:Pérez;Luis;;;\r\n" +
	"END:VCARD\r\n"

func TestContacts_ImportUpdatesStoreAndLabel(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.mountScreens()

	n, err := app.importContacts(strings.NewReader(twoCards))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := app.Contacts.List()
	require.Len(t, got, 2)
	assert.Equal(t, "c-1", got[0].ID)
	assert.Equal(t, "generated-id", got[1].ID)
	assert.Equal(t, app.GetMsgWith(config.TKeyContactsCount, map[string]any{"Count": 2}), app.settings.contactsLabel.Text)
}

func TestContacts_ImportGarbage(t *testing.T) {
	app, _, _ := setupTestApp(t)

	_, err := app.importContacts(strings.NewReader("this is not a vcard"))
	assert.ErrorIs(t, err, contacts.ErrNoCards)
	assert.Zero(t, app.Contacts.Len())
}

func TestContacts_ImportNotices(t *testing.T) {
	app, _, notices := setupTestApp(t)
	app.mountScreens()

	app.importAndNotify(strings.NewReader("this is not a vcard"))
	require.Len(t, *notices, 1)
	assert.Equal(t, app.GetMsg(config.TKeyTitleError), (*notices)[0].title)
	assert.Equal(t, app.GetMsg(config.TKeyNoticeFileErr), (*notices)[0].message)

	app.importAndNotify(strings.NewReader(twoCards))
	require.Len(t, *notices, 2)
	assert.Equal(t, app.GetMsgWith(config.TKeyNoticeImport, map[string]any{"Count": 2}), (*notices)[1].message)
}

func TestContacts_ExportRoundTrip(t *testing.T) {
	app, _, _ := setupTestApp(t)
	_, err := app.importContacts(strings.NewReader(twoCards))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, app.exportContacts(&buf))
	assert.Equal(t, 2, strings.Count(buf.String(), "BEGIN:VCARD"))
	assert.Contains(t, buf.String(), "Luis Pérez")

	again, _, _ := setupTestApp(t)
	n, err := again.importContacts(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, app.Contacts.List(), again.Contacts.List())
}
