package ui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynetheme "fyne.io/fyne/v2/theme"
	"github.com/google/uuid"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/contacts"
	"github.com/tartampluch/hermandad/internal/directory"
	"github.com/tartampluch/hermandad/internal/engine"
	"github.com/tartampluch/hermandad/internal/server"
	"github.com/tartampluch/hermandad/internal/theme"
)

// HermandadApp holds the shared stores, the remote directory and the screens.
type HermandadApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Theme     *theme.Store
	Contacts  *contacts.Store
	Server    *server.FeedServer
	Clock     engine.Clock
	Overrides config.Overrides

	// Dial opens the directory for a base URL. Tests swap in a mock.
	Dial func(baseURL string) (directory.Directory, error)
	// NewID names imported contacts that carry no UID.
	NewID func() string
	// Notify shows a single modal notice.
	Notify func(title, message string)
	// FetchPhoto downloads a member photo. Never called on the UI thread.
	FetchPhoto func(uri fyne.URI) (fyne.Resource, error)

	// runOnMain schedules widget mutations; spawn runs blocking work off it.
	runOnMain func(func())
	spawn     func(func())

	SupportedLanguages []string
	configChan         chan string

	dirMut sync.RWMutex
	dir    directory.Directory

	usersMut    sync.RWMutex
	users       []directory.UserRecord
	usersLoaded bool

	photos sync.Map // URL string -> fyne.Resource

	viewsMut sync.Mutex
	frames   []*liveView
	profile  *profileView
	members  *membersView
	summary  *summaryView
	settings *settingsView
}

// NewHermandadApp wires the stores and defaults. Nothing runs until Run.
func NewHermandadApp(a fyne.App, ctx context.Context, srv *server.FeedServer, ov config.Overrides) *HermandadApp {
	app := &HermandadApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Theme:              theme.NewStore(),
		Contacts:           contacts.NewStore(),
		Server:             srv,
		Clock:              engine.RealClock{},
		Overrides:          ov,
		Dial:               directory.Dial,
		NewID:              uuid.NewString,
		FetchPhoto:         newPhotoFetcher(),
		runOnMain:          fyne.Do,
		spawn:              func(fn func()) { go fn() },
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
	app.Notify = func(title, message string) {
		dialog.ShowInformation(title, message, app.Window)
	}
	return app
}

// Run starts the feed server and the sync worker, then blocks in the UI loop.
func (app *HermandadApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	app.Window = app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	app.Window.SetMaster()
	app.mountScreens()

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyComponent, config.CompUI)

		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
			app.App.SendNotification(fyne.NewNotification(config.AppName, err.Error()))
		}
	}()

	go app.backgroundWorker()
	app.Window.ShowAndRun()
}

// mountScreens builds all tabs, closing whatever was shown before.
// Called at start and after a language change.
func (app *HermandadApp) mountScreens() {
	app.viewsMut.Lock()
	for _, v := range app.frames {
		v.close()
	}
	app.profile = app.newProfileView()
	app.members = app.newMembersView()
	app.summary = app.newSummaryView()
	app.settings = app.newSettingsView()
	profile, members, summary, settings := app.profile, app.members, app.summary, app.settings
	app.frames = []*liveView{&profile.live, &members.live, &summary.live, &settings.live}
	app.viewsMut.Unlock()

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon(app.GetMsg(config.TKeyTabProfile), fynetheme.AccountIcon(), profile.content),
		container.NewTabItemWithIcon(app.GetMsg(config.TKeyTabMembers), fynetheme.ListIcon(), members.content),
		container.NewTabItemWithIcon(app.GetMsg(config.TKeyTabSummary), fynetheme.InfoIcon(), summary.content),
		container.NewTabItemWithIcon(app.GetMsg(config.TKeyTabSettings), fynetheme.SettingsIcon(), settings.content),
	)
	tabs.SetTabLocation(container.TabLocationBottom)
	app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	app.Window.SetContent(tabs)

	if users, ok := app.snapshotUsers(); ok {
		members.show(users, nil)
		summary.show(engine.Summarize(users, app.Clock.Now()), nil)
	}
}

// currentDirectory returns the current client, dialing the configured URL on first use.
func (app *HermandadApp) currentDirectory() (directory.Directory, error) {
	app.dirMut.RLock()
	d := app.dir
	app.dirMut.RUnlock()
	if d != nil {
		return d, nil
	}
	return app.connect(app.baseURL())
}

// connect replaces the client. The previous one stays with in-flight calls.
func (app *HermandadApp) connect(baseURL string) (directory.Directory, error) {
	d, err := app.Dial(baseURL)
	if err != nil {
		return nil, err
	}
	app.dirMut.Lock()
	app.dir = d
	app.dirMut.Unlock()
	return d, nil
}

func (app *HermandadApp) baseURL() string {
	return config.Pick(app.Overrides.APIBaseURL,
		app.Preferences.String(config.PrefAPIBaseURL),
		config.DefaultAPIBaseURL)
}

func (app *HermandadApp) snapshotUsers() ([]directory.UserRecord, bool) {
	app.usersMut.RLock()
	defer app.usersMut.RUnlock()
	out := make([]directory.UserRecord, len(app.users))
	copy(out, app.users)
	return out, app.usersLoaded
}

// watchPreferences wakes the worker whenever a setting changes.
func (app *HermandadApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// syncInterval reads the refresh period. Zero disables periodic refresh.
func (app *HermandadApp) syncInterval() time.Duration {
	val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
	if val < 0 {
		val = config.DefaultRefreshMin
	}
	return time.Duration(val) * time.Minute
}

// backgroundWorker loads members at start and then on every tick.
//
// The ticker is rebuilt whenever watchPreferences signals a different
// interval. A zero interval leaves tick nil, and a nil channel never fires
// in select, so the loop then only waits for settings or cancellation.
func (app *HermandadApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performSync(false)

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	reset := func(d time.Duration) {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if d > 0 {
			ticker = time.NewTicker(d)
			tick = ticker.C
		}
	}
	defer reset(0)

	current := app.syncInterval()
	reset(current)
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, current)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			next := app.syncInterval()
			if next != current {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, current, config.LogKeyNew, next)
				current = next
				reset(current)
			}

		case <-tick:
			app.performSync(false)
		}
	}
}

// performSync lists members, hands them to the open screens and republishes
// the birthday feed. A manual sync reports failure with a notice.
func (app *HermandadApp) performSync(manual bool) {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	users, err := app.listUsers()
	if err != nil {
		slog.Error(config.MsgUsersLoadFail,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		app.deliverUsers(nil, err)
		if manual {
			app.runOnMain(func() {
				app.Notify(app.GetMsg(config.TKeyTitleError), app.GetMsg(config.TKeyNoticeLoad))
			})
		}
		return
	}

	slog.Info(config.MsgUsersLoaded,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(users))

	app.usersMut.Lock()
	app.users = users
	app.usersLoaded = true
	app.usersMut.Unlock()

	app.deliverUsers(users, nil)
	app.publishCalendar(users)
}

func (app *HermandadApp) listUsers() ([]directory.UserRecord, error) {
	dir, err := app.currentDirectory()
	if err != nil {
		return nil, err
	}
	return dir.ListUsers(app.Ctx)
}

// deliverUsers pushes a load result to the member and summary screens.
func (app *HermandadApp) deliverUsers(users []directory.UserRecord, err error) {
	app.viewsMut.Lock()
	members, summary := app.members, app.summary
	app.viewsMut.Unlock()

	var sum engine.Summary
	if err == nil {
		sum = engine.Summarize(users, app.Clock.Now())
	}
	if members != nil {
		app.deliver(&members.live, func() { members.show(users, err) })
	}
	if summary != nil {
		app.deliver(&summary.live, func() { summary.show(sum, err) })
	}
}

func (app *HermandadApp) publishCalendar(users []directory.UserRecord) {
	b := &engine.CalendarBuilder{
		Clock:         app.Clock,
		FormatSummary: app.buildSummaryFormatter(),
		Alarm:         true,
	}
	data, _, err := b.Build(users)
	if err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return
	}
	app.Server.Update(data)
}

// noticeFor maps a registration outcome to the notice the user sees.
func noticeFor(err error) (title, message string) {
	var verr *directory.ValidationError
	switch {
	case err == nil:
		return config.TKeyTitleNotice, config.TKeyNoticeSaved
	case errors.As(err, &verr) && verr.Kind == directory.ValidationFormat:
		return config.TKeyTitleNotice, config.TKeyNoticeInvalid
	case errors.Is(err, directory.ErrValidation):
		return config.TKeyTitleNotice, config.TKeyNoticeRequired
	default:
		return config.TKeyTitleError, config.TKeyNoticeSaveError
	}
}
