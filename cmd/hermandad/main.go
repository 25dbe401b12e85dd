package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/hermandad/internal/config"
	"github.com/tartampluch/hermandad/internal/server"
	"github.com/tartampluch/hermandad/internal/ui"
)

// main hands over to runMain and turns its result into the process status.
// os.Exit skips deferred calls, so the log file is only closed correctly
// when runMain has returned first.
func main() {
	os.Exit(runMain())
}

// runMain drives the process lifecycle: flags, environment, logging,
// signals, then the GUI. It returns config.ExitCodeSuccess or
// config.ExitCodeError and never calls os.Exit itself.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. Flags
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.Parse()

	if *showVersion {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Environment & Logging
	// -------------------------------------------------------------------------
	// Environment is read before logging so HERMANDAD_DEBUG can raise the level.
	// A parse error is only reported once the logger exists.
	overrides, envErr := config.LoadOverrides()

	logCloser := setupLogging(*debugMode || overrides.Debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	if envErr != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, envErr,
		)
		return config.ExitCodeError
	}

	// -------------------------------------------------------------------------
	// 3. Signals
	// -------------------------------------------------------------------------
	// SIGINT and SIGTERM cancel the root context; run turns that into a Quit.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application
	// -------------------------------------------------------------------------
	if err := run(ctx, overrides); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run builds the Fyne application, wires the feed server and the screens,
// then blocks until the main window closes.
//
// The feed port is resolved once here. Changing it in the settings tab only
// takes effect on the next start, since the listener is already bound.
func run(ctx context.Context, ov config.Overrides) error {
	a := app.NewWithID(config.AppID)

	// Remember which build last ran, for future preference migrations.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	srv := server.NewFeedServer(feedPort(a.Preferences(), ov))
	gui := ui.NewHermandadApp(a, ctx, srv, ov)

	// Context cancellation comes from a signal goroutine; Quit must run on
	// the Fyne main thread.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(a.Quit)
	}()

	gui.Run() // blocks
	return nil
}

// feedPort resolves the listening port: environment, then preference, then default.
func feedPort(prefs fyne.Preferences, ov config.Overrides) string {
	return config.Pick(ov.FeedPort, prefs.String(config.PrefFeedPort), config.DefaultFeedPort)
}

// printVersion writes the build identity injected through -ldflags.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo records the build and host details at the top of each log.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog handler writing to stdout and, when the
// cache directory is usable, to a log file truncated on every start.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := logFilePath(); err == nil {
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// logFilePath returns <user cache dir>/<AppID>/<LogFileName>, creating the
// application directory when needed.
func logFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}
