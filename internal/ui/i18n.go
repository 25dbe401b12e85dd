package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/hermandad/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n loads the embedded bundles and the localizer for the saved language.
func (app *HermandadApp) SetupI18n() {
	bundle := i18n.NewBundle(language.Spanish)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		lang := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if lang == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detected = append(detected, lang)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, lang,
		)
	}

	if len(detected) > 0 {
		app.SupportedLanguages = orderLanguages(detected)
	}
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// orderLanguages puts the default language first; the rest keep directory order.
func orderLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l == config.DefaultLanguage {
			out = append(out, l)
		}
	}
	for _, l := range langs {
		if l != config.DefaultLanguage {
			out = append(out, l)
		}
	}
	return out
}

// UpdateLocalizer rebuilds the translator from the language preference.
func (app *HermandadApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang, config.DefaultLanguage)
}

// GetMsg translates key, returning the key itself when no translation exists.
func (app *HermandadApp) GetMsg(key string) string {
	return app.localize(key, nil)
}

// GetMsgWith translates a templated key.
func (app *HermandadApp) GetMsgWith(key string, data map[string]any) string {
	return app.localize(key, data)
}

func (app *HermandadApp) localize(key string, data map[string]any) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// buildSummaryFormatter returns a closure that localizes calendar event titles.
// Age 0 means the member was born that year, so it is left out.
func (app *HermandadApp) buildSummaryFormatter() func(name string, age int) string {
	return func(name string, age int) string {
		var (
			msg string
			err error
		)
		if app.Localizer == nil {
			err = errors.New(config.ErrLocNotInit)
		} else if age > 0 {
			msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyEvtSummaryAge,
				TemplateData: map[string]any{"Name": name, "Age": age},
			})
		} else {
			msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyEvtSummary,
				TemplateData: map[string]any{"Name": name},
			})
		}

		if err != nil || msg == "" {
			if age > 0 {
				return fmt.Sprintf(config.FallbackSummaryAge, name, age)
			}
			return fmt.Sprintf(config.FallbackSummary, name)
		}
		return msg
	}
}
