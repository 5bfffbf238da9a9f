package server

import (
	"embed"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"staffdir/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// translator wraps the i18n bundle used for badge and calendar copy.
type translator struct {
	bundle *i18n.Bundle
}

// newTranslator loads every embedded active.<lang>.json locale file.
func newTranslator() *translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return &translator{bundle: bundle}
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if !supportedLanguage(langCode) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, langCode,
				config.LogKeyFile, name,
			)
			continue
		}

		path := "locales/" + name
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
		} else {
			slog.Debug(config.MsgLocaleLoaded,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, langCode,
				config.LogKeyFile, name,
			)
		}
	}

	return &translator{bundle: bundle}
}

// supportedLanguage reports whether translations for the language are shipped.
func supportedLanguage(langCode string) bool {
	for _, lang := range config.SupportedLanguages {
		if langCode == lang {
			return true
		}
	}
	return false
}

// localizer builds a per-request localizer from the Accept-Language header,
// falling back to the default language.
func (t *translator) localizer(acceptLanguage string) *i18n.Localizer {
	return i18n.NewLocalizer(t.bundle, acceptLanguage, config.DefaultLanguage)
}

// getMsg translates a key with optional template data, returning the key
// itself when no translation exists.
func getMsg(loc *i18n.Localizer, key string, data map[string]interface{}) string {
	msg, err := loc.Localize(&i18n.LocalizeConfig{
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
