// Package i18n provides the kiosk's UI strings in each supported language.
package i18n

import (
	"embed"
	"fmt"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/healthport/kiosk/internal/session"
)

//go:embed locales/*.toml
var localeFS embed.FS

var localeFiles = []string{
	"locales/active.en.toml",
	"locales/active.fr.toml",
	"locales/active.ak.toml",
}

var akan = language.Make("ak")

// Tag maps a kiosk language to its BCP 47 tag.
func Tag(lang session.Language) language.Tag {
	switch lang {
	case session.LanguageFrench:
		return language.French
	case session.LanguageAkan:
		return akan
	default:
		return language.English
	}
}

// Catalog holds every message in every language.
type Catalog struct {
	bundle *goi18n.Bundle
}

// Load parses the embedded message files. English is the fallback.
func Load() (*Catalog, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, f := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return &Catalog{bundle: bundle}, nil
}

// MustLoad is Load for package initialisation; the embedded files are
// covered by tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Languages returns the tags the catalog has messages for.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// For returns a localizer for lang.
func (c *Catalog) For(lang session.Language) *Localizer {
	return &Localizer{l: goi18n.NewLocalizer(c.bundle, Tag(lang).String(), language.English.String())}
}

// Localizer translates message IDs for one language.
type Localizer struct {
	l *goi18n.Localizer
}

// T returns the message for id, or id itself when it is unknown.
func (l *Localizer) T(id string) string {
	return l.TData(id, nil)
}

// TData executes the message template with data.
func (l *Localizer) TData(id string, data map[string]interface{}) string {
	if l == nil || l.l == nil {
		return id
	}
	msg, err := l.l.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if msg == "" && err != nil {
		return id
	}
	return msg
}
