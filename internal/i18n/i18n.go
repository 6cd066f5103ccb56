package i18n

import (
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Catalog holds every embedded message file and negotiates a language per request.
type Catalog struct {
	bundle    *i18n.Bundle
	languages []string
	matcher   language.Matcher
	fallback  *i18n.Localizer
}

// Load parses locales/<lang>.toml. defaultLang must be one of them.
func Load(defaultLang string) (*Catalog, error) {
	defaultTag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse default language: %w", err)
	}

	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	// the default language goes first so the matcher falls back to it
	tags := []language.Tag{defaultTag}
	languages := []string{defaultTag.String()}
	found := false
	for _, e := range entries {
		filePath := path.Join("locales", e.Name())
		data, err := localeFS.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, filePath); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filePath, err)
		}

		lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if lang == defaultTag.String() {
			found = true
			continue
		}
		tags = append(tags, language.MustParse(lang))
		languages = append(languages, lang)
	}
	if !found {
		return nil, fmt.Errorf("no message file for default language %q", defaultLang)
	}

	return &Catalog{
		bundle:    bundle,
		languages: languages,
		matcher:   language.NewMatcher(tags),
		fallback:  i18n.NewLocalizer(bundle, defaultTag.String()),
	}, nil
}

// Languages lists the supported language tags, default first.
func (c *Catalog) Languages() []string {
	return c.languages
}

// Negotiate picks the best supported language for an Accept-Language header.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.languages[0]
	}
	_, idx, _ := c.matcher.Match(tags...)
	return c.languages[idx]
}

func (c *Catalog) Localizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(c.bundle, lang, c.languages[0])
}

// Fallback localizes in the default language.
func (c *Catalog) Fallback() *i18n.Localizer {
	return c.fallback
}

type localizerKey struct{}

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

func LocalizerFrom(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(localizerKey{}).(*i18n.Localizer)
	return l, ok
}

// T translates key with the request's localizer. Unknown keys and requests
// without a localizer yield the key itself.
func T(ctx context.Context, key string, data map[string]interface{}) string {
	localizer, ok := LocalizerFrom(ctx)
	if !ok {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return msg
}
