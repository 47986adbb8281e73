package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localedata embed.FS

const (
	Uz = "uz"
	En = "en"
)

// Localizer resolves message ids to texts in the configured language.
type Localizer interface {
	Lang() string
	MustLocalize(id string) string
	MustLocalizeWithTemplate(id string, fields ...string) string
}

type localizer struct {
	lang string
	loc  *i18n.Localizer
}

// NewLocalizer loads the embedded translation bundles and returns a
// Localizer for lang, falling back to English for missing messages.
func NewLocalizer(lang string) (Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, f := range []string{"en.json", "uz.json"} {
		data, err := localedata.ReadFile("locales/" + f)
		if err != nil {
			return nil, fmt.Errorf("failed to load translation data: %s", f)
		}
		bundle.MustParseMessageFileBytes(data, f)
	}

	return &localizer{
		lang: lang,
		loc:  i18n.NewLocalizer(bundle, lang),
	}, nil
}

func (l *localizer) Lang() string {
	return l.lang
}

func (l *localizer) MustLocalize(id string) string {
	return l.loc.MustLocalize(&i18n.LocalizeConfig{MessageID: id})
}

// MustLocalizeWithTemplate substitutes fields as {{.f1}}, {{.f2}}, ...
func (l *localizer) MustLocalizeWithTemplate(id string, fields ...string) string {
	td := make(map[string]interface{}, len(fields))
	for i, f := range fields {
		td["f"+strconv.Itoa(i+1)] = f
	}

	return l.loc.MustLocalize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: td,
	})
}
