// Package locale holds the translations of the messages shown to editors.
// Translation ids are the ids carried by the matching application errors.
package locale

import (
	"embed"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/i18n"
	"github.com/nicksnyder/go-i18n/i18n/bundle"

	"github.com/webitel/video-exporter/internal/errors"
)

// DefaultLanguage answers requests whose Accept-Language matches no loaded file.
const DefaultLanguage = "en"

//go:embed translations/*.json
var translations embed.FS

type Translator struct {
	bundle *bundle.Bundle
}

// New loads the embedded translation files.
func New() (*Translator, error) {
	t := &Translator{bundle: bundle.New()}
	files, err := translations.ReadDir("translations")
	if err != nil {
		return nil, errors.Internal("unable to list translations", errors.WithCause(err))
	}
	for _, f := range files {
		data, err := translations.ReadFile(path.Join("translations", f.Name()))
		if err != nil {
			return nil, errors.Internal("unable to read translation "+f.Name(), errors.WithCause(err))
		}
		if err := t.AddTranslationFile(f.Name(), data); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func MustNew() *Translator {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}

// AddTranslationFile parses a go-i18n file. The language is taken from the
// file name, e.g. "fr.json".
func (t *Translator) AddTranslationFile(name string, data []byte) error {
	if err := t.bundle.ParseTranslationFileBytes(name, data); err != nil {
		return errors.Internal("unable to parse translation "+name, errors.WithCause(err))
	}
	return nil
}

func (t *Translator) Languages() []string {
	return t.bundle.LanguageTags()
}

// Tfunc picks the first language of an Accept-Language value that has
// translations, falling back to DefaultLanguage. Missing ids translate to
// themselves.
func (t *Translator) Tfunc(acceptLanguage string) goi18n.TranslateFunc {
	// The error only reports that no language matched; the func then returns ids.
	tfunc, _ := t.bundle.Tfunc(acceptLanguage, DefaultLanguage)
	return goi18n.TranslateFunc(tfunc)
}
