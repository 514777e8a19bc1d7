package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const defaultFallback = "ja"

// Bundle holds UI strings per language.
type Bundle struct {
	dict     map[string]map[string]string
	fallback string
	codes    []string
	matcher  language.Matcher
}

// Default loads the embedded ja and en locales with ja as fallback.
func Default() (*Bundle, error) {
	sub, err := fs.Sub(localeFS, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub, defaultFallback, []string{"ja", "en"})
}

// Load reads <lang>.json for every supported language from fsys. Missing files are
// allowed except for the fallback.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if len(supported) == 0 {
		supported = []string{"ja", "en"}
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}

	// The fallback goes first so the matcher treats it as the default.
	codes := []string{fallback}
	for _, l := range supported {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && l != fallback {
			codes = append(codes, l)
		}
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, l := range codes {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("i18n: parse locale %q: %w", l, err)
		}
		raw, err := fs.ReadFile(fsys, path.Clean(l+".json"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("i18n: load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
		b.codes = append(b.codes, l)
		tags = append(tags, tag)
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported returns the loaded languages, sorted.
func (b *Bundle) Supported() []string {
	out := append([]string(nil), b.codes...)
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// Has reports whether lang has a loaded dictionary.
func (b *Bundle) Has(lang string) bool {
	_, ok := b.dict[strings.ToLower(lang)]
	return ok
}

// T returns the translation for key in lang, falling back to the default language and finally key.
func (b *Bundle) T(lang, key string) string {
	if b == nil {
		return key
	}
	if m, ok := b.dict[baseLang(lang)]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Resolve chooses the best loaded language for an Accept-Language header, or the
// fallback when nothing matches.
func (b *Bundle) Resolve(acceptLang string) string {
	if lang, ok := b.Match(acceptLang); ok {
		return lang
	}
	return b.fallback
}

// Match reports the loaded language that best serves acceptLang.
func (b *Bundle) Match(acceptLang string) (string, bool) {
	if strings.TrimSpace(acceptLang) == "" || len(b.codes) == 0 {
		return "", false
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(desired) == 0 {
		return "", false
	}
	_, idx, conf := b.matcher.Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(b.codes) {
		return "", false
	}
	return b.codes[idx], true
}

func baseLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}
