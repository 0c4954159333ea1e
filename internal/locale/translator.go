// Package locale translates cycle names and calendar texts.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/cycles"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator wraps a go-i18n bundle and a localizer for one language.
// It is safe for concurrent use once built.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
	languages []string
}

// New loads the embedded locales and selects lang. Unknown or malformed
// languages fall back to English.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
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

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.languages = append(t.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	t.lang = t.match(lang)
	t.localizer = i18n.NewLocalizer(bundle, t.lang)
	return t
}

// match resolves lang against the loaded bundle using BCP 47 matching, so
// "fr-CA" selects "fr".
func (t *Translator) match(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return config.DefaultLanguage
	}
	matcher := language.NewMatcher(t.bundle.LanguageTags())
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return config.DefaultLanguage
	}
	base, _ := t.bundle.LanguageTags()[idx].Base()
	return base.String()
}

// Language is the selected language code.
func (t *Translator) Language() string { return t.lang }

// Languages lists the codes found in the embedded locale files.
func (t *Translator) Languages() []string { return t.languages }

// Msg translates key, returning fallback when the key is missing.
func (t *Translator) Msg(key, fallback string) string {
	return t.localize(key, nil, fallback)
}

func (t *Translator) localize(key string, data map[string]any, fallback string) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}

// messageKey builds "organ_large_intestine" from ("organ_", "Large Intestine").
func messageKey(prefix, value string) string {
	return prefix + strings.ReplaceAll(strings.ToLower(value), " ", "_")
}

func (t *Translator) Sign(s cycles.Sign) string {
	return t.Msg(messageKey(config.TKeyPrefixSign, string(s)), string(s))
}

// SignDescription is the short character sketch of the sign.
func (t *Translator) SignDescription(s cycles.Sign) string {
	return t.Msg(messageKey(config.TKeyPrefixTrait, string(s)), s.Description())
}

func (t *Translator) Element(e cycles.Element) string {
	return t.Msg(messageKey(config.TKeyPrefixElement, string(e)), string(e))
}

func (t *Translator) Quality(q cycles.Quality) string {
	return t.Msg(messageKey(config.TKeyPrefixQuality, string(q)), string(q))
}

func (t *Translator) Organ(o cycles.Organ) string {
	return t.Msg(messageKey(config.TKeyPrefixOrgan, string(o)), string(o))
}

// OrganFunction translates the organ's traditional function.
func (t *Translator) OrganFunction(o cycles.Organ) string {
	return t.Msg(messageKey(config.TKeyPrefixOrganFn, string(o)), o.Function())
}

// Cycle is the display name of a biorhythm cycle.
func (t *Translator) Cycle(c cycles.Cycle) string {
	fallback := string(c)
	if fallback != "" {
		fallback = strings.ToUpper(fallback[:1]) + fallback[1:]
	}
	return t.Msg(messageKey(config.TKeyPrefixCycle, string(c)), fallback)
}

// CalendarName is the X-WR-CALNAME of the feed.
func (t *Translator) CalendarName() string {
	return t.Msg(config.TKeyCalName, config.ICalCalName)
}

// FormatSummary renders the one-line biorhythm summary of a day event.
func (t *Translator) FormatSummary(name string, pct cycles.BiorhythmPercent) string {
	return t.localize(config.TKeyEvtBiorhythm, map[string]any{
		"Name":         name,
		"Physical":     pct.Physical,
		"Emotional":    pct.Emotional,
		"Intellectual": pct.Intellectual,
	}, fmt.Sprintf(config.FallbackBiorhythm, name, pct.Physical, pct.Emotional, pct.Intellectual))
}

// FormatDescription renders the zodiac and cycle details of a reading.
func (t *Translator) FormatDescription(r cycles.Reading) string {
	z := r.Zodiac
	pct := r.Percent
	return t.localize(config.TKeyEvtDescription, map[string]any{
		"Sign":              t.Sign(z.Sign),
		"Element":           t.Element(z.Element),
		"Quality":           t.Quality(z.Quality),
		"Trait":             t.SignDescription(z.Sign),
		"Days":              r.DayDelta,
		"PhysicalLabel":     t.Cycle(cycles.Physical),
		"EmotionalLabel":    t.Cycle(cycles.Emotional),
		"IntellectualLabel": t.Cycle(cycles.Intellectual),
		"Physical":          pct.Physical,
		"Emotional":         pct.Emotional,
		"Intellectual":      pct.Intellectual,
	}, fmt.Sprintf(config.FallbackDescription, z.Sign, z.Element, z.Quality, z.Sign.Description(), pct.Physical, pct.Emotional, pct.Intellectual))
}

// FormatOrgan renders the summary and description of an organ-clock event.
func (t *Translator) FormatOrgan(o cycles.Organ) (summary, description string) {
	name := t.Organ(o)
	fn := t.OrganFunction(o)
	summary = t.localize(config.TKeyEvtOrgan, map[string]any{"Organ": name},
		fmt.Sprintf(config.FallbackOrgan, name))
	description = t.localize(config.TKeyEvtOrganDesc, map[string]any{"Organ": name, "Function": fn}, fn)
	return summary, description
}
