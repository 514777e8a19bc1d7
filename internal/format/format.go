// Package format renders prices and dates for the storefront.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"JPY": "¥",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FmtCurrency formats an amount in minor units with locale grouping.
// Example: FmtCurrency(12345, "JPY", "ja") => "¥12,345"
func FmtCurrency(minor int64, cur, lang string) string {
	code, scale := unit(cur)
	p := printer(lang)

	neg := minor < 0
	if neg {
		minor = -minor
	}
	var number string
	if scale == 0 {
		number = p.Sprintf("%d", minor)
	} else {
		pow := int64(math.Pow10(scale))
		number = p.Sprintf("%d", minor/pow) + decimalSeparator(lang) + fmt.Sprintf("%0*d", scale, minor%pow)
	}

	var out string
	if sym, ok := symbols[code]; ok {
		out = sym + number
	} else {
		out = code + " " + number
	}
	if neg {
		return "-" + out
	}
	return out
}

// FmtAmount formats an amount in major units, rounding to the currency's standard scale.
// Example: FmtAmount(12.5, "USD", "en") => "$12.50"
func FmtAmount(major float64, cur, lang string) string {
	_, scale := unit(cur)
	minor := int64(math.Round(major * math.Pow10(scale)))
	return FmtCurrency(minor, cur, lang)
}

// FmtDate formats time in a locale-friendly short form.
func FmtDate(t time.Time, lang string) string {
	switch baseLang(lang) {
	case "ja":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func unit(cur string) (string, int) {
	code := strings.ToUpper(strings.TrimSpace(cur))
	u, err := currency.ParseISO(code)
	if err != nil {
		return code, 0
	}
	scale, _ := currency.Standard.Rounding(u)
	return u.String(), scale
}

func printer(lang string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func decimalSeparator(lang string) string {
	switch baseLang(lang) {
	case "de", "fr", "es", "it", "nl", "pt":
		return ","
	default:
		return "."
	}
}

func baseLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}
