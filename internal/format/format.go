// Package format provides the pure presentation helpers shared by the
// dashboard renderer and the CLI: currency and percentage formatting,
// category styling, and the presentability gate every widget checks
// before drawing. Helpers never panic and never perform I/O.
package format

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
)

// LocaleProvider supplies the default currency code for a Formatter.
// The resolved config implements it.
type LocaleProvider interface {
	CurrencyCode() string
}

// LocaleFunc adapts a plain function to a LocaleProvider.
type LocaleFunc func() string

// CurrencyCode implements LocaleProvider.
func (f LocaleFunc) CurrencyCode() string { return f() }

// Formatter renders monetary values using an injected locale. All other
// helpers in this package are locale-free and exposed as plain functions.
type Formatter struct {
	locale LocaleProvider
}

// New returns a Formatter backed by the given locale provider.
// A nil provider falls back to USD.
func New(locale LocaleProvider) *Formatter {
	return &Formatter{locale: locale}
}

type currencyOpts struct {
	code    string
	minFrac int
	maxFrac int
	hasFrac bool
}

// CurrencyOption adjusts a single Currency call.
type CurrencyOption func(*currencyOpts)

// WithCurrency overrides the provider's currency code for one call.
func WithCurrency(code string) CurrencyOption {
	return func(o *currencyOpts) { o.code = code }
}

// WithFractionDigits overrides the currency's native fraction count,
// e.g. WithFractionDigits(0, 0) for whole-unit chart labels.
func WithFractionDigits(min, max int) CurrencyOption {
	return func(o *currencyOpts) {
		o.minFrac, o.maxFrac, o.hasFrac = min, max, true
	}
}

// Currency formats a monetary amount with symbol, grouping, and decimal
// conventions from the go-money currency table. NaN and infinities render
// as zero. e.g. Currency(1234.5) -> "$1,234.50".
func (f *Formatter) Currency(v float64, opts ...CurrencyOption) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	var o currencyOpts
	for _, opt := range opts {
		opt(&o)
	}

	code := strings.ToUpper(strings.TrimSpace(o.code))
	if code == "" {
		if f != nil && f.locale != nil {
			code = strings.ToUpper(strings.TrimSpace(f.locale.CurrencyCode()))
		}
		if code == "" {
			code = "USD"
		}
	}

	cur := money.GetCurrency(code)
	if cur == nil {
		// Unknown ISO code: neutral layout, code as the symbol.
		minFrac, maxFrac := fracRange(2, 2, o)
		return code + " " + groupNumber(v, minFrac, maxFrac, ",", ".")
	}

	minFrac, maxFrac := fracRange(cur.Fraction, cur.Fraction, o)
	num := groupNumber(v, minFrac, maxFrac, cur.Thousand, cur.Decimal)
	out := strings.Replace(cur.Template, "1", num, 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if v < 0 {
		out = "-" + out
	}
	return out
}

func fracRange(min, max int, o currencyOpts) (int, int) {
	if o.hasFrac {
		min, max = o.minFrac, o.maxFrac
	}
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return min, max
}

// groupNumber renders |v| with maxFrac decimals (trailing zeros trimmed
// down to minFrac) and thousand separators every three digits.
func groupNumber(v float64, minFrac, maxFrac int, thousand, decimal string) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', maxFrac, 64)

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	for len(fracPart) > minFrac && strings.HasSuffix(fracPart, "0") {
		fracPart = fracPart[:len(fracPart)-1]
	}

	var grouped strings.Builder
	remainder := len(intPart) % 3
	if remainder > 0 {
		grouped.WriteString(intPart[:remainder])
	}
	for i := remainder; i < len(intPart); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteString(thousand)
		}
		grouped.WriteString(intPart[i : i+3])
	}

	if fracPart == "" {
		return grouped.String()
	}
	return grouped.String() + decimal + fracPart
}

// Percentage formats a value already expressed in percentage units.
// e.g. Percentage(42.567, 1) -> "42.6%". NaN and infinities render as zero,
// so the absent-value case yields "0.0%" at one decimal.
func Percentage(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, v)
}

// Age renders how long ago something happened, coarsening with distance.
// e.g. Age(42*time.Second) -> "42s ago", Age(3*time.Hour) -> "3h ago".
func Age(d time.Duration) string {
	switch {
	case d < 10*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// CapitalizeFirst upper-cases the first rune only. Empty stays empty.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// The closed category set shared by the breakdown and prediction widgets.
// Unknown categories take the "other" styling.
var (
	categoryColors = map[string]lipgloss.Color{
		"food":          lipgloss.Color("#D14D41"),
		"transport":     lipgloss.Color("#4385BE"),
		"entertainment": lipgloss.Color("#CE5D97"),
		"utilities":     lipgloss.Color("#D0A215"),
		"healthcare":    lipgloss.Color("#3AA99F"),
		"shopping":      lipgloss.Color("#DA702C"),
		"other":         lipgloss.Color("#878580"),
	}

	categoryIcons = map[string]string{
		"food":          "🍜",
		"transport":     "🚗",
		"entertainment": "🎬",
		"utilities":     "💡",
		"healthcare":    "🏥",
		"shopping":      "🛍️",
		"other":         "📦",
	}
)

func normalizeCategory(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if _, ok := categoryColors[key]; !ok {
		return "other"
	}
	return key
}

// CategoryColor returns the display color for a spending category.
func CategoryColor(category string) lipgloss.Color {
	return categoryColors[normalizeCategory(category)]
}

// CategoryIcon returns the icon glyph for a spending category.
func CategoryIcon(category string) string {
	return categoryIcons[normalizeCategory(category)]
}

// IsPresentable reports whether a payload carries anything worth drawing.
// Nil values (typed or untyped) are not presentable; slices and maps must
// be non-empty; pointers are followed; everything else counts as data.
// Every widget gates on this before rendering.
func IsPresentable(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Invalid:
		return false
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Chan, reflect.Func:
		return !rv.IsNil()
	default:
		return true
	}
}
