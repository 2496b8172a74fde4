package views

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
	language.Spanish,
}

// Abbreviated month names, indexed like supportedLocales.
var monthNames = [][12]string{
	{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
}

var localeMatcher = language.NewMatcher(supportedLocales)

// DateFormatter renders publication dates as "dd MMM yyyy" in a locale and
// time zone, e.g. "05 mar 2022" for pt-BR.
type DateFormatter struct {
	location *time.Location
	months   [12]string
}

// NewDateFormatter resolves locale to the closest supported language and
// loads the named time zone. An empty timezone means UTC.
func NewDateFormatter(locale, timezone string) (*DateFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	_, index, _ := localeMatcher.Match(tag)

	location := time.UTC
	if timezone != "" {
		location, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
	}

	return &DateFormatter{location: location, months: monthNames[index]}, nil
}

// Format returns the formatted date, or "" for a post never published.
func (f *DateFormatter) Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	local := t.In(f.location)
	return fmt.Sprintf("%02d %s %d", local.Day(), f.months[local.Month()-1], local.Year())
}
