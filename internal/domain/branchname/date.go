package branchname

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat selects how the creation date is rendered into the name.
type DateFormat string

const (
	DateISO     DateFormat = "YYYY-MM-DD"
	DateCompact DateFormat = "YYYYMMDD"
	DateShort   DateFormat = "YYMMDD"
	DateMonth   DateFormat = "YYYY-MM"

	DefaultDateFormat = DateISO
)

var dateLayouts = map[DateFormat]string{
	DateISO:     "2006-01-02",
	DateCompact: "20060102",
	DateShort:   "060102",
	DateMonth:   "2006-01",
}

// DateFormats lists the supported formats in display order.
func DateFormats() []DateFormat {
	return []DateFormat{DateISO, DateCompact, DateShort, DateMonth}
}

func ParseDateFormat(value string) (DateFormat, error) {
	format := DateFormat(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := dateLayouts[format]; !ok {
		return "", fmt.Errorf("unknown date format %q (want one of %s)", value, joinFormats(DateFormats()))
	}
	return format, nil
}

func (f DateFormat) Valid() bool {
	_, ok := dateLayouts[f]
	return ok
}

// FormatDate renders t with format. Unknown formats fall back to DateISO.
func FormatDate(t time.Time, format DateFormat) string {
	layout, ok := dateLayouts[format]
	if !ok {
		layout = dateLayouts[DefaultDateFormat]
	}
	return t.Format(layout)
}

func joinFormats(formats []DateFormat) string {
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}
