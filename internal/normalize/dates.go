package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Portuguese month names and their 3-letter abbreviations. Accented forms
// are listed next to their ASCII spellings since source pages use both.
var months = map[string]time.Month{
	"janeiro": time.January, "jan": time.January,
	"fevereiro": time.February, "fev": time.February,
	"março": time.March, "marco": time.March, "mar": time.March,
	"abril": time.April, "abr": time.April,
	"maio": time.May, "mai": time.May,
	"junho": time.June, "jun": time.June,
	"julho": time.July, "jul": time.July,
	"agosto": time.August, "ago": time.August,
	"setembro": time.September, "set": time.September,
	"outubro": time.October, "out": time.October,
	"novembro": time.November, "nov": time.November,
	"dezembro": time.December, "dez": time.December,
}

var (
	isoDateRe    = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dmyDateRe    = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{4})\b`)
	longDateRe   = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(?:de\s+)?([\p{L}]+)\.?\s*,?\s+(?:de\s+)?(\d{4})\b`)
	tripleDateRe = regexp.MustCompile(`\b(\d{1,2})\s+(\d{1,2})\s+(\d{4})\b`)
)

// ParseDate maps free-text Portuguese date expressions to a calendar date.
// Strategies are tried in order: ISO YYYY-MM-DD; DD.MM.YYYY with dot, dash
// or slash separators; long form "DD de <mês> de YYYY" / "DD <mês> YYYY"
// with full or abbreviated month names; bare "DD MM YYYY". When nothing
// parses the fallback (ingestion time) is returned with ok=false — callers
// must treat such dates as best effort, not as the true publication date.
func ParseDate(raw string, fallback time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return midnight(fallback), false
	}

	if m := isoDateRe.FindStringSubmatch(raw); m != nil {
		if d, ok := calendarDate(m[3], m[2], m[1]); ok {
			return d, true
		}
	}
	if m := dmyDateRe.FindStringSubmatch(raw); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := longDateRe.FindStringSubmatch(raw); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			if d, ok := calendarDate(m[1], strconv.Itoa(int(month)), m[3]); ok {
				return d, true
			}
		}
	}
	if m := tripleDateRe.FindStringSubmatch(raw); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	return midnight(fallback), false
}

// CombineSplitDate joins the parliament calendar layout's "DD.MM" block with
// its separate year block.
func CombineSplitDate(dayMonth, year string, fallback time.Time) (time.Time, bool) {
	dayMonth = strings.TrimSpace(dayMonth)
	year = strings.TrimSpace(year)
	parts := strings.Split(dayMonth, ".")
	if len(parts) == 2 && len(year) == 4 {
		if d, ok := calendarDate(parts[0], parts[1], year); ok {
			return d, true
		}
	}
	return ParseDate(dayMonth, fallback)
}

func calendarDate(day, month, year string) (time.Time, bool) {
	d, err1 := strconv.Atoi(strings.TrimSpace(day))
	m, err2 := strconv.Atoi(strings.TrimSpace(month))
	y, err3 := strconv.Atoi(strings.TrimSpace(year))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject those.
	if t.Day() != d || t.Month() != time.Month(m) {
		return time.Time{}, false
	}
	return t, true
}

func lookupMonth(name string) (time.Month, bool) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if m, ok := months[key]; ok {
		return m, true
	}
	runes := []rune(key)
	if len(runes) > 3 {
		if m, ok := months[string(runes[:3])]; ok {
			return m, true
		}
	}
	return 0, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
