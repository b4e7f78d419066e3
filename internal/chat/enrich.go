package chat

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var frenchMonths = map[string]time.Month{
	"janvier": time.January, "février": time.February, "fevrier": time.February,
	"mars": time.March, "avril": time.April, "mai": time.May, "juin": time.June,
	"juillet": time.July, "août": time.August, "aout": time.August,
	"septembre": time.September, "octobre": time.October,
	"novembre": time.November, "décembre": time.December, "decembre": time.December,
}

var frenchWeekdays = map[string]time.Weekday{
	"lundi": time.Monday, "mardi": time.Tuesday, "mercredi": time.Wednesday,
	"jeudi": time.Thursday, "vendredi": time.Friday, "samedi": time.Saturday,
	"dimanche": time.Sunday,
}

var frenchDayNames = []string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

var frenchMonthNames = []string{"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre"}

// weekdayPrefix is folded into the explicit-date patterns so "samedi 20
// juillet" reads as one expression instead of a weekday plus a separate date.
const weekdayPrefix = `(?:(?:lundi|mardi|mercredi|jeudi|vendredi|samedi|dimanche)\s+)?`

var (
	weekendRe  = regexp.MustCompile(`(?i)ce\s+week-?end`)
	isoRe      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	numericRe  = regexp.MustCompile(`(?i)\b` + weekdayPrefix + `(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	dayMonthRe = regexp.MustCompile(`(?i)\b` + weekdayPrefix + `(\d{1,2})(?:er)?\s+(janvier|février|fevrier|mars|avril|mai|juin|juillet|août|aout|septembre|octobre|novembre|décembre|decembre)(?:\s+(\d{4}))?\b`)
	relativeRe = regexp.MustCompile(`(?i)\b(après-demain|apres-demain|demain|aujourd'hui)\b`)
	weekdayRe  = regexp.MustCompile(`(?i)\b(lundi|mardi|mercredi|jeudi|vendredi|samedi|dimanche)\b`)
)

// FormatFrenchDate renders "mardi 15 juillet 2025", the form injected into
// prompts so relative expressions resolve against today.
func FormatFrenchDate(t time.Time) string {
	return fmt.Sprintf("%s %02d %s %d",
		frenchDayNames[int(t.Weekday())], t.Day(), frenchMonthNames[int(t.Month())-1], t.Year())
}

// NextWeekend returns the upcoming Saturday and Sunday relative to now
// (today, when now already is Saturday).
func NextWeekend(now time.Time) (time.Time, time.Time) {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	sat := now.AddDate(0, 0, days)
	return sat, sat.AddDate(0, 0, 1)
}

// RewriteWeekend replaces the "ce week-end" idiom with an explicit date
// range anchored to the upcoming Saturday and Sunday.
func RewriteWeekend(question string, now time.Time) string {
	if !weekendRe.MatchString(question) {
		return question
	}
	sat, sun := NextWeekend(now)
	return weekendRe.ReplaceAllString(question,
		fmt.Sprintf("entre %s et %s", sat.Format(isoDate), sun.Format(isoDate)))
}

type detectedDate struct {
	start int
	end   int
	date  time.Time
}

// preferFuture pushes a year-less date into the future when its default
// reading already passed.
func preferFuture(candidate, now time.Time, yearGiven bool) time.Time {
	if !yearGiven && candidate.Before(now.Truncate(24*time.Hour)) {
		return candidate.AddDate(1, 0, 0)
	}
	return candidate
}

// searchDates finds natural-language date expressions in order of
// appearance, preferring future-dated interpretations. Overlapping matches
// keep the earliest-starting expression.
func searchDates(q string, now time.Time) []detectedDate {
	var found []detectedDate

	for _, m := range isoRe.FindAllStringSubmatchIndex(q, -1) {
		if t, err := time.Parse(isoDate, q[m[0]:m[1]]); err == nil {
			found = append(found, detectedDate{m[0], m[1], t})
		}
	}

	for _, m := range dayMonthRe.FindAllStringSubmatchIndex(q, -1) {
		day, _ := strconv.Atoi(q[m[2]:m[3]])
		month, ok := frenchMonths[strings.ToLower(q[m[4]:m[5]])]
		if !ok || day < 1 || day > 31 {
			continue
		}
		year := now.Year()
		yearGiven := m[6] >= 0
		if yearGiven {
			year, _ = strconv.Atoi(q[m[6]:m[7]])
		}
		t := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
		found = append(found, detectedDate{m[0], m[1], preferFuture(t, now, yearGiven)})
	}

	for _, m := range numericRe.FindAllStringSubmatchIndex(q, -1) {
		day, _ := strconv.Atoi(q[m[2]:m[3]])
		month, _ := strconv.Atoi(q[m[4]:m[5]])
		if day < 1 || day > 31 || month < 1 || month > 12 {
			continue
		}
		year := now.Year()
		yearGiven := m[6] >= 0
		if yearGiven {
			year, _ = strconv.Atoi(q[m[6]:m[7]])
			if year < 100 {
				year += 2000
			}
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		found = append(found, detectedDate{m[0], m[1], preferFuture(t, now, yearGiven)})
	}

	for _, m := range relativeRe.FindAllStringSubmatchIndex(q, -1) {
		var t time.Time
		switch strings.ToLower(q[m[0]:m[1]]) {
		case "aujourd'hui":
			t = now
		case "demain":
			t = now.AddDate(0, 0, 1)
		default: // après-demain
			t = now.AddDate(0, 0, 2)
		}
		found = append(found, detectedDate{m[0], m[1], t})
	}

	for _, m := range weekdayRe.FindAllStringSubmatchIndex(q, -1) {
		wd := frenchWeekdays[strings.ToLower(q[m[0]:m[1]])]
		days := (int(wd) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		found = append(found, detectedDate{m[0], m[1], now.AddDate(0, 0, days)})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })

	var out []detectedDate
	prevEnd := -1
	for _, d := range found {
		if d.start < prevEnd {
			continue
		}
		out = append(out, d)
		prevEnd = d.end
	}
	return out
}

// EnrichQuestion rewrites the question for retrieval: weekend idiom becomes
// an explicit range, detected date expressions are substituted with ISO
// dates, the current date and optional city are appended, and a "période
// ciblée" annotation is added from the first (and second, if present)
// detected expression.
func EnrichQuestion(question string, now time.Time, city string) string {
	q := RewriteWeekend(question, now)

	dates := searchDates(q, now)
	for i := len(dates) - 1; i >= 0; i-- {
		d := dates[i]
		q = q[:d.start] + d.date.Format(isoDate) + q[d.end:]
	}

	enriched := fmt.Sprintf("Réponds toujours en français. %s (Nous sommes le %s)", q, FormatFrenchDate(now))
	if city != "" {
		enriched += fmt.Sprintf(" (Je suis à %s)", city)
	}

	if len(dates) > 0 {
		enriched += fmt.Sprintf("\n(période ciblée : du %s", dates[0].date.Format(isoDate))
		if len(dates) > 1 {
			enriched += fmt.Sprintf(" au %s)", dates[1].date.Format(isoDate))
		} else {
			enriched += ")"
		}
	}
	return enriched
}
