package openagenda

import (
	"time"

	"github.com/zaracky/POC-RAG-System/internal/normalize"
)

// canonicalDate is the string form embedded into document bodies.
const canonicalDate = "2006-01-02 15:04:05"

// DefaultRetention keeps the index from serving events already long past
// while tolerating variance in when ingestion runs.
const DefaultRetention = 365 * 24 * time.Hour

// CleanOptions controls temporal filtering. RequireFutureEnd additionally
// drops events whose last occurrence has already concluded; the default
// policy filters on the start date only.
type CleanOptions struct {
	Now              time.Time
	Retention        time.Duration
	RequireFutureEnd bool
}

func (o CleanOptions) withDefaults() CleanOptions {
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	if o.Retention <= 0 {
		o.Retention = DefaultRetention
	}
	return o
}

// CleanEvents turns raw records into Events. Steps, in order: drop duplicate
// uids keeping the first occurrence, drop records missing uid/title/
// description, parse timestamps (unparsable records are dropped, never a
// failure), keep only events starting after now minus the retention horizon,
// optionally require the end date to still be in the future, then normalize
// the text fields and format the canonical date strings.
func CleanEvents(records []Record, opts CleanOptions) []Event {
	opts = opts.withDefaults()
	cutoff := opts.Now.Add(-opts.Retention)

	seen := make(map[string]bool, len(records))
	events := make([]Event, 0, len(records))

	for _, r := range records {
		// Dedupe before validation: an incomplete first occurrence still
		// claims its uid, so a later complete duplicate does not resurface.
		if r.UID != "" {
			if seen[r.UID] {
				continue
			}
			seen[r.UID] = true
		}
		if r.UID == "" || r.Title == "" || r.Description == "" {
			continue
		}

		begin, err := time.Parse(time.RFC3339, r.FirstDateBegin)
		if err != nil {
			continue
		}
		if !begin.After(cutoff) {
			continue
		}

		var end time.Time
		if r.LastDateEnd != "" {
			end, err = time.Parse(time.RFC3339, r.LastDateEnd)
			if err != nil {
				continue
			}
		}
		if opts.RequireFutureEnd && end.Before(opts.Now) {
			continue
		}

		endText := ""
		if !end.IsZero() {
			endText = end.Format(canonicalDate)
		}

		keywords := r.Keywords
		if keywords == nil {
			keywords = []string{}
		}

		events = append(events, Event{
			UID:         r.UID,
			Title:       normalize.Clean(r.Title),
			Description: normalize.Clean(r.Description),
			Begin:       begin,
			End:         end,
			BeginText:   begin.Format(canonicalDate),
			EndText:     endText,
			DateRange:   r.DateRange,
			Location: EventLocation{
				Name:        r.LocationName,
				Address:     r.LocationAddress,
				City:        r.LocationCity,
				PostalCode:  r.LocationPostalCode,
				District:    r.LocationDistrict,
				Description: r.LocationDescription,
				Coordinates: r.LocationCoordinates,
			},
			Keywords: keywords,
		})
	}
	return events
}
