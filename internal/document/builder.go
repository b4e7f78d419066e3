// Package document turns cleaned events into retrievable units and splits
// them into semantically coherent chunks.
package document

import (
	"fmt"
	"strings"

	"github.com/zaracky/POC-RAG-System/internal/openagenda"
)

// SourceTag marks every document built from the open-data feed.
const SourceTag = "opendatasoft"

// Document is the unit stored in the vector index: a text body plus the
// structured attributes needed for later filtering and display.
type Document struct {
	Body     string
	Metadata map[string]any
}

// Build maps events onto documents. The body concatenates, in fixed order,
// the normalized description, location fields, date fields and keywords; an
// event with no description still yields a document with a body synthesized
// from its remaining fields. Deterministic: the same events produce
// byte-identical bodies.
func Build(events []openagenda.Event) []Document {
	docs := make([]Document, 0, len(events))
	for _, ev := range events {
		docs = append(docs, Document{
			Body:     bodyFor(ev),
			Metadata: metadataFor(ev),
		})
	}
	return docs
}

func bodyFor(ev openagenda.Event) string {
	if ev.Description == "" {
		return fallbackBody(ev)
	}

	keywords := strings.Join(ev.Keywords, ", ")
	return ev.Description +
		" lieu: " + ev.Location.Name +
		" adresse: " + ev.Location.Address + " " + ev.Location.City + " " + ev.Location.PostalCode +
		" dates: " + ev.DateRange +
		" date de début: " + ev.BeginText +
		" date de fin: " + ev.EndText +
		" mots clés: " + keywords
}

// fallbackBody guarantees a non-empty body so no event is silently dropped
// for lack of a description.
func fallbackBody(ev openagenda.Event) string {
	body := fmt.Sprintf(
		"description: %s \nlieu: %s \nadresse: %s %s %s \ndates: %s",
		ev.Description, ev.Location.Name,
		ev.Location.Address, ev.Location.City, ev.Location.PostalCode,
		ev.DateRange,
	)
	if strings.TrimSpace(strings.NewReplacer("description:", "", "lieu:", "", "adresse:", "", "dates:", "").Replace(body)) == "" {
		return "événement " + ev.UID + " " + ev.Title
	}
	return body
}

func metadataFor(ev openagenda.Event) map[string]any {
	keywords := ev.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return map[string]any{
		"source":               SourceTag,
		"id":                   ev.UID,
		"title":                ev.Title,
		"description":          ev.Description,
		"firstdate_begin":      ev.BeginText,
		"lastdate_end":         ev.EndText,
		"daterange":            ev.DateRange,
		"location_name":        ev.Location.Name,
		"location_address":     ev.Location.Address,
		"location_city":        ev.Location.City,
		"location_postalcode":  ev.Location.PostalCode,
		"location_district":    ev.Location.District,
		"location_description": ev.Location.Description,
		"keywords":             keywords,
	}
}
