package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaracky/POC-RAG-System/internal/openagenda"
)

func sampleEvent() openagenda.Event {
	return openagenda.Event{
		UID:         "e1",
		Title:       "festival de jazz",
		Description: "un grand festival de jazz",
		Begin:       time.Date(2025, 7, 15, 20, 0, 0, 0, time.UTC),
		BeginText:   "2025-07-15 20:00:00",
		EndText:     "2025-07-16 23:00:00",
		DateRange:   "15 - 16 juillet 2025",
		Location: openagenda.EventLocation{
			Name:       "Halle aux Grains",
			Address:    "1 place Dupuy",
			City:       "Toulouse",
			PostalCode: "31000",
		},
		Keywords: []string{"jazz", "concert"},
	}
}

func TestBuildBodyOrder(t *testing.T) {
	docs := Build([]openagenda.Event{sampleEvent()})

	require.Len(t, docs, 1)
	body := docs[0].Body
	assert.Equal(t,
		"un grand festival de jazz lieu: Halle aux Grains adresse: 1 place Dupuy Toulouse 31000"+
			" dates: 15 - 16 juillet 2025 date de début: 2025-07-15 20:00:00"+
			" date de fin: 2025-07-16 23:00:00 mots clés: jazz, concert",
		body)
}

func TestBuildIsDeterministic(t *testing.T) {
	events := []openagenda.Event{sampleEvent(), sampleEvent()}
	events[1].UID = "e2"

	first := Build(events)
	second := Build(events)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Body, second[i].Body)
	}
}

func TestBuildFallbackBodyWhenDescriptionMissing(t *testing.T) {
	ev := sampleEvent()
	ev.Description = ""

	docs := Build([]openagenda.Event{ev})

	require.Len(t, docs, 1)
	assert.NotEmpty(t, docs[0].Body)
	assert.Contains(t, docs[0].Body, "lieu: Halle aux Grains")
	assert.Contains(t, docs[0].Body, "Toulouse")
}

func TestBuildFallbackBodyWhenAlmostEverythingMissing(t *testing.T) {
	ev := openagenda.Event{UID: "e9", Title: "sans détails"}

	docs := Build([]openagenda.Event{ev})

	require.Len(t, docs, 1)
	assert.NotEmpty(t, docs[0].Body)
	assert.Contains(t, docs[0].Body, "e9")
}

func TestBuildMetadata(t *testing.T) {
	docs := Build([]openagenda.Event{sampleEvent()})

	require.Len(t, docs, 1)
	md := docs[0].Metadata
	assert.Equal(t, SourceTag, md["source"])
	assert.Equal(t, "e1", md["id"])
	assert.Equal(t, "festival de jazz", md["title"])
	assert.Equal(t, "2025-07-15 20:00:00", md["firstdate_begin"])
	assert.Equal(t, "Toulouse", md["location_city"])
	assert.Equal(t, []string{"jazz", "concert"}, md["keywords"])
}

func TestBuildMetadataDefaultsForOptionalFields(t *testing.T) {
	ev := sampleEvent()
	ev.Keywords = nil
	ev.EndText = ""
	ev.Location.District = ""

	docs := Build([]openagenda.Event{ev})

	md := docs[0].Metadata
	assert.Equal(t, []string{}, md["keywords"])
	assert.Equal(t, "", md["lastdate_end"])
	assert.Equal(t, "", md["location_district"])
}
