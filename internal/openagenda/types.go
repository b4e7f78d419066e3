// Package openagenda fetches and filters cultural-event records from the
// opendatasoft "evenements-publics-openagenda" dataset.
package openagenda

import "time"

// Record is one raw row from the event API. Missing fields decode to their
// zero value, so every downstream step can rely on the field being present.
type Record struct {
	UID                 string      `json:"uid"`
	Title               string      `json:"title_fr"`
	Description         string      `json:"description_fr"`
	FirstDateBegin      string      `json:"firstdate_begin"`
	FirstDateEnd        string      `json:"firstdate_end"`
	LastDateBegin       string      `json:"lastdate_begin"`
	LastDateEnd         string      `json:"lastdate_end"`
	DateRange           string      `json:"daterange_fr"`
	LocationName        string      `json:"location_name"`
	LocationAddress     string      `json:"location_address"`
	LocationCity        string      `json:"location_city"`
	LocationPostalCode  string      `json:"location_postalcode"`
	LocationDistrict    string      `json:"location_district"`
	LocationDescription string      `json:"location_description_fr"`
	LocationCoordinates Coordinates `json:"location_coordinates"`
	Keywords            []string    `json:"keywords_fr"`
}

type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Event is a Record that survived deduplication and temporal filtering.
// Title and Description are normalized; Begin and End carry the parsed
// timestamps while BeginText and EndText hold the canonical string forms
// embedded into document bodies. Immutable once produced.
type Event struct {
	UID         string
	Title       string
	Description string
	Begin       time.Time
	End         time.Time
	BeginText   string
	EndText     string
	DateRange   string
	Location    EventLocation
	Keywords    []string
}

type EventLocation struct {
	Name        string
	Address     string
	City        string
	PostalCode  string
	District    string
	Description string
	Coordinates Coordinates
}
