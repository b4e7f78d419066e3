// Package geo resolves the user's approximate location from their IP.
package geo

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

const DefaultEndpoint = "https://ipapi.co/json/"

type Location struct {
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Resolver looks up the caller's location with a bounded timeout. Any
// failure degrades to the configured default location; geolocation must
// never block the conversational flow.
type Resolver struct {
	Endpoint string
	HTTP     *http.Client
	Default  Location
}

func NewResolver(timeout time.Duration, fallback Location) *Resolver {
	return &Resolver{
		Endpoint: DefaultEndpoint,
		HTTP:     &http.Client{Timeout: timeout},
		Default:  fallback,
	}
}

func (r *Resolver) Locate(ctx context.Context) Location {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Endpoint, nil)
	if err != nil {
		return r.Default
	}

	resp, err := r.HTTP.Do(req)
	if err != nil {
		log.Printf("geolocation lookup failed: %v", err)
		return r.Default
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("geolocation lookup failed: status %d", resp.StatusCode)
		return r.Default
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		log.Printf("geolocation response malformed: %v", err)
		return r.Default
	}
	if loc.City == "" {
		return r.Default
	}
	return loc
}
