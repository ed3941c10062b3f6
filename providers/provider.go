// Package providers defines the Provider record served by CareFinder and the
// postal-code prefix filter applied to search requests.
//
// A Provider is normalized once from the vendor feed and shared read-only by
// every request; code that needs to attach coordinates works on a Clone.
package providers

// Provider is a single healthcare provider normalized from the feed.
type Provider struct {
	Name              string   `json:"name"`
	Address           string   `json:"address"`
	Specialty         string   `json:"specialty"`
	InsuranceAccepted []string `json:"insurance_accepted"`
	Contact           string   `json:"contact"`
	ZipCode           string   `json:"zip_code"`
	// Lat and Lng are nil until geocoded; search results always carry both
	// keys, null when geocoding failed or was rejected.
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Clone returns a deep copy of p. An empty non-nil plan list stays non-nil so
// it still encodes as [].
func (p Provider) Clone() Provider {
	out := p
	if p.InsuranceAccepted != nil {
		out.InsuranceAccepted = make([]string, len(p.InsuranceAccepted))
		copy(out.InsuranceAccepted, p.InsuranceAccepted)
	}
	if p.Lat != nil {
		lat := *p.Lat
		out.Lat = &lat
	}
	if p.Lng != nil {
		lng := *p.Lng
		out.Lng = &lng
	}
	return out
}

// WithCoordinates returns a copy of p located at lat/lng.
func (p Provider) WithCoordinates(lat, lng float64) Provider {
	out := p.Clone()
	out.Lat = &lat
	out.Lng = &lng
	return out
}
