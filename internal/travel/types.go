package travel

import "time"

// Query is the input to a recommendation request.
type Query struct {
	Destination string `json:"destination"`
	Preferences string `json:"preferences,omitempty"`
}

// Item is a single recommended place or activity.
// All fields are free text; Rating is typically "X.Y/5".
type Item struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	Description       string `json:"description"`
	Rating            string `json:"rating"`
	BestTimeToVisit   string `json:"best_time_to_visit"`
	EstimatedDuration string `json:"estimated_duration"`
	Tips              string `json:"tips"`
}

// Info is a free-form JSON object such as geographic_info or climate_info.
type Info map[string]any

// Recommendation is the canonical record returned to clients and persisted.
type Recommendation struct {
	ID              string    `json:"id"`
	Query           string    `json:"query"`
	Recommendations []Item    `json:"recommendations"`
	GeographicInfo  Info      `json:"geographic_info"`
	ClimateInfo     Info      `json:"climate_info"`
	CreatedAt       time.Time `json:"created_at"`
}
