package travel

import "strings"

// Fallback synthesizes recommendation content from the destination alone.
// It is deterministic: the same destination always yields the same content.
func Fallback(destination string) Normalized {
	city, country := splitDestination(destination)

	return Normalized{
		Stage: StageFallback,
		Recommendations: []Item{
			{
				Name:              "Explore " + city,
				Type:              "activity",
				Description:       "Discover the amazing attractions and culture of " + city + ". This vibrant destination offers unique experiences for every traveler.",
				Rating:            "4.5/5",
				BestTimeToVisit:   "Year-round",
				EstimatedDuration: "2-3 days",
				Tips:              "Research local customs and try traditional cuisine in " + city,
			},
			{
				Name:              city + " City Center",
				Type:              "attraction",
				Description:       "The heart of " + city + " with its main attractions, shopping, and dining options.",
				Rating:            "4.3/5",
				BestTimeToVisit:   "Morning to evening",
				EstimatedDuration: "Half day",
				Tips:              "Use public transportation to get around easily",
			},
			{
				Name:              "Local Restaurants",
				Type:              "restaurant",
				Description:       "Experience authentic local cuisine at the best restaurants " + city + " has to offer.",
				Rating:            "4.4/5",
				BestTimeToVisit:   "Lunch and dinner",
				EstimatedDuration: "1-2 hours per meal",
				Tips:              "Make reservations in advance for popular spots",
			},
		},
		GeographicInfo: Info{
			"continent":      "To be determined",
			"country":        country,
			"region":         city + " region",
			"coordinates":    "Available on mapping services",
			"elevation":      "Variable",
			"time_zone":      "Local time zone",
			"local_currency": "Local currency",
			"languages":      []any{"Local languages"},
			"population":     city + " metropolitan area",
		},
		ClimateInfo: Info{
			"climate_type": "Temperate",
			"seasons": map[string]any{
				"spring": "Mild and pleasant weather",
				"summer": "Warm and comfortable",
				"fall":   "Cool with beautiful foliage",
				"winter": "Cool to cold temperatures",
			},
			"average_temperatures": map[string]any{
				"summer_high": "25°C (77°F)",
				"summer_low":  "15°C (59°F)",
				"winter_high": "10°C (50°F)",
				"winter_low":  "0°C (32°F)",
			},
			"rainfall":           "Moderate throughout the year",
			"best_travel_months": []any{"April", "May", "September", "October"},
		},
	}
}

// splitDestination returns the first comma-separated segment as the city
// and the last as the country. A destination without commas is both.
func splitDestination(destination string) (city, country string) {
	parts := strings.Split(destination, ",")
	city = strings.TrimSpace(parts[0])
	country = city
	if len(parts) > 1 {
		country = strings.TrimSpace(parts[len(parts)-1])
	}
	return city, country
}
