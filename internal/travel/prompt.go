package travel

import (
	"fmt"
	"strings"
)

// SystemMessage is the persona sent with every chat completion.
const SystemMessage = "You are an expert travel guide and geographic information specialist. " +
	"Provide comprehensive, accurate travel recommendations with detailed geographic and climate information. " +
	"Always format your responses in clear, structured JSON format."

const responseTemplate = `{
    "recommendations": [
        {
            "name": "Attraction/Restaurant/Activity Name",
            "type": "attraction",
            "description": "Clear, informative description",
            "rating": "4.5/5",
            "best_time_to_visit": "Best visiting time",
            "estimated_duration": "Time needed",
            "tips": "Practical visitor tips"
        }
    ],
    "geographic_info": {
        "continent": "Continent Name",
        "country": "Country Name",
        "region": "State/Province/Region",
        "coordinates": "Latitude, Longitude",
        "elevation": "Elevation above sea level",
        "time_zone": "Time zone (e.g., GMT+9)",
        "local_currency": "Currency name and code",
        "languages": ["Primary language", "Secondary language"],
        "population": "Population of city/region"
    },
    "climate_info": {
        "climate_type": "Climate classification",
        "seasons": {
            "spring": "Spring weather description",
            "summer": "Summer weather description",
            "fall": "Fall weather description",
            "winter": "Winter weather description"
        },
        "average_temperatures": {
            "summer_high": "°C (°F)",
            "summer_low": "°C (°F)",
            "winter_high": "°C (°F)",
            "winter_low": "°C (°F)"
        },
        "rainfall": "Annual rainfall description",
        "best_travel_months": ["Month1", "Month2", "Month3"]
    }
}`

// BuildPrompt renders the user prompt for q. It is a pure function of q.
func BuildPrompt(q Query) string {
	var b strings.Builder

	fmt.Fprintf(&b, "DESTINATION: %s\n", q.Destination)
	if p := strings.TrimSpace(q.Preferences); p != "" {
		fmt.Fprintf(&b, "PREFERENCES: %s\n", p)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "You are a travel expert. Provide ONLY a valid JSON response (no other text) "+
		"with comprehensive travel information for %s. Use this exact structure:\n\n", q.Destination)
	b.WriteString(responseTemplate)
	b.WriteString("\n\n")
	b.WriteString("Include 8-10 diverse recommendations (attractions, restaurants, activities, hotels). " +
		"Ensure all data is accurate and current. RESPOND ONLY WITH VALID JSON.\n")

	return b.String()
}
