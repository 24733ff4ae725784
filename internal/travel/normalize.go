package travel

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Stage records which step of Normalize produced the result.
type Stage int

const (
	// StageParsed means the whole model reply was a JSON object.
	StageParsed Stage = iota + 1
	// StageExtracted means a JSON object was found inside surrounding text.
	StageExtracted
	// StageFallback means nothing could be parsed and the result was synthesized.
	StageFallback
)

func (s Stage) String() string {
	switch s {
	case StageParsed:
		return "parsed"
	case StageExtracted:
		return "extracted"
	case StageFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Normalized is the schema-conformant content of a recommendation.
// Recommendations, GeographicInfo and ClimateInfo are never nil.
type Normalized struct {
	Stage           Stage
	Recommendations []Item
	GeographicInfo  Info
	ClimateInfo     Info
}

// Normalize reduces a raw model reply into Normalized content for destination.
// Steps run in order, each only if the previous one failed: parse the whole
// text, extract the first-'{'-to-last-'}' substring, synthesize a fallback.
func Normalize(raw, destination string) Normalized {
	if doc, ok := parseObject(raw); ok {
		return fromDocument(StageParsed, doc)
	}
	if doc, ok := extractObject(raw); ok {
		return fromDocument(StageExtracted, doc)
	}
	return Fallback(destination)
}

// parseObject decodes text as exactly one JSON object.
func parseObject(text string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}

	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

// extractObject parses the greedy substring between the first '{' and the
// last '}' in text.
func extractObject(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, false
	}
	return parseObject(text[start : end+1])
}

// fromDocument reads the three known keys from doc, defaulting anything
// missing or of the wrong shape to empty.
func fromDocument(stage Stage, doc map[string]any) Normalized {
	return Normalized{
		Stage:           stage,
		Recommendations: itemsFrom(doc["recommendations"]),
		GeographicInfo:  infoFrom(doc["geographic_info"]),
		ClimateInfo:     infoFrom(doc["climate_info"]),
	}
}

func itemsFrom(v any) []Item {
	list, _ := v.([]any)
	items := make([]Item, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, Item{
			Name:              text(obj["name"]),
			Type:              text(obj["type"]),
			Description:       text(obj["description"]),
			Rating:            text(obj["rating"]),
			BestTimeToVisit:   text(obj["best_time_to_visit"]),
			EstimatedDuration: text(obj["estimated_duration"]),
			Tips:              text(obj["tips"]),
		})
	}
	return items
}

func infoFrom(v any) Info {
	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return Info{}
	}
	return Info(obj)
}

// text renders a decoded JSON value as a string field.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
