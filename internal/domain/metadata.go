package domain

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
)

// Metadata is the parsed form of a record's JSON-encoded "metadata" string.
// Parse failure is not an error: Valid is false and only Raw is kept.
type Metadata struct {
	Raw   string `json:"raw"`
	Valid bool   `json:"valid"`

	// Entries holds the top-level members in document order with display-ready values.
	Entries []MetadataEntry `json:"entries,omitempty"`

	Unit        *string `json:"unit,omitempty"`
	ClimateType *string `json:"climate_type,omitempty"`
	StationID   *string `json:"station_id,omitempty"`

	DJF *float64 `json:"djf,omitempty"`
	JJA *float64 `json:"jja,omitempty"`
	MAM *float64 `json:"mam,omitempty"`
	SON *float64 `json:"son,omitempty"`

	WindDirection *float64 `json:"wind_direction,omitempty"`
	GustSpeed     *float64 `json:"gust_speed,omitempty"`

	Zone *string `json:"zone,omitempty"`
	Type *string `json:"type,omitempty"`
}

// MetadataEntry is one top-level key/value pair of the metadata blob.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseMetadata decodes a metadata blob. Only a JSON object counts as valid;
// each named sub-field is extracted independently and left nil when missing
// or of the wrong type.
func ParseMetadata(raw string) *Metadata {
	md := &Metadata{Raw: raw}

	members, ok := decodeOrderedObject(raw)
	if !ok {
		return md
	}
	md.Valid = true

	byKey := make(map[string]json.RawMessage, len(members))
	md.Entries = make([]MetadataEntry, 0, len(members))
	for _, m := range members {
		byKey[m.key] = m.value
		md.Entries = append(md.Entries, MetadataEntry{Key: m.key, Value: displayJSON(m.value)})
	}

	md.Unit = rawString(byKey["unit"])
	md.ClimateType = rawString(byKey["climate_type"])
	md.StationID = rawIdentifier(byKey["station_id"])
	md.DJF = rawNumber(byKey["djf"])
	md.JJA = rawNumber(byKey["jja"])
	md.MAM = rawNumber(byKey["mam"])
	md.SON = rawNumber(byKey["son"])
	md.WindDirection = rawNumber(byKey["wind_direction"])
	md.GustSpeed = rawNumber(byKey["gust_speed"])
	md.Zone = rawString(byKey["zone"])
	md.Type = rawString(byKey["type"])

	return md
}

type member struct {
	key   string
	value json.RawMessage
}

// decodeOrderedObject walks a JSON object token by token so member order is
// preserved, which encoding into a map would lose.
func decodeOrderedObject(raw string) ([]member, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		members = append(members, member{key: key, value: value})
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return members, true
}

// displayJSON renders a raw JSON value the way it is shown in a breakdown:
// strings unquoted, numbers in shortest form, containers as compact JSON.
func displayJSON(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err == nil {
			return buf.String()
		}
	case 't', 'f', 'n':
		return string(v)
	default:
		if f, err := strconv.ParseFloat(string(v), 64); err == nil {
			return formatNumber(f)
		}
	}
	return string(v)
}

func isNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) == 0 || string(v) == "null"
}

func rawString(v json.RawMessage) *string {
	var s string
	if isNull(v) || json.Unmarshal(v, &s) != nil || s == "" {
		return nil
	}
	return &s
}

func rawNumber(v json.RawMessage) *float64 {
	var f float64
	if isNull(v) || json.Unmarshal(v, &f) != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// rawIdentifier accepts an identifier encoded either as a string or a number.
func rawIdentifier(v json.RawMessage) *string {
	if s := rawString(v); s != nil {
		return s
	}
	if f := rawNumber(v); f != nil {
		s := formatNumber(*f)
		return &s
	}
	return nil
}
