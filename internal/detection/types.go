package detection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ObjectType classifies what a detector saw.
type ObjectType string

const (
	ObjectPerson  ObjectType = "person"
	ObjectVehicle ObjectType = "vehicle"
	ObjectAnimal  ObjectType = "animal"
)

// ObjectTypes returns the known object types in display order.
func ObjectTypes() []ObjectType {
	return []ObjectType{ObjectPerson, ObjectVehicle, ObjectAnimal}
}

// Known reports whether t is one of the enumerated object types.
func (t ObjectType) Known() bool {
	switch t {
	case ObjectPerson, ObjectVehicle, ObjectAnimal:
		return true
	}
	return false
}

// Score is a confidence value in [0,1]. Producers may serialize it either as a
// JSON number or as a numeric string; both decode to the same float.
type Score float64

// UnmarshalJSON accepts 0.42 and "0.42".
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("confidence score is null")
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode confidence score: %w", err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("parse confidence score %q: %w", text, err)
		}
		*s = Score(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode confidence score: %w", err)
	}
	*s = Score(v)
	return nil
}

// Float returns the score as a float64.
func (s Score) Float() float64 {
	return float64(s)
}

// Record describes a single object-detection event.
type Record struct {
	ID              int64      `json:"id"`
	Timestamp       string     `json:"timestamp"`
	CameraID        string     `json:"cameraId"`
	ObjectType      ObjectType `json:"objectType"`
	ConfidenceScore Score      `json:"confidenceScore"`
}

// ParsedTime returns the timestamp as time.Time, or the zero time when the
// value cannot be parsed.
func (r Record) ParsedTime() time.Time {
	return parseTime(r.Timestamp)
}

// Camera mirrors one entry of /cameras.
type Camera struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	StreamURL string `json:"streamUrl"`
}

// DecodeRecord parses a single JSON-encoded detection as delivered by the live
// stream or as one element of /detections.
func DecodeRecord(data []byte) (Record, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return Record{}, fmt.Errorf("decode detection: null record")
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode detection: %w", err)
	}
	return rec, nil
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
