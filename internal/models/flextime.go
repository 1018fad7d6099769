package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// FlexTime is a timestamp that unmarshals from an RFC 3339 string, a numeric
// epoch-seconds value, or an object with a "seconds" field. Clients send
// proposed dates in whichever of these forms their SDK produces; the server
// normalizes them to one instant. It always marshals as RFC 3339.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Seconds *int64 `json:"seconds"`
			Secs    *int64 `json:"_seconds"`
			Nanos   int64  `json:"nanoseconds"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid timestamp object: %w", err)
		}
		secs := obj.Seconds
		if secs == nil {
			secs = obj.Secs
		}
		if secs == nil {
			return fmt.Errorf("timestamp object missing seconds field")
		}
		t.Time = time.Unix(*secs, obj.Nanos).UTC()
		return nil
	}

	var epoch float64
	if err := json.Unmarshal(data, &epoch); err != nil {
		return fmt.Errorf("invalid timestamp value: %w", err)
	}
	secs, frac := math.Modf(epoch)
	t.Time = time.Unix(int64(secs), int64(frac*float64(time.Second))).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}
