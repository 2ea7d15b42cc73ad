package timeutil

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
)

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision, used for
// API timestamps.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision, used in logs.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// Time serializes as "2024-01-15T10:30:00.000Z" in both JSON and CBOR.
// JSON null leaves the value unchanged.
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// String formats t with millisecond precision in UTC.
func (t Time) String() string {
	return format(t.Time)
}

// format renders t as RFC3339Millis in UTC.
func format(t time.Time) string {
	return t.UTC().Format(RFC3339Millis)
}

// parse accepts RFC3339Millis and any other RFC 3339 variant.
func parse(s string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return parsed.UTC(), nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := parse(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalCBOR encodes the same text form as JSON instead of the promoted binary encoding of time.Time.
func (t Time) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(t.String())
}

func (t *Time) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := parse(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Schema describes Time as an OpenAPI date-time string.
func (t Time) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{Type: huma.TypeString, Format: "date-time"}
}
