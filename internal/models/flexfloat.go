package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat is a JSON value that upstream serves either as a number or as a
// numeric string ("12.5"). Decoding coerces to float64 when the token parses;
// otherwise the original token is preserved verbatim and no error is raised,
// so payloads like tMin:"n/a" pass through unchanged. JSON null decodes to
// the zero FlexFloat and marshals back as null.
type FlexFloat struct {
	Value float64
	Raw   string // original string token when coercion failed
	Valid bool   // true when Value holds a coerced number
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	if string(b) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.Value = n
		f.Valid = true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		f.Value = n
		f.Valid = true
		return nil
	}
	f.Raw = s
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if f.Valid {
		return json.Marshal(f.Value)
	}
	if f.Raw != "" {
		return json.Marshal(f.Raw)
	}
	return []byte("null"), nil
}
