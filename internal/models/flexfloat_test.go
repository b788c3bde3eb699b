package models

import (
	"encoding/json"
	"testing"
)

// TestFlexFloat_Unmarshal verifies coercion of numbers, numeric strings,
// non-numeric strings, and null.
func TestFlexFloat_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue float64
		wantRaw   string
	}{
		{
			name:      "number",
			input:     `12.5`,
			wantValid: true,
			wantValue: 12.5,
		},
		{
			name:      "numeric string",
			input:     `"12.5"`,
			wantValid: true,
			wantValue: 12.5,
		},
		{
			name:      "numeric string with spaces",
			input:     `" -3.0 "`,
			wantValid: true,
			wantValue: -3.0,
		},
		{
			name:      "non-numeric string preserved",
			input:     `"n/a"`,
			wantValid: false,
			wantRaw:   "n/a",
		},
		{
			name:      "null",
			input:     `null`,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if f.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", f.Valid, tt.wantValid)
			}
			if f.Valid && f.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", f.Value, tt.wantValue)
			}
			if f.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", f.Raw, tt.wantRaw)
			}
		})
	}
}

// TestFlexFloat_Marshal verifies that coerced values marshal as numbers,
// uncoercible tokens marshal back verbatim, and the zero value is null.
func TestFlexFloat_Marshal(t *testing.T) {
	tests := []struct {
		name  string
		input FlexFloat
		want  string
	}{
		{
			name:  "coerced number",
			input: FlexFloat{Value: 12.5, Valid: true},
			want:  `12.5`,
		},
		{
			name:  "preserved token",
			input: FlexFloat{Raw: "n/a"},
			want:  `"n/a"`,
		},
		{
			name:  "zero value is null",
			input: FlexFloat{},
			want:  `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.input)
			if err != nil {
				t.Fatalf("Marshal(%+v) error = %v", tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal(%+v) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestDayForecast_Decode verifies that a mixed-type upstream day record
// decodes with numeric coercion applied field by field.
func TestDayForecast_Decode(t *testing.T) {
	raw := `{
		"forecastDate": "2026-01-15",
		"tMin": "8.3",
		"tMax": 15.1,
		"precipitaProb": "n/a",
		"predWindDir": "NW",
		"idWeatherType": 3,
		"classWindSpeed": 2,
		"latitude": "38.7660",
		"longitude": null
	}`

	var day DayForecast
	if err := json.Unmarshal([]byte(raw), &day); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if !day.TMin.Valid || day.TMin.Value != 8.3 {
		t.Errorf("TMin = %+v, want coerced 8.3", day.TMin)
	}
	if !day.TMax.Valid || day.TMax.Value != 15.1 {
		t.Errorf("TMax = %+v, want coerced 15.1", day.TMax)
	}
	if day.PrecipitaProb.Valid || day.PrecipitaProb.Raw != "n/a" {
		t.Errorf("PrecipitaProb = %+v, want preserved n/a", day.PrecipitaProb)
	}
	if !day.Latitude.Valid || day.Latitude.Value != 38.766 {
		t.Errorf("Latitude = %+v, want coerced 38.766", day.Latitude)
	}
	if day.Longitude.Valid || day.Longitude.Raw != "" {
		t.Errorf("Longitude = %+v, want null zero value", day.Longitude)
	}
	if day.ClassWindSpeed == nil || *day.ClassWindSpeed != 2 {
		t.Errorf("ClassWindSpeed = %v, want 2", day.ClassWindSpeed)
	}
}
