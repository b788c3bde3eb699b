package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/allankassio/ipma-weather-proxy-api/internal/models"
)

// newResolveClient returns a client whose localities cache is pre-seeded, so
// resolution tests never touch the network.
func newResolveClient(locs []models.Locality) *Client {
	c := New("http://unused.invalid", time.Second, testTTLs())
	c.localities.Set(localitiesKey, locs)
	return c
}

func intPtr(v int) *int { return &v }

// TestFindLocality_ExactBeatsSubstring verifies tier precedence: "porto"
// resolves to Porto even though it is also a substring of Porto Santo.
func TestFindLocality_ExactBeatsSubstring(t *testing.T) {
	c := newResolveClient([]models.Locality{
		{Local: "Porto", IDConcelho: 1, GlobalIDLocal: 10, IDDistrito: 13},
		{Local: "Porto Santo", IDConcelho: 2, GlobalIDLocal: 20, IDDistrito: 32},
	})

	got, err := c.FindLocality(context.Background(), "porto", nil)
	if err != nil {
		t.Fatalf("FindLocality() error = %v", err)
	}
	if got.GlobalIDLocal != 10 {
		t.Errorf("FindLocality() = %+v, want globalIdLocal 10 (exact match wins)", got)
	}
}

// TestFindLocality_NormalizesInput verifies trimming and case folding.
func TestFindLocality_NormalizesInput(t *testing.T) {
	c := newResolveClient([]models.Locality{
		{Local: "Lisboa", IDConcelho: 6, GlobalIDLocal: 1110600, IDDistrito: 11},
	})

	got, err := c.FindLocality(context.Background(), "  LISBOA  ", nil)
	if err != nil {
		t.Fatalf("FindLocality() error = %v", err)
	}
	if got.GlobalIDLocal != 1110600 {
		t.Errorf("FindLocality() = %+v, want Lisboa", got)
	}
}

// TestFindLocality_TieBreak verifies the smallest (idConcelho, globalIdLocal)
// pair wins among equal exact matches.
func TestFindLocality_TieBreak(t *testing.T) {
	tests := []struct {
		name string
		locs []models.Locality
		want int
	}{
		{
			name: "smaller idConcelho wins",
			locs: []models.Locality{
				{Local: "Sé", IDConcelho: 5, GlobalIDLocal: 100},
				{Local: "Sé", IDConcelho: 3, GlobalIDLocal: 200},
			},
			want: 200,
		},
		{
			name: "globalIdLocal breaks idConcelho tie",
			locs: []models.Locality{
				{Local: "Sé", IDConcelho: 3, GlobalIDLocal: 300},
				{Local: "Sé", IDConcelho: 3, GlobalIDLocal: 100},
			},
			want: 100,
		},
		{
			name: "missing idConcelho sorts last",
			locs: []models.Locality{
				{Local: "Sé", GlobalIDLocal: 100}, // no idConcelho
				{Local: "Sé", IDConcelho: 9, GlobalIDLocal: 200},
			},
			want: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newResolveClient(tt.locs)
			got, err := c.FindLocality(context.Background(), "sé", nil)
			if err != nil {
				t.Fatalf("FindLocality() error = %v", err)
			}
			if got.GlobalIDLocal != tt.want {
				t.Errorf("FindLocality() globalIdLocal = %d, want %d", got.GlobalIDLocal, tt.want)
			}
		})
	}
}

// TestFindLocality_DistrictFilter verifies district scoping at both tiers.
func TestFindLocality_DistrictFilter(t *testing.T) {
	locs := []models.Locality{
		{Local: "Santa Maria", IDConcelho: 1, GlobalIDLocal: 10, IDDistrito: 11},
		{Local: "Santa Maria", IDConcelho: 2, GlobalIDLocal: 20, IDDistrito: 13},
		{Local: "Santa Maria da Feira", IDConcelho: 4, GlobalIDLocal: 40, IDDistrito: 1},
	}

	t.Run("exact match scoped to district", func(t *testing.T) {
		c := newResolveClient(locs)
		got, err := c.FindLocality(context.Background(), "santa maria", intPtr(13))
		if err != nil {
			t.Fatalf("FindLocality() error = %v", err)
		}
		if got.GlobalIDLocal != 20 {
			t.Errorf("FindLocality() = %+v, want the district-13 record", got)
		}
	})

	t.Run("falls through to substring within district", func(t *testing.T) {
		// No exact "santa maria" in district 1, but the substring tier finds
		// Santa Maria da Feira there.
		c := newResolveClient(locs)
		got, err := c.FindLocality(context.Background(), "santa maria", intPtr(1))
		if err != nil {
			t.Fatalf("FindLocality() error = %v", err)
		}
		if got.GlobalIDLocal != 40 {
			t.Errorf("FindLocality() = %+v, want Santa Maria da Feira", got)
		}
	})

	t.Run("fails when no candidate in district", func(t *testing.T) {
		c := newResolveClient(locs)
		_, err := c.FindLocality(context.Background(), "santa maria", intPtr(99))
		if !errors.Is(err, ErrLocalityNotFound) {
			t.Errorf("FindLocality() error = %v, want ErrLocalityNotFound", err)
		}
	})
}

// TestFindLocality_SubstringTieBreak verifies the tie-break also applies at
// the substring tier.
func TestFindLocality_SubstringTieBreak(t *testing.T) {
	c := newResolveClient([]models.Locality{
		{Local: "Vila Nova de Gaia", IDConcelho: 17, GlobalIDLocal: 170},
		{Local: "Vila Nova de Famalicão", IDConcelho: 9, GlobalIDLocal: 90},
	})

	got, err := c.FindLocality(context.Background(), "vila nova", nil)
	if err != nil {
		t.Fatalf("FindLocality() error = %v", err)
	}
	if got.GlobalIDLocal != 90 {
		t.Errorf("FindLocality() = %+v, want smallest idConcelho among substring matches", got)
	}
}

// TestFindLocality_NotFound verifies an unresolvable name yields the
// resolution sentinel, not a transport-style error.
func TestFindLocality_NotFound(t *testing.T) {
	c := newResolveClient([]models.Locality{
		{Local: "Faro", IDConcelho: 5, GlobalIDLocal: 50, IDDistrito: 8},
	})

	_, err := c.FindLocality(context.Background(), "zzzznotreal", nil)
	if err == nil {
		t.Fatal("FindLocality() expected error, got nil")
	}
	if !errors.Is(err, ErrLocalityNotFound) {
		t.Errorf("FindLocality() error = %v, want ErrLocalityNotFound", err)
	}
	if errors.Is(err, ErrUpstreamStatus) {
		t.Error("FindLocality() miss must not look like an upstream failure")
	}
}
