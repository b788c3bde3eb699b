package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/allankassio/ipma-weather-proxy-api/internal/models"
	"github.com/allankassio/ipma-weather-proxy-api/internal/observability"
)

// missingSortID sorts records lacking idConcelho or globalIdLocal last during
// tie-breaking. Upstream ids are positive, so a decoded zero means the field
// was absent.
const missingSortID = 1 << 30

// FindLocality resolves a human-entered locality name to its reference
// record. Exact case-insensitive matches are preferred over substring matches
// so "Porto" is not overshadowed by "Porto Santo". When districtID is set,
// candidates are restricted to that district at both tiers. Ambiguous names
// are broken by the smallest (idConcelho, globalIdLocal) pair, which keeps
// repeated lookups stable across runs and cache refreshes. Uses the
// localities cache; adds no caching of its own.
func (c *Client) FindLocality(ctx context.Context, name string, districtID *int) (models.Locality, error) {
	locs, err := c.Localities(ctx)
	if err != nil {
		return models.Locality{}, err
	}

	norm := strings.ToLower(strings.TrimSpace(name))

	if best, ok := pickBest(locs, districtID, func(local string) bool {
		return local == norm
	}); ok {
		observability.LocalityResolutionsTotal.WithLabelValues("exact").Inc()
		return best, nil
	}

	if best, ok := pickBest(locs, districtID, func(local string) bool {
		return strings.Contains(local, norm)
	}); ok {
		observability.LocalityResolutionsTotal.WithLabelValues("substring").Inc()
		return best, nil
	}

	observability.LocalityResolutionsTotal.WithLabelValues("miss").Inc()
	return models.Locality{}, fmt.Errorf("%w: %q", ErrLocalityNotFound, name)
}

// pickBest scans locs for records whose lower-cased name satisfies match and,
// when districtID is set, whose idDistrito equals it, returning the candidate
// with the smallest (idConcelho, globalIdLocal) pair.
func pickBest(locs []models.Locality, districtID *int, match func(localLower string) bool) (models.Locality, bool) {
	var best models.Locality
	found := false
	for _, l := range locs {
		if !match(strings.ToLower(l.Local)) {
			continue
		}
		if districtID != nil && l.IDDistrito != *districtID {
			continue
		}
		if !found || tieBreakLess(l, best) {
			best = l
			found = true
		}
	}
	return best, found
}

func tieBreakLess(a, b models.Locality) bool {
	ac, bc := sortID(a.IDConcelho), sortID(b.IDConcelho)
	if ac != bc {
		return ac < bc
	}
	return sortID(a.GlobalIDLocal) < sortID(b.GlobalIDLocal)
}

func sortID(v int) int {
	if v == 0 {
		return missingSortID
	}
	return v
}
