// Package selection holds the claim list partition and bulk-action state.
package selection

import (
	"fmt"
	"strings"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// ClaimFilter partitions the claim list view.
type ClaimFilter string

const (
	FilterOpen   ClaimFilter = "open"
	FilterClosed ClaimFilter = "closed"
	FilterAll    ClaimFilter = "all"
)

// ParseClaimFilter accepts open, closed or all (case-insensitive). An empty
// value selects all.
func ParseClaimFilter(raw string) (ClaimFilter, error) {
	switch f := ClaimFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterAll, nil
	case FilterOpen, FilterClosed, FilterAll:
		return f, nil
	}
	return "", fmt.Errorf("unknown claim filter %q", raw)
}

// ApplyFilter returns the claims matching filter in their input order.
func ApplyFilter(claims []domain.Claim, filter ClaimFilter) []domain.Claim {
	out := make([]domain.Claim, 0, len(claims))
	for i := range claims {
		if matches(&claims[i], filter) {
			out = append(out, claims[i])
		}
	}
	return out
}

func matches(c *domain.Claim, filter ClaimFilter) bool {
	switch filter {
	case FilterOpen:
		return c.IsOpen()
	case FilterClosed:
		return !c.IsOpen()
	case FilterAll:
		return true
	}
	return false
}
