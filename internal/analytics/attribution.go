package analytics

import (
	"time"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// AllBuilderGroups disables builder scoping.
const AllBuilderGroups = "all"

// DefaultActiveWindow is how long after closing a homeowner counts as active.
const DefaultActiveWindow = 365 * 24 * time.Hour

// FilterHomeowners keeps homeowners belonging to builderGroup. An empty
// group or AllBuilderGroups passes every homeowner through.
func FilterHomeowners(homeowners []domain.Homeowner, builderGroup string) []domain.Homeowner {
	if builderGroup == "" || builderGroup == AllBuilderGroups {
		return homeowners
	}
	filtered := make([]domain.Homeowner, 0, len(homeowners))
	for _, h := range homeowners {
		if h.BuilderID == builderGroup {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// AttributeClaim re-joins a claim's name/address snapshot against the live
// homeowner list. The first exact match wins; no match is a normal result
// when the homeowner was renamed or removed after submission.
func AttributeClaim(claim domain.Claim, homeowners []domain.Homeowner) (*domain.Homeowner, bool) {
	for i := range homeowners {
		if homeowners[i].Name == claim.HomeownerName && homeowners[i].Address == claim.Address {
			return &homeowners[i], true
		}
	}
	return nil, false
}

// Attribution pairs a claim with the homeowner it resolved to.
type Attribution struct {
	Claim       domain.Claim
	HomeownerID string
}

// AttributeClaims resolves every claim that matches a homeowner, preserving
// claim order and dropping the rest.
func AttributeClaims(claims []domain.Claim, homeowners []domain.Homeowner) []Attribution {
	index := make(map[homeownerKey]string, len(homeowners))
	for _, h := range homeowners {
		key := homeownerKey{name: h.Name, address: h.Address}
		if _, exists := index[key]; !exists {
			index[key] = h.ID
		}
	}

	result := make([]Attribution, 0, len(claims))
	for _, c := range claims {
		id, ok := index[homeownerKey{name: c.HomeownerName, address: c.Address}]
		if !ok {
			continue
		}
		result = append(result, Attribution{Claim: c, HomeownerID: id})
	}
	return result
}

type homeownerKey struct {
	name    string
	address string
}

// FilterClaims keeps the claims that attribute to one of homeowners.
func FilterClaims(claims []domain.Claim, homeowners []domain.Homeowner) []domain.Claim {
	attributed := AttributeClaims(claims, homeowners)
	filtered := make([]domain.Claim, 0, len(attributed))
	for _, a := range attributed {
		filtered = append(filtered, a.Claim)
	}
	return filtered
}

// CountActiveHomeowners counts homeowners who closed within window of now.
func CountActiveHomeowners(homeowners []domain.Homeowner, now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	count := 0
	for _, h := range homeowners {
		if h.ClosingDate.IsZero() {
			continue
		}
		if !h.ClosingDate.Before(cutoff) {
			count++
		}
	}
	return count
}

// CountClaimants counts distinct homeowners with at least one claim.
func CountClaimants(attributed []Attribution) int {
	return countDistinct(attributed, func(domain.Claim) bool { return true })
}

// CountApprovedClaimants counts distinct homeowners with an approved claim.
func CountApprovedClaimants(attributed []Attribution) int {
	return countDistinct(attributed, func(c domain.Claim) bool { return c.IsApproved() })
}

func countDistinct(attributed []Attribution, keep func(domain.Claim) bool) int {
	seen := make(map[string]struct{})
	for _, a := range attributed {
		if keep(a.Claim) {
			seen[a.HomeownerID] = struct{}{}
		}
	}
	return len(seen)
}

// NeedsAttentionClaims returns claims flagged Needs Attention.
func NeedsAttentionClaims(claims []domain.Claim) []domain.Claim {
	return selectClaims(claims, func(c *domain.Claim) bool { return c.NeedsAttention() })
}

// InProcessAndNewClaims returns claims that are submitted or being scheduled.
func InProcessAndNewClaims(claims []domain.Claim) []domain.Claim {
	return selectClaims(claims, func(c *domain.Claim) bool { return c.IsInProcessOrNew() })
}

func selectClaims(claims []domain.Claim, keep func(*domain.Claim) bool) []domain.Claim {
	out := make([]domain.Claim, 0)
	for i := range claims {
		if keep(&claims[i]) {
			out = append(out, claims[i])
		}
	}
	return out
}
