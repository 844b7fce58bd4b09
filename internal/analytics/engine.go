// Package analytics derives dashboard metrics from an in-memory snapshot of
// claims, homeowners and tracked messages. Every function is pure: no I/O,
// no shared state, safe to recompute on each request.
package analytics

import (
	"time"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// Input is the data one computation folds over. The caller guarantees the
// slices are mutually consistent.
type Input struct {
	Claims       []domain.Claim
	Homeowners   []domain.Homeowner
	Messages     []domain.ClaimMessage
	BuilderGroup string
	Now          time.Time
	// ActiveWindow defaults to DefaultActiveWindow when zero.
	ActiveWindow time.Duration
}

// Snapshot is the immutable result rendered by the dashboard.
type Snapshot struct {
	BuilderGroup        string               `json:"builder_group"`
	GeneratedAt         time.Time            `json:"generated_at"`
	TotalHomeowners     int                  `json:"total_homeowners"`
	ActiveHomeowners    int                  `json:"active_homeowners"`
	TotalClaims         int                  `json:"total_claims"`
	OpenClaims          int                  `json:"open_claims"`
	ClosedClaims        int                  `json:"closed_claims"`
	Claimants           int                  `json:"claimants"`
	ApprovedClaimants   int                  `json:"approved_claimants"`
	NeedsAttention      int                  `json:"needs_attention"`
	NeedsAttentionIDs   []string             `json:"needs_attention_ids"`
	InProcessAndNew     int                  `json:"in_process_and_new"`
	CBSCycleTime        CycleTimeMean        `json:"cbs_cycle_time"`
	ContractorCycleTime CycleTimeMean        `json:"contractor_cycle_time"`
	CycleTimeRatio      CycleTimeRatio       `json:"cycle_time_ratio"`
	Warnings            []DataQualityWarning `json:"warnings"`
}

// Compute scopes the input to a builder group and derives every metric.
func Compute(in Input) Snapshot {
	window := in.ActiveWindow
	if window <= 0 {
		window = DefaultActiveWindow
	}
	group := in.BuilderGroup
	if group == "" {
		group = AllBuilderGroups
	}

	homeowners := FilterHomeowners(in.Homeowners, group)
	attributed := AttributeClaims(in.Claims, homeowners)
	claims := make([]domain.Claim, 0, len(attributed))
	for _, a := range attributed {
		claims = append(claims, a.Claim)
	}

	snap := Snapshot{
		BuilderGroup:      group,
		GeneratedAt:       in.Now,
		TotalHomeowners:   len(homeowners),
		ActiveHomeowners:  CountActiveHomeowners(homeowners, in.Now, window),
		TotalClaims:       len(claims),
		Claimants:         CountClaimants(attributed),
		ApprovedClaimants: CountApprovedClaimants(attributed),
		InProcessAndNew:   len(InProcessAndNewClaims(claims)),
		NeedsAttentionIDs: []string{},
		Warnings:          []DataQualityWarning{},
	}

	for _, c := range NeedsAttentionClaims(claims) {
		snap.NeedsAttentionIDs = append(snap.NeedsAttentionIDs, c.ID)
	}
	snap.NeedsAttention = len(snap.NeedsAttentionIDs)

	messagesByClaim := indexByClaim(in.Messages)
	var cbs, contractor meanAccumulator
	for i := range claims {
		claim := claims[i]
		if claim.IsOpen() {
			snap.OpenClaims++
		} else {
			snap.ClosedClaims++
		}

		msgs := messagesByClaim[claim.ID]
		if days, ok, warn := CBSCycleTime(claim, msgs); ok {
			cbs.add(days)
		} else if warn != nil {
			snap.Warnings = append(snap.Warnings, *warn)
		}
		if days, ok, warn := ContractorCycleTime(claim, msgs); ok {
			contractor.add(days)
		} else if warn != nil {
			snap.Warnings = append(snap.Warnings, *warn)
		}
	}

	snap.CBSCycleTime = cbs.result()
	snap.ContractorCycleTime = contractor.result()
	snap.CycleTimeRatio = NewCycleTimeRatio(snap.CBSCycleTime, snap.ContractorCycleTime)
	return snap
}
