package analytics

import (
	"math"
	"time"

	"github.com/homebuilt/warranty-service/internal/calendar"
	"github.com/homebuilt/warranty-service/internal/domain"
)

// Metric names used in snapshots and warnings.
const (
	MetricCBSCycleTime        = "cbs_cycle_time"
	MetricContractorCycleTime = "contractor_cycle_time"
)

// WarningReason explains why a claim was excluded from a metric.
type WarningReason string

const (
	ReasonNegativeInterval WarningReason = "negative_interval"
	ReasonMalformedDate    WarningReason = "malformed_date"
)

// DataQualityWarning records a claim skipped for bad data.
type DataQualityWarning struct {
	ClaimID string        `json:"claim_id"`
	Metric  string        `json:"metric"`
	Reason  WarningReason `json:"reason"`
}

// CycleTimeMean is a rounded mean in business days. Samples is zero when no
// claim qualified, which distinguishes "no data" from a genuine 0-day mean.
type CycleTimeMean struct {
	Days    int `json:"days"`
	Samples int `json:"samples"`
}

// HasData reports whether at least one claim contributed.
func (m CycleTimeMean) HasData() bool {
	return m.Samples > 0
}

// CycleTimeRatio splits the combined cycle time between CBS and contractor.
// The two percentages always sum to 100.
type CycleTimeRatio struct {
	AverageDays          float64 `json:"average_days"`
	CBSPercentage        int     `json:"cbs_percentage"`
	ContractorPercentage int     `json:"contractor_percentage"`
}

// CBSCycleTime measures business days from evaluation to the first
// subcontractor service order. ok is false when the claim does not qualify.
func CBSCycleTime(claim domain.Claim, messages []domain.ClaimMessage) (days int, ok bool, warning *DataQualityWarning) {
	if claim.DateEvaluated == nil {
		return 0, false, nil
	}
	if claim.DateEvaluated.IsZero() {
		return 0, false, newWarning(claim.ID, MetricCBSCycleTime, ReasonMalformedDate)
	}
	first, found := FirstSubcontractorContact(claim.ID, messages)
	if !found {
		return 0, false, nil
	}
	return interval(claim.ID, MetricCBSCycleTime, *claim.DateEvaluated, first.Timestamp)
}

// ContractorCycleTime measures business days from the first subcontractor
// service order to completion. Only Completed claims qualify.
func ContractorCycleTime(claim domain.Claim, messages []domain.ClaimMessage) (days int, ok bool, warning *DataQualityWarning) {
	if claim.Status != domain.ClaimStatusCompleted {
		return 0, false, nil
	}
	first, found := FirstSubcontractorContact(claim.ID, messages)
	if !found {
		return 0, false, nil
	}
	completed, found := CompletionTime(claim)
	if !found {
		return 0, false, newWarning(claim.ID, MetricContractorCycleTime, ReasonMalformedDate)
	}
	return interval(claim.ID, MetricContractorCycleTime, first.Timestamp, completed)
}

// CompletionTime derives when a claim was finished: the last comment, else
// the last proposed date, else the evaluation date, else the submission date.
// The first source present decides; a zero timestamp there reports false
// rather than falling through to a later source.
func CompletionTime(claim domain.Claim) (time.Time, bool) {
	var completed time.Time
	if comment, ok := claim.LastComment(); ok {
		completed = comment.Timestamp
	} else if proposed, ok := claim.LastProposedDate(); ok {
		completed = proposed.Date
	} else if claim.DateEvaluated != nil {
		completed = *claim.DateEvaluated
	} else {
		completed = claim.DateSubmitted
	}
	return completed, !completed.IsZero()
}

func interval(claimID, metric string, start, end time.Time) (int, bool, *DataQualityWarning) {
	days := calendar.BusinessDaysBetween(start, end)
	if days < 0 {
		return 0, false, newWarning(claimID, metric, ReasonNegativeInterval)
	}
	return days, true, nil
}

func newWarning(claimID, metric string, reason WarningReason) *DataQualityWarning {
	return &DataQualityWarning{ClaimID: claimID, Metric: metric, Reason: reason}
}

type meanAccumulator struct {
	sum int
	n   int
}

func (a *meanAccumulator) add(days int) {
	a.sum += days
	a.n++
}

func (a meanAccumulator) result() CycleTimeMean {
	if a.n == 0 {
		return CycleTimeMean{}
	}
	return CycleTimeMean{
		Days:    int(math.Round(float64(a.sum) / float64(a.n))),
		Samples: a.n,
	}
}

// NewCycleTimeRatio splits the average of the two means into percentages.
// When the average is zero the split defaults to 50/50.
func NewCycleTimeRatio(cbs, contractor CycleTimeMean) CycleTimeRatio {
	average := float64(cbs.Days+contractor.Days) / 2
	cbsShare := 50
	if average > 0 {
		cbsShare = int(math.Round(float64(cbs.Days) / float64(cbs.Days+contractor.Days) * 100))
	}
	return CycleTimeRatio{
		AverageDays:          average,
		CBSPercentage:        cbsShare,
		ContractorPercentage: 100 - cbsShare,
	}
}
