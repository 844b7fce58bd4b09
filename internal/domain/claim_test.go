package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaimStatus(t *testing.T) {
	for _, status := range ClaimStatuses {
		got, err := ParseClaimStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, got)
	}

	_, err := ParseClaimStatus("Archived")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Archived")

	_, err = ParseClaimStatus("")
	require.Error(t, err)
}

func TestParseClassification(t *testing.T) {
	for _, c := range Classifications {
		got, err := ParseClassification(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseClassification("12 Month")
	assert.Error(t, err)
}

func TestNormalizeClassification(t *testing.T) {
	assert.Equal(t, ClassificationElevenMonth, NormalizeClassification("11 Month"))
	assert.Equal(t, ClassificationUnclassified, NormalizeClassification("bogus"))
	assert.Equal(t, ClaimClassification(""), NormalizeClassification(""))
}

func TestClaim_IsApproved(t *testing.T) {
	tests := []struct {
		name           string
		status         ClaimStatus
		classification ClaimClassification
		want           bool
	}{
		{"scheduling and classified", ClaimStatusScheduling, ClassificationSixtyDay, true},
		{"reviewing and classified", ClaimStatusReviewing, ClassificationNeedsAttention, true},
		{"scheduling but unclassified", ClaimStatusScheduling, ClassificationUnclassified, false},
		{"scheduling with no classification", ClaimStatusScheduling, "", false},
		{"submitted", ClaimStatusSubmitted, ClassificationElevenMonth, false},
		{"completed", ClaimStatusCompleted, ClassificationElevenMonth, false},
		{"unknown status", ClaimStatus("Paused"), ClassificationElevenMonth, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Claim{Status: tt.status, Classification: tt.classification}
			assert.Equal(t, tt.want, c.IsApproved())
		})
	}
}

func TestClaim_Predicates(t *testing.T) {
	open := Claim{Status: ClaimStatusClosed}
	assert.True(t, open.IsOpen(), "only Completed closes a claim")

	done := Claim{Status: ClaimStatusCompleted}
	assert.False(t, done.IsOpen())

	assert.True(t, (&Claim{Status: ClaimStatusSubmitted}).IsInProcessOrNew())
	assert.True(t, (&Claim{Status: ClaimStatusScheduled}).IsInProcessOrNew())
	assert.False(t, (&Claim{Status: ClaimStatusReviewing}).IsInProcessOrNew())

	assert.True(t, (&Claim{Classification: ClassificationNeedsAttention}).NeedsAttention())
}

func TestClaim_LastEntries(t *testing.T) {
	c := Claim{}
	_, ok := c.LastComment()
	assert.False(t, ok)
	_, ok = c.LastProposedDate()
	assert.False(t, ok)

	first := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 3)
	c.Comments = []ClaimComment{{Text: "a", Timestamp: first}, {Text: "b", Timestamp: second}}
	c.ProposedDates = []ProposedDate{{Date: second}, {Date: first}}

	comment, ok := c.LastComment()
	require.True(t, ok)
	assert.Equal(t, "b", comment.Text)

	pd, ok := c.LastProposedDate()
	require.True(t, ok)
	assert.Equal(t, first, pd.Date)
}
