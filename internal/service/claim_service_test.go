package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebuilt/warranty-service/internal/domain"
	"github.com/homebuilt/warranty-service/internal/events"
	"github.com/homebuilt/warranty-service/internal/selection"
	apperrors "github.com/homebuilt/warranty-service/pkg/util/errorutil"
)

type claimFixture struct {
	svc        *ClaimService
	claims     *memClaimRepo
	messages   *memMessageRepo
	dispatcher *recordingDispatcher
}

func testHomeowners() []domain.Homeowner {
	return []domain.Homeowner{
		{ID: "h1", Name: "Ann Lee", Address: "1 Oak St", BuilderID: "b1"},
		{ID: "h2", Name: "Bo Chen", Address: "2 Elm St", BuilderID: "b2"},
	}
}

func newClaimFixture(claims ...domain.Claim) claimFixture {
	f := claimFixture{
		claims:     newMemClaimRepo(claims...),
		messages:   &memMessageRepo{},
		dispatcher: newRecordingDispatcher(),
	}
	f.svc = NewClaimService(ClaimDependencies{
		ClaimRepo:     f.claims,
		MessageRepo:   f.messages,
		HomeownerRepo: &memHomeownerRepo{homeowners: testHomeowners()},
		Dispatcher:    f.dispatcher,
		Clock:         fixedClock,
	})
	return f
}

func existingClaims() []domain.Claim {
	return []domain.Claim{
		{ID: "c1", ClaimNumber: "WC-1", HomeownerName: "Ann Lee", Address: "1 Oak St", Status: domain.ClaimStatusSubmitted, Classification: domain.ClassificationUnclassified, DateSubmitted: fixedNow.AddDate(0, 0, -10)},
		{ID: "c2", ClaimNumber: "WC-2", HomeownerName: "Bo Chen", Address: "2 Elm St", Status: domain.ClaimStatusCompleted, Classification: domain.ClassificationSixtyDay, DateSubmitted: fixedNow.AddDate(0, 0, -20)},
		{ID: "c3", ClaimNumber: "WC-3", HomeownerName: "Ann Lee", Address: "1 Oak St", Status: domain.ClaimStatusCompleted, Classification: domain.ClassificationElevenMonth, DateSubmitted: fixedNow.AddDate(0, 0, -30)},
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T", err)
	assert.Equal(t, status, de.HTTPStatus)
}

func TestClaimService_SubmitAsHomeowner(t *testing.T) {
	f := newClaimFixture()

	claim, err := f.svc.SubmitClaim(context.Background(), homeownerAccount("h1"), ClaimSubmitInput{
		HomeownerName: "Spoofed",
		Address:       "elsewhere",
		Description:   "  Leaking faucet ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", claim.HomeownerName)
	assert.Equal(t, "1 Oak St", claim.Address)
	assert.Equal(t, "Leaking faucet", claim.Description)
	assert.Equal(t, domain.ClaimStatusSubmitted, claim.Status)
	assert.Equal(t, domain.ClassificationUnclassified, claim.Classification)
	assert.Equal(t, fixedNow, claim.DateSubmitted)
	assert.Nil(t, claim.DateEvaluated)
	assert.True(t, strings.HasPrefix(claim.ClaimNumber, "WC-"))
	assert.Len(t, claim.ClaimNumber, 11)
	assert.Equal(t, []events.EventType{events.EventClaimSubmitted}, f.dispatcher.types())
}

func TestClaimService_SubmitAsStaff(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	claim, err := f.svc.SubmitClaim(ctx, staffAccount(), ClaimSubmitInput{HomeownerName: "Walk In", Address: "9 Pine", Description: "crack"})
	require.NoError(t, err)
	assert.Equal(t, "Walk In", claim.HomeownerName)

	claim, err = f.svc.SubmitClaim(ctx, staffAccount(), ClaimSubmitInput{HomeownerID: strPtr("h2"), Description: "door"})
	require.NoError(t, err)
	assert.Equal(t, "Bo Chen", claim.HomeownerName)

	_, err = f.svc.SubmitClaim(ctx, staffAccount(), ClaimSubmitInput{Description: "no owner"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.SubmitClaim(ctx, staffAccount(), ClaimSubmitInput{HomeownerID: strPtr("missing")})
	assertStatus(t, err, http.StatusNotFound)

	_, err = f.svc.SubmitClaim(ctx, builderAccount("b1"), ClaimSubmitInput{HomeownerName: "x", Address: "y"})
	assertStatus(t, err, http.StatusForbidden)
}

func TestClaimService_ListClaimsScoping(t *testing.T) {
	f := newClaimFixture(existingClaims()...)
	ctx := context.Background()

	all, err := f.svc.ListClaims(ctx, staffAccount(), ClaimListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	open, err := f.svc.ListClaims(ctx, staffAccount(), ClaimListInput{Filter: selection.FilterOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "c1", open[0].ID)

	mine, err := f.svc.ListClaims(ctx, homeownerAccount("h1"), ClaimListInput{Filter: selection.FilterClosed})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "c3", mine[0].ID)

	builder, err := f.svc.ListClaims(ctx, builderAccount("b2"), ClaimListInput{})
	require.NoError(t, err)
	require.Len(t, builder, 1)
	assert.Equal(t, "c2", builder[0].ID)

	search := "wc-3"
	found, err := f.svc.ListClaims(ctx, staffAccount(), ClaimListInput{SearchTerm: &search})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c3", found[0].ID)
}

func TestClaimService_GetClaimAccess(t *testing.T) {
	f := newClaimFixture(existingClaims()...)
	ctx := context.Background()

	_, err := f.svc.GetClaim(ctx, homeownerAccount("h1"), "c1")
	require.NoError(t, err)

	_, err = f.svc.GetClaim(ctx, homeownerAccount("h1"), "c2")
	assertStatus(t, err, http.StatusForbidden)

	_, err = f.svc.GetClaim(ctx, builderAccount("b1"), "c2")
	assertStatus(t, err, http.StatusForbidden)

	_, err = f.svc.GetClaim(ctx, staffAccount(), "nope")
	assertStatus(t, err, http.StatusNotFound)

	_, err = f.svc.GetClaim(ctx, nil, "c1")
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestClaimService_UpdateStatusAndClassify(t *testing.T) {
	f := newClaimFixture(existingClaims()...)
	ctx := context.Background()

	claim, err := f.svc.UpdateStatus(ctx, staffAccount(), "c2", domain.ClaimStatusSubmitted)
	require.NoError(t, err, "any status may follow any other")
	assert.Equal(t, domain.ClaimStatusSubmitted, claim.Status)

	_, err = f.svc.UpdateStatus(ctx, staffAccount(), "c2", domain.ClaimStatus("Archived"))
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.UpdateStatus(ctx, homeownerAccount("h1"), "c1", domain.ClaimStatusClosed)
	assertStatus(t, err, http.StatusForbidden)

	claim, err = f.svc.Classify(ctx, staffAccount(), "c1", domain.ClassificationNeedsAttention)
	require.NoError(t, err)
	assert.True(t, claim.NeedsAttention())

	_, err = f.svc.Classify(ctx, staffAccount(), "c1", domain.ClaimClassification("Someday"))
	assertStatus(t, err, http.StatusBadRequest)

	assert.Equal(t, []events.EventType{events.EventClaimStatusChanged, events.EventClaimClassified}, f.dispatcher.types())
}

func TestClaimService_EvaluateIsSetOnce(t *testing.T) {
	f := newClaimFixture(existingClaims()...)
	ctx := context.Background()

	first := fixedNow.AddDate(0, 0, -5)
	claim, err := f.svc.Evaluate(ctx, staffAccount(), "c1", &first)
	require.NoError(t, err)
	require.NotNil(t, claim.DateEvaluated)
	assert.Equal(t, first, *claim.DateEvaluated)

	claim, err = f.svc.Evaluate(ctx, staffAccount(), "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, first, *claim.DateEvaluated)

	tooEarly := fixedNow.AddDate(-1, 0, 0)
	_, err = f.svc.Evaluate(ctx, staffAccount(), "c2", &tooEarly)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestClaimService_CommentsAndProposedDates(t *testing.T) {
	f := newClaimFixture(existingClaims()...)
	ctx := context.Background()

	claim, err := f.svc.AddComment(ctx, homeownerAccount("h1"), "c1", "still dripping")
	require.NoError(t, err)
	last, ok := claim.LastComment()
	require.True(t, ok)
	assert.Equal(t, domain.CommentRoleHomeowner, last.Role)
	assert.Equal(t, fixedNow, last.Timestamp)

	_, err = f.svc.AddComment(ctx, staffAccount(), "c1", "   ")
	assertStatus(t, err, http.StatusBadRequest)

	slot := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	claim, err = f.svc.ProposeDate(ctx, staffAccount(), "c1", slot, "AM")
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusScheduling, claim.Status)
	require.Len(t, claim.ProposedDates, 1)

	claim, err = f.svc.RespondToProposedDate(ctx, homeownerAccount("h1"), "c1", 0, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposedDateAccepted, claim.ProposedDates[0].Status)
	assert.Equal(t, domain.ClaimStatusScheduled, claim.Status)

	_, err = f.svc.RespondToProposedDate(ctx, homeownerAccount("h1"), "c1", 0, false)
	assertStatus(t, err, http.StatusConflict)

	_, err = f.svc.RespondToProposedDate(ctx, homeownerAccount("h1"), "c1", 5, true)
	assertStatus(t, err, http.StatusNotFound)

	_, err = f.svc.RespondToProposedDate(ctx, homeownerAccount("h2"), "c1", 0, true)
	assertStatus(t, err, http.StatusForbidden)
}

func TestClaimService_MessagesAndServiceOrders(t *testing.T) {
	f := newClaimFixture(existingClaims()...)
	ctx := context.Background()

	t1 := fixedNow.AddDate(0, 0, -3)
	t2 := fixedNow.AddDate(0, 0, -1)
	inputs := []RecordMessageInput{
		{Type: domain.MessageTypeSubcontractor, Subject: "Service Order #1", Timestamp: &t1},
		{Type: domain.MessageTypeHomeowner, Subject: "Service order update", Timestamp: &t2},
		{Type: domain.MessageTypeSubcontractor, Subject: "SERVICE ORDER #2", Timestamp: &t2},
		{Type: domain.MessageTypeSubcontractor, Subject: "Invoice"},
	}
	for _, in := range inputs {
		_, err := f.svc.RecordMessage(ctx, staffAccount(), "c1", in)
		require.NoError(t, err)
	}

	msgs, err := f.svc.ListMessages(ctx, staffAccount(), "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "Service Order #1", msgs[0].Subject)

	orders, err := f.svc.ServiceOrders(ctx, staffAccount(), "c1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "SERVICE ORDER #2", orders[0].Subject)
	assert.Equal(t, "Service Order #1", orders[1].Subject)

	_, err = f.svc.RecordMessage(ctx, staffAccount(), "c1", RecordMessageInput{Type: "Fax"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.ServiceOrders(ctx, homeownerAccount("h1"), "c1")
	assertStatus(t, err, http.StatusForbidden)
}

func TestClaimService_BulkDelete(t *testing.T) {
	f := newClaimFixture(existingClaims()...)
	f.claims.failOn["c2"] = errBoom
	ctx := context.Background()

	_, err := f.svc.BulkDelete(ctx, staffAccount(), []string{"c1"}, true)
	assertStatus(t, err, http.StatusForbidden)

	_, err = f.svc.BulkDelete(ctx, adminAccount(), []string{"c1"}, false)
	assertStatus(t, err, http.StatusBadRequest)

	res, err := f.svc.BulkDelete(ctx, adminAccount(), []string{"c3", "c2", "c1", "c1", "ghost"}, true)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, []string{"c1", "c3"}, res.Deleted)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "c2", res.Failed[0].ID)
	assert.ErrorIs(t, res.Failed[0].Err, errBoom)
	assert.Equal(t, "ghost", res.Failed[1].ID)

	_, err = f.svc.GetClaim(ctx, staffAccount(), "c1")
	assertStatus(t, err, http.StatusNotFound)
	_, err = f.svc.GetClaim(ctx, staffAccount(), "c2")
	require.NoError(t, err, "failed deletions leave the claim in place")

	assert.Equal(t, []events.EventType{events.EventClaimDeleted, events.EventClaimDeleted}, f.dispatcher.types())
}
