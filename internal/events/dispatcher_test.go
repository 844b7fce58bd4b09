package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventClaimDeleted, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.ClaimID)
		return boom
	})
	d.Subscribe(EventClaimDeleted, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.ClaimID)
		return nil
	})
	d.Subscribe(EventClaimSubmitted, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventClaimDeleted, ClaimID: "c1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:c1", "second:c1"}, calls)
}

func TestDispatcher_NoListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventClaimClassified}))
}

func TestDispatcher_RecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	ran := false
	d.Subscribe(EventClaimEvaluated, func(context.Context, Event) error {
		panic("bad handler")
	})
	d.Subscribe(EventClaimEvaluated, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventClaimEvaluated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claim_evaluated: handler panic: bad handler")
	assert.True(t, ran)
}
