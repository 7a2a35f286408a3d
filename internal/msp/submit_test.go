package msp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayFunc func(ctx context.Context, propertyID string, entries []Entry) (*BatchResult, error)

func (f gatewayFunc) SubmitBatch(ctx context.Context, propertyID string, entries []Entry) (*BatchResult, error) {
	return f(ctx, propertyID, entries)
}

func TestSubmitInvalidNeverCallsGateway(t *testing.T) {
	m := NewManager(time.UTC)
	called := false
	gw := gatewayFunc(func(context.Context, string, []Entry) (*BatchResult, error) {
		called = true
		return &BatchResult{}, nil
	})

	periods := []Period{{ID: "a", FromDate: "2025-01-10", ToDate: "2025-01-05", Price: "10"}}
	_, out, err := m.Submit(context.Background(), gw, "prop", periods)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.False(t, called)
	assert.Equal(t, periods, out)
}

func TestSubmitAllCreated(t *testing.T) {
	m := NewManager(time.UTC)
	var sent []Entry
	gw := gatewayFunc(func(_ context.Context, propertyID string, entries []Entry) (*BatchResult, error) {
		sent = entries
		res := &BatchResult{Errors: []string{}}
		for i, e := range entries {
			e.ID = "srv-" + e.ClientRef
			e.PropertyID = propertyID
			e.Price = []string{"120.00", "80.50"}[i]
			res.Created = append(res.Created, e)
		}
		return res, nil
	})

	periods := []Period{
		{ID: "saved", FromDate: "2024-12-01", ToDate: "2024-12-31", Price: "50.00", Confirmed: true},
		{ID: "a", FromDate: "2025-01-01", ToDate: "2025-01-31", Price: "120"},
		{ID: "b", FromDate: "2025-02-01", ToDate: "2025-02-28", Price: "80,5"},
	}
	outcome, out, err := m.Submit(context.Background(), gw, "prop", periods)
	require.NoError(t, err)

	require.Len(t, sent, 2, "confirmed periods are not resent")
	assert.Equal(t, "80.5", sent[1].Price)
	assert.Equal(t, "a", sent[0].ClientRef)

	assert.True(t, outcome.Succeeded())
	assert.NoError(t, outcome.Err())
	assert.Equal(t, 2, outcome.CreatedCount)
	require.Len(t, out, 3)
	for _, p := range out {
		assert.True(t, p.Confirmed, p.ID)
	}
	assert.Equal(t, "srv-a", out[1].ID)
	assert.Equal(t, "80.50", out[2].Price)
}

func TestSubmitPartialFailureKeepsFailedPeriods(t *testing.T) {
	m := NewManager(time.UTC)
	gw := gatewayFunc(func(_ context.Context, _ string, entries []Entry) (*BatchResult, error) {
		return &BatchResult{
			Created: []Entry{{ID: "srv-1", FromDate: entries[0].FromDate, ToDate: entries[0].ToDate, Price: "100.00", ClientRef: entries[0].ClientRef}},
			Errors:  []string{"period 01/02/2025 - 28/02/2025: overlaps another saved period"},
			Failures: []Failure{
				{ClientRef: entries[1].ClientRef, Message: "overlaps another saved period"},
			},
		}, nil
	})

	periods := []Period{
		{ID: "a", FromDate: "2025-01-01", ToDate: "2025-01-31", Price: "100"},
		{ID: "b", FromDate: "2025-02-01", ToDate: "2025-02-28", Price: "90"},
	}
	outcome, out, err := m.Submit(context.Background(), gw, "prop", periods)
	require.NoError(t, err)

	assert.False(t, outcome.Succeeded())
	assert.Equal(t, 1, outcome.CreatedCount)
	assert.ErrorIs(t, outcome.Err(), ErrPartialBatchFailure)

	require.Len(t, out, 2)
	assert.True(t, out[0].Confirmed)
	assert.Equal(t, "srv-1", out[0].ID)
	assert.False(t, out[1].Confirmed)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "90", out[1].Price)
	assert.Equal(t, "overlaps another saved period", out[1].Error)
}

func TestSubmitUnconfirmedWithoutErrorsIsNotSuccess(t *testing.T) {
	m := NewManager(time.UTC)
	gw := gatewayFunc(func(context.Context, string, []Entry) (*BatchResult, error) {
		return &BatchResult{}, nil
	})

	periods := []Period{{ID: "a", FromDate: "2025-01-01", ToDate: "2025-01-31", Price: "100"}}
	outcome, out, err := m.Submit(context.Background(), gw, "prop", periods)
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
	assert.Equal(t, errNotConfirmed, out[0].Error)
}

func TestSubmitTransportErrorLeavesPeriods(t *testing.T) {
	m := NewManager(time.UTC)
	boom := errors.New("network down")
	gw := gatewayFunc(func(context.Context, string, []Entry) (*BatchResult, error) {
		return nil, boom
	})

	periods := []Period{{ID: "a", FromDate: "2025-01-01", ToDate: "2025-01-31", Price: "100"}}
	_, out, err := m.Submit(context.Background(), gw, "prop", periods)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, periods, out)
}

func TestSubmitNothingPending(t *testing.T) {
	m := NewManager(time.UTC)
	gw := gatewayFunc(func(context.Context, string, []Entry) (*BatchResult, error) {
		t.Fatal("gateway must not be called")
		return nil, nil
	})

	periods := []Period{{ID: "a", FromDate: "2025-01-01", ToDate: "2025-01-31", Price: "100", Confirmed: true}}
	outcome, _, err := m.Submit(context.Background(), gw, "prop", periods)
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
}

func TestMergeUnattributedErrors(t *testing.T) {
	periods := []Period{{ID: "a"}, {ID: "b"}}
	out := Merge(periods, &BatchResult{Errors: []string{"server busy"}})
	assert.Equal(t, "server busy", out[0].Error)
	assert.Equal(t, "server busy", out[1].Error)
}
