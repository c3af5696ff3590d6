package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantedge/recall-recon/go/recall/model"
)

// Equivalent New/Created states yield REBUILD with no flags.
func TestCompareEquivalentNewCreated(t *testing.T) {
	order := &model.Order{OrderID: "o1", CurrentState: model.OrderStateNew}
	ticket := &model.RecallTicket{ID: "o1", CurrentState: "Created"}

	result := Compare(order, ticket)

	require.Equal(t, Rebuild, result.Action)
	require.False(t, result.NeedsDfdRequest)
	require.False(t, result.ForceTicketStateUpdate)
}

// A final-state mismatch triggers REBUILD with a DFD request.
func TestCompareFinalMismatchWithDFD(t *testing.T) {
	order := &model.Order{OrderID: "o1", CurrentState: model.OrderStateCanceled}
	ticket := &model.RecallTicket{ID: "o1", CurrentState: "Filled"}

	result := Compare(order, ticket)

	require.Equal(t, Rebuild, result.Action)
	require.True(t, result.NeedsDfdRequest)
}

// A pending mismatch where quantities and price match within tolerance
// expects REBUILD with forceTicketStateUpdate, and the ticket's
// currentState mutated to the order's state (the documented exception to
// Compare's otherwise-pure contract).
func TestComparePendingMismatchQuantitiesMatch(t *testing.T) {
	order := &model.Order{
		OrderID:      "o1",
		CurrentState: model.OrderStateFilled,
		OrdQty:       100,
		FillRequest:  &model.ExecutionReport{CumQty: 50, AvgPrice: 10.00005},
	}
	ticket := &model.RecallTicket{
		ID:           "o1",
		CurrentState: "PendingFill",
		RecallQty:    100,
		FillQty:      50,
		FillPrice:    10.0,
	}

	result := Compare(order, ticket)

	require.Equal(t, Rebuild, result.Action)
	require.True(t, result.ForceTicketStateUpdate)
	require.Equal(t, "Filled", ticket.CurrentState)
}

// A pending mismatch where quantities differ expects REPUBLISH, with
// ticket.currentState still overwritten to the order's state.
func TestComparePendingMismatchQuantitiesDiffer(t *testing.T) {
	order := &model.Order{
		OrderID:      "o1",
		CurrentState: model.OrderStateFilled,
		OrdQty:       200,
		FillRequest:  &model.ExecutionReport{CumQty: 50, AvgPrice: 10.00005},
	}
	ticket := &model.RecallTicket{
		ID:           "o1",
		CurrentState: "PendingFill",
		RecallQty:    100,
		FillQty:      50,
		FillPrice:    10.0,
	}

	result := Compare(order, ticket)

	require.Equal(t, Republish, result.Action)
	require.False(t, result.ForceTicketStateUpdate)
	require.Equal(t, "Filled", ticket.CurrentState)
}

// A null order or ticket yields IGNORE.
func TestCompareNullInputsIgnore(t *testing.T) {
	ticket := &model.RecallTicket{ID: "o1", CurrentState: "Created"}
	order := &model.Order{OrderID: "o1", CurrentState: model.OrderStateNew}

	require.Equal(t, Ignore, Compare(nil, ticket).Action)
	require.Equal(t, Ignore, Compare(order, nil).Action)
	require.Equal(t, Ignore, Compare(nil, nil).Action)
}

// String-equal states always REBUILD, with no flags implied beyond the
// final-state DFD check.
func TestCompareStringEqualStatesAlwaysRebuild(t *testing.T) {
	order := &model.Order{OrderID: "o1", CurrentState: model.OrderStatePendingNew}
	ticket := &model.RecallTicket{ID: "o1", CurrentState: "PendingNew"}

	result := Compare(order, ticket)
	require.Equal(t, Rebuild, result.Action)
}

// needsDfdRequest implies both sides reached a terminal state.
func TestNeedsDfdRequestOnlyWhenBothFinal(t *testing.T) {
	order := &model.Order{OrderID: "o1", CurrentState: model.OrderStatePartiallyFilled}
	ticket := &model.RecallTicket{ID: "o1", CurrentState: "PartiallyFilled"}

	result := Compare(order, ticket)
	require.Equal(t, Rebuild, result.Action)
	require.True(t, result.NeedsDfdRequest)

	// Case: equivalent but non-final states never set the DFD flag.
	order2 := &model.Order{OrderID: "o2", CurrentState: model.OrderStateNew}
	ticket2 := &model.RecallTicket{ID: "o2", CurrentState: "Created"}
	result2 := Compare(order2, ticket2)
	require.False(t, result2.NeedsDfdRequest)
}

// forceTicketStateUpdate implies quantities/price matched at comparison
// time (exercised via the two contrasting cases above); this test asserts
// the converse does not hold for REPUBLISH.
func TestForceTicketStateUpdateImpliesQuantitiesMatched(t *testing.T) {
	matching := &model.Order{
		OrderID: "o1", CurrentState: model.OrderStateFilled, OrdQty: 100,
		FillRequest: &model.ExecutionReport{CumQty: 50, AvgPrice: 10.0},
	}
	ticket := &model.RecallTicket{ID: "o1", CurrentState: "PendingFill", RecallQty: 100, FillQty: 50, FillPrice: 10.0}
	require.True(t, Compare(matching, ticket).ForceTicketStateUpdate)

	mismatched := &model.Order{
		OrderID: "o2", CurrentState: model.OrderStateFilled, OrdQty: 999,
		FillRequest: &model.ExecutionReport{CumQty: 50, AvgPrice: 10.0},
	}
	ticket2 := &model.RecallTicket{ID: "o2", CurrentState: "PendingFill", RecallQty: 100, FillQty: 50, FillPrice: 10.0}
	require.False(t, Compare(mismatched, ticket2).ForceTicketStateUpdate)
}

func TestStatesEquivalentDoneOfDay(t *testing.T) {
	require.True(t, statesEquivalent(model.OrderStateDoneOfDay, "Filled"))
	require.True(t, statesEquivalent(model.OrderStateDoneOfDay, "Canceled"))
	require.False(t, statesEquivalent(model.OrderStateDoneOfDay, "Created"))
}

// An unrecognised order/ticket-state pairing falls through to REPUBLISH.
func TestCompareUnknownStateFallsThroughToRepublish(t *testing.T) {
	order := &model.Order{OrderID: "o1", CurrentState: model.OrderState("SomeWeirdState")}
	ticket := &model.RecallTicket{ID: "o1", CurrentState: "AnotherWeirdState"}

	result := Compare(order, ticket)
	require.Equal(t, Republish, result.Action)
}
