package rebuild

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantedge/recall-recon/go/recall/logentry"
	"github.com/quantedge/recall-recon/go/recall/model"
	"github.com/quantedge/recall-recon/go/recall/topics"
)

func mustEntry(t *testing.T, orderID string, source topics.Source, state string, ts time.Time, payload logentry.Payload) logentry.Entry {
	t.Helper()
	entry, err := logentry.NewBuilder().
		OrderID(orderID).
		Source(source).
		State(state).
		Timestamp(ts).
		Message(payload).
		Build()
	require.NoError(t, err)
	return entry
}

// TestOrderNilTicketReturnsNil exercises the "abort with null" contract
// Order shares with FromTicket.
func TestOrderNilTicketReturnsNil(t *testing.T) {
	require.Nil(t, Order(nil, nil))
}

// TestOrderSeedsFromTicket checks that the rebuilt order starts from the
// ticket's static scaffolding fields with state reset to New.
func TestOrderSeedsFromTicket(t *testing.T) {
	ticket := &model.RecallTicket{ID: "o1", RecallQty: 100, Ticker: "ABC", Currency: "USD", Fund: "FUND1"}

	order := Order(ticket, nil)

	require.NotNil(t, order)
	require.Equal(t, "o1", order.OrderID)
	require.Equal(t, model.OrderStateNew, order.CurrentState)
	require.Equal(t, int64(100), order.OrdQty)
	require.Equal(t, "ABC", order.Symbol)
	require.Equal(t, "USD", order.Currency)
}

// TestApplyFillLeavesQtyInvariant checks that after the fold, leavesQty ==
// ordQty - cumQty whenever fillRequest exists.
func TestApplyFillLeavesQtyInvariant(t *testing.T) {
	ticket := &model.RecallTicket{ID: "o1", RecallQty: 100}
	base := time.Date(2025, 3, 21, 14, 0, 0, 0, time.UTC)

	report := model.ExecutionReport{ExecID: "exec-1", CumQty: 40, LastQty: 40, AvgPrice: 10.0}
	entry := mustEntry(t, "o1", topics.OMSToRecall, string(model.OrderStatePartiallyFilled), base,
		logentry.ExecutionReportPayload(&report))

	order := Order(ticket, []logentry.Entry{entry})

	require.NotNil(t, order.FillRequest)
	require.Equal(t, order.OrdQty-order.FillRequest.CumQty, order.FillRequest.LeavesQty)
	require.Equal(t, int64(40), order.FillQty)
}

// TestMonotonicFillNeverRegresses checks that a later report with a
// larger cumQty refines the already-applied fill upward, and that a still
// later report carrying zero quantities and prices does not regress the
// non-zero values already applied.
func TestMonotonicFillNeverRegresses(t *testing.T) {
	ticket := &model.RecallTicket{ID: "o1", RecallQty: 100}
	base := time.Date(2025, 3, 21, 14, 0, 0, 0, time.UTC)

	first := model.ExecutionReport{ExecID: "exec-1", CumQty: 60, LastQty: 60, AvgPrice: 10.0}
	second := model.ExecutionReport{ExecID: "exec-2", CumQty: 80, LastQty: 20, AvgPrice: 10.5}
	third := model.ExecutionReport{ExecID: "exec-3"}

	var entries []logentry.Entry
	for i, report := range []*model.ExecutionReport{&first, &second, &third} {
		entry, err := logentry.NewBuilder().
			OrderID("o1").
			Source(topics.OMSToRecall).
			State(string(model.OrderStatePartiallyFilled)).
			Timestamp(base.Add(time.Duration(i) * time.Second)).
			Message(logentry.ExecutionReportPayload(report)).
			RecallQty(100).
			Build()
		require.NoError(t, err)
		entries = append(entries, entry)
	}

	order := Order(ticket, entries)

	require.Equal(t, int64(80), order.FillRequest.CumQty)
	require.Equal(t, int64(80), order.FillQty)
	require.Equal(t, int64(20), order.FillRequest.LeavesQty)
	require.Equal(t, 10.5, order.FillRequest.AvgPrice)
}

// TestFoldOrderPayloadSkipsStateOnRecallToOMSTransitional checks that
// PendingFill/DoneOfDay order-state updates arriving on RECALL/TO/OMS are
// ignored: those transitions surface only via ExecutionReport.
func TestFoldOrderPayloadSkipsStateOnRecallToOMSTransitional(t *testing.T) {
	ticket := &model.RecallTicket{ID: "o1", RecallQty: 100}
	base := time.Date(2025, 3, 21, 14, 0, 0, 0, time.UTC)

	payload := &model.Order{}
	entry := mustEntry(t, "o1", topics.RecallToOMS, string(model.OrderStatePendingFill), base,
		logentry.OrderPayload(payload))

	order := Order(ticket, []logentry.Entry{entry})

	require.Equal(t, model.OrderStateNew, order.CurrentState)
}

// TestFoldOrderPayloadSynthesisesAmendRequest checks the no-amend-payload
// branch: a PendingReplace/PendingCancel state with no amend payload
// synthesises one from the entry's recallQty/fillPrice.
func TestFoldOrderPayloadSynthesisesAmendRequest(t *testing.T) {
	ticket := &model.RecallTicket{ID: "o1", RecallQty: 100}
	base := time.Date(2025, 3, 21, 14, 0, 0, 0, time.UTC)

	entry, err := logentry.NewBuilder().
		OrderID("o1").
		Source(topics.RecallToOMS).
		State(string(model.OrderStatePendingReplace)).
		Timestamp(base).
		Message(logentry.OrderPayload(&model.Order{})).
		RecallQty(150).
		FillPrice(20.0).
		Build()
	require.NoError(t, err)

	order := Order(ticket, []logentry.Entry{entry})

	require.NotNil(t, order.AmendRequest)
	require.Equal(t, int64(150), order.AmendRequest.OrderQty)
	require.Equal(t, 20.0, order.AmendRequest.Price)
	require.NotEmpty(t, order.AmendRequest.ClOrdID)
	require.Equal(t, "o1", order.AmendRequest.OrigClOrdID)
}
