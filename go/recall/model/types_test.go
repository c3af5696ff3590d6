package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromTicketNilReturnsNil(t *testing.T) {
	require.Nil(t, FromTicket(nil))
}

func TestFromTicketSeedsScaffoldingFields(t *testing.T) {
	ticket := &RecallTicket{ID: "t1", Ticker: "ABC", Currency: "USD", Fund: "FUND1"}

	order := FromTicket(ticket)

	require.Equal(t, "t1", order.OrderID)
	require.Equal(t, "ABC", order.Symbol)
	require.Equal(t, "USD", order.Currency)
	require.Equal(t, "FUND1", order.Account)
}

func TestOrderCloneIsDeep(t *testing.T) {
	original := &Order{
		OrderID:      "o1",
		CurrentState: OrderStateFilled,
		FillRequest:  &ExecutionReport{ExecID: "exec-1", CumQty: 50},
		AmendRequest: &AmendRequest{ClOrdID: "clord-1"},
	}

	clone := original.Clone()
	clone.FillRequest.CumQty = 999
	clone.AmendRequest.ClOrdID = "mutated"

	require.Equal(t, int64(50), original.FillRequest.CumQty)
	require.Equal(t, "clord-1", original.AmendRequest.ClOrdID)
	require.Equal(t, int64(999), clone.FillRequest.CumQty)
}

func TestOrderCloneNil(t *testing.T) {
	var o *Order
	require.Nil(t, o.Clone())
}
