// Package reconcile implements the pure decision procedure that compares
// a rebuilt order against the last observed ticket state and decides one
// of REBUILD, REPUBLISH, IGNORE.
package reconcile

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/quantedge/recall-recon/go/recall/model"
)

// Action is one of the three recovery actions the comparator may decide.
type Action int

const (
	Ignore Action = iota
	Rebuild
	Republish
)

func (a Action) String() string {
	switch a {
	case Rebuild:
		return "REBUILD"
	case Republish:
		return "REPUBLISH"
	default:
		return "IGNORE"
	}
}

// Result carries the decided Action plus the side-effect flags the driver
// must act on.
type Result struct {
	Action Action
	// NeedsDfdRequest is set when both the rebuilt order and the ticket
	// reached a terminal filled/cancelled state: the driver must emit a
	// compensating DFD publish.
	NeedsDfdRequest bool
	// ForceTicketStateUpdate is a log-only flag: the ticket's
	// currentState was overwritten to match the order even though
	// quantities and price at comparison time matched.
	ForceTicketStateUpdate bool
}

// quantityMatchEpsilon is the tolerance for the average-price comparison
// in quantitiesAndPriceMatch.
const quantityMatchEpsilon = 1e-4

// Compare decides the recovery action for a rebuilt order against its
// ticket. It is pure with one explicit exception carried over from the
// source behaviour: in the "pending mismatch" branches it overwrites
// ticket.CurrentState before returning, so callers must treat the ticket
// pointer as mutated by this call.
func Compare(order *model.Order, ticket *model.RecallTicket) Result {
	if order == nil || ticket == nil {
		return Result{Action: Ignore}
	}

	orderState := order.CurrentState
	ticketState := ticket.CurrentState

	if statesEquivalent(orderState, ticketState) {
		result := Result{Action: Rebuild}
		if model.FinalStates[orderState] && model.TicketFinalStates[ticketState] {
			result.NeedsDfdRequest = true
		}
		return result
	}

	// Mismatch handling.
	if model.FinalStates[orderState] && model.TicketFinalStates[ticketState] {
		return Result{Action: Rebuild, NeedsDfdRequest: true}
	}

	if model.PendingTicketStates[ticketState] && orderState.String() != ticketState {
		if quantitiesAndPriceMatch(order, ticket) {
			log.WithFields(log.Fields{
				"orderID":     order.OrderID,
				"orderState":  orderState,
				"ticketState": ticketState,
			}).Error("recall: ticket state overwritten to match rebuilt order despite matching quantities/price")
			ticket.CurrentState = orderState.String()
			return Result{Action: Rebuild, ForceTicketStateUpdate: true}
		}
		ticket.CurrentState = orderState.String()
		return Result{Action: Republish}
	}

	return Result{Action: Republish}
}

// statesEquivalent implements the equivalence rule between the closed
// order-state enumeration and the open ticket-state vocabulary.
func statesEquivalent(orderState model.OrderState, ticketState string) bool {
	switch {
	case orderState.String() == ticketState:
		return true
	case orderState == model.OrderStateNew && ticketState == "Created":
		return true
	case orderState == model.OrderStateDoneOfDay && model.TicketFinalStates[ticketState]:
		return true
	default:
		return false
	}
}

// quantitiesAndPriceMatch implements the tie-breaking predicate.
func quantitiesAndPriceMatch(order *model.Order, ticket *model.RecallTicket) bool {
	if order.OrdQty != ticket.RecallQty {
		return false
	}
	var cumQty int64
	var avgPrice float64
	if order.FillRequest != nil {
		cumQty = order.FillRequest.CumQty
		avgPrice = order.FillRequest.AvgPrice
	}
	if cumQty != ticket.FillQty {
		return false
	}
	return math.Abs(avgPrice-ticket.FillPrice) < quantityMatchEpsilon
}
