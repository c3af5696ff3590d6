package model

// OrderState is the closed vocabulary an Order's CurrentState may take.
// Values surfaced verbatim from upstream messages that fall outside this
// set are still accepted, since String() round-trips them unchanged, but
// the comparator only recognises the named members.
type OrderState string

const (
	OrderStateNew             OrderState = "New"
	OrderStatePendingNew      OrderState = "PendingNew"
	OrderStatePendingReplace  OrderState = "PendingReplace"
	OrderStatePendingFill     OrderState = "PendingFill"
	OrderStatePendingCancel   OrderState = "PendingCancel"
	OrderStateFilled          OrderState = "Filled"
	OrderStatePartiallyFilled OrderState = "PartiallyFilled"
	OrderStateCanceled        OrderState = "Canceled"
	OrderStateDoneOfDay       OrderState = "DoneOfDay"
)

func (s OrderState) String() string { return string(s) }

// FinalStates are the states in which a fill or cancel has terminally
// settled the order.
var FinalStates = map[OrderState]bool{
	OrderStateFilled:          true,
	OrderStatePartiallyFilled: true,
	OrderStateCanceled:        true,
}

// PendingTicketStates mirrors the pending OrderStates in ticket vocabulary
// (plain strings, since ticket.currentState is an open string).
var PendingTicketStates = map[string]bool{
	"PendingNew":     true,
	"PendingReplace": true,
	"PendingFill":    true,
	"PendingCancel":  true,
}

// TicketFinalStates mirrors FinalStates in ticket-string vocabulary, used
// to test ticket.currentState for membership in F without an OrderState
// conversion.
var TicketFinalStates = map[string]bool{
	"Filled":          true,
	"PartiallyFilled": true,
	"Canceled":        true,
}
