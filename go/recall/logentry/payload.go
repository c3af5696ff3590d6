package logentry

import "github.com/quantedge/recall-recon/go/recall/model"

// Payload is the tagged sum a LogEntry carries: exactly one of Ticket,
// Order, or ExecutionReport is set. Modelled as a tagged sum rather than
// runtime type-assertion discovery, so the Rebuilder dispatches on Kind()
// instead of reflection.
type Payload struct {
	kind            Kind
	ticket          *model.RecallTicket
	order           *model.Order
	executionReport *model.ExecutionReport
}

// Kind identifies which member of Payload is populated.
type Kind int

const (
	KindUnknown Kind = iota
	KindTicket
	KindOrder
	KindExecutionReport
)

func TicketPayload(t *model.RecallTicket) Payload {
	return Payload{kind: KindTicket, ticket: t}
}

func OrderPayload(o *model.Order) Payload {
	return Payload{kind: KindOrder, order: o}
}

func ExecutionReportPayload(e *model.ExecutionReport) Payload {
	return Payload{kind: KindExecutionReport, executionReport: e}
}

func (p Payload) Kind() Kind { return p.kind }

// AsTicket returns the payload as a Ticket and true if it is one, mirroring
// the source's getMessageAs<T>() contract: a type mismatch is never an
// error, just an absent result.
func (p Payload) AsTicket() (*model.RecallTicket, bool) {
	if p.kind != KindTicket {
		return nil, false
	}
	return p.ticket, true
}

func (p Payload) AsOrder() (*model.Order, bool) {
	if p.kind != KindOrder {
		return nil, false
	}
	return p.order, true
}

func (p Payload) AsExecutionReport() (*model.ExecutionReport, bool) {
	if p.kind != KindExecutionReport {
		return nil, false
	}
	return p.executionReport, true
}
