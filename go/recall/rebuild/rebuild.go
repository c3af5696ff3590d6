// Package rebuild synthesises the current Order by folding a ticket's
// chronologically-ordered OMS entries over a seed derived from the
// ticket.
package rebuild

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quantedge/recall-recon/go/recall/logentry"
	"github.com/quantedge/recall-recon/go/recall/model"
	"github.com/quantedge/recall-recon/go/recall/topics"
)

// Order rebuilds the current Order from ticket and the OMS entries
// already sorted into chronological (stable-on-ties) order. Returns nil
// if ticket is nil, mirroring the source's "abort with null" contract:
// callers treat a nil result as IGNORE.
func Order(ticket *model.RecallTicket, omsEntries []logentry.Entry) *model.Order {
	order := model.FromTicket(ticket)
	if order == nil {
		return nil
	}

	order.CurrentState = model.OrderStateNew
	order.FillQty = 0

	recallQty := ticket.RecallQty
	if len(omsEntries) > 0 {
		recallQty = omsEntries[0].RecallQty()
	}
	order.OrdQty = recallQty
	if order.FillRequest != nil {
		order.FillRequest.LeavesQty = recallQty
	}
	if order.AmendRequest != nil {
		order.AmendRequest.OrderQty = recallQty
	}

	for _, entry := range omsEntries {
		fold(order, entry)
	}
	return order
}

func fold(order *model.Order, entry logentry.Entry) {
	switch entry.Message().Kind() {
	case logentry.KindOrder:
		orderPayload, _ := entry.Message().AsOrder()
		foldOrderPayload(order, entry, orderPayload)
	case logentry.KindExecutionReport:
		report, _ := entry.Message().AsExecutionReport()
		foldExecutionReport(order, entry, report)
	default:
		log.WithFields(log.Fields{
			"orderID": entry.OrderID(),
			"source":  entry.Source(),
			"state":   entry.State(),
		}).Warn("recall: unrecognised log entry payload, skipping")
	}
}

func foldOrderPayload(order *model.Order, entry logentry.Entry, payload *model.Order) {
	state := model.OrderState(entry.State())

	// RECALL/TO/OMS PendingFill and DoneOfDay transitions are surfaced
	// only via ExecutionReport payloads.
	skipStateUpdate := entry.Source() == topics.RecallToOMS &&
		(state == model.OrderStatePendingFill || state == model.OrderStateDoneOfDay)
	if !skipStateUpdate {
		order.CurrentState = state
	}

	if state == model.OrderStatePendingReplace || state == model.OrderStatePendingCancel {
		if payload != nil && payload.AmendRequest != nil {
			amend := *payload.AmendRequest
			order.AmendRequest = &amend
		} else {
			order.AmendRequest = &model.AmendRequest{
				OrderQty:    entry.RecallQty(),
				Price:       entry.FillPrice(),
				ClOrdID:     uuid.NewString(),
				OrigClOrdID: order.OrderID,
			}
		}
	}
}

func foldExecutionReport(order *model.Order, entry logentry.Entry, report *model.ExecutionReport) {
	if report == nil {
		return
	}
	state := model.OrderState(entry.State())

	switch entry.Source() {
	case topics.OMSToRecall:
		order.CurrentState = state
	case topics.RecallToOMS:
		if state == model.OrderStatePendingFill || state == model.OrderStateDoneOfDay {
			order.CurrentState = state
		}
	}

	triggersFill := (entry.Source() == topics.RecallToOMS && state == model.OrderStatePendingFill) ||
		(entry.Source() == topics.OMSToRecall && (state == model.OrderStateFilled || state == model.OrderStatePartiallyFilled))
	if !triggersFill {
		return
	}
	applyFill(order, report)
}

// applyFill materialises or patches order.FillRequest per the
// monotonic-fill rule: a fresh report is cloned with identity fields
// defaulted from the order; a subsequent report overwrites only fields
// whose incoming value is positive, so later reports refine but never
// regress non-zero quantities/prices.
func applyFill(order *model.Order, report *model.ExecutionReport) {
	if order.FillRequest == nil {
		clone := *report
		if clone.OrigClOrdID == "" && order.AmendRequest != nil {
			clone.OrigClOrdID = order.AmendRequest.OrigClOrdID
		}
		if clone.ClOrdID == "" && order.AmendRequest != nil {
			clone.ClOrdID = order.AmendRequest.ClOrdID
		}
		if clone.OrderID == "" {
			clone.OrderID = order.OrderID
		}
		if clone.Currency == "" {
			clone.Currency = order.Currency
		}
		if clone.Symbol == "" {
			clone.Symbol = order.Symbol
		}
		order.FillRequest = &clone
	} else {
		fr := order.FillRequest
		if report.LastQty > 0 {
			fr.LastQty = report.LastQty
		}
		if report.CumQty > 0 {
			fr.CumQty = report.CumQty
		}
		if report.LeavesQty >= 0 {
			fr.LeavesQty = report.LeavesQty
		}
		if report.LastPrice > 0 {
			fr.LastPrice = report.LastPrice
		}
		if report.AvgPrice > 0 {
			fr.AvgPrice = report.AvgPrice
		}
		if report.ExecID != "" {
			fr.ExecID = report.ExecID
		}
		if report.ExecType != 0 {
			fr.ExecType = report.ExecType
		}
	}

	// Invariant: leavesQty == ordQty - cumQty whenever a fillRequest
	// exists.
	order.FillRequest.LeavesQty = order.OrdQty - order.FillRequest.CumQty
	order.FillQty = order.FillRequest.CumQty
}
