// Package topics names the three inbound streams and the ticket republish
// target the recovery core reads and writes: a small const block of
// opaque string identifiers plus the IsOMS predicate. The DFD publish
// target has no constant here; its default lives in recovery.Config.
package topics

// Source identifies which of the three inbound topics a LogEntry arrived
// on. The core treats these as opaque strings. The recovery driver and the
// order rebuilder classify entries by comparing their Source against these
// constants; the inbound topic names in recovery.Config are not consulted.
type Source string

const (
	// TicketHistory carries Ticket payloads: the last externally observed
	// ticket state.
	TicketHistory Source = "RECALL/TICKET/HISTORY"
	// RecallToOMS carries Order or ExecutionReport payloads flowing from
	// the recall system to the OMS.
	RecallToOMS Source = "RECALL/TO/OMS"
	// OMSToRecall carries ExecutionReport payloads flowing from the OMS
	// back to the recall system.
	OMSToRecall Source = "OMS/TO/RECALL"
)

const (
	// TicketRepublish is the default republish target for REPUBLISH
	// actions, configurable as Config.RecallTicketTopicName.
	TicketRepublish = "RECALL/TICKET"
)

// IsOMS reports whether source is one of the two OMS-facing topics, which
// share a single bookmark.
func (s Source) IsOMS() bool {
	return s == RecallToOMS || s == OMSToRecall
}
