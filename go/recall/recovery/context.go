package recovery

import (
	"github.com/quantedge/recall-recon/go/recall/logentry"
	"github.com/quantedge/recall-recon/go/recall/model"
	"github.com/quantedge/recall-recon/go/recall/rebuild"
)

// Context is the per-order bundle the driver constructs, hands to the
// comparator, and discards after the order is actioned. The rebuilt Order
// is lazily materialised on first access and stable across repeated reads
// thereafter.
type Context struct {
	OrderID string

	// TicketHistoryEntry is the latest (last, chronologically) entry from
	// RECALL/TICKET/HISTORY still admitted by the ticket bookmark.
	TicketHistoryEntry   logentry.Entry
	hasTicketHistoryEntry bool

	// TicketHistoryEntries and OMSEntries are the full per-topic, sorted,
	// bookmark-filtered entry lists: monotonically non-decreasing in
	// timestamp, stable on ties.
	TicketHistoryEntries []logentry.Entry
	OMSEntries           []logentry.Entry

	// LatestRecallToOMSEntry and LatestOMSToRecallEntry are the latest
	// entries seen on each of the two OMS-facing topics, carried in the
	// context even though the comparator does not consume them directly.
	LatestRecallToOMSEntry   logentry.Entry
	hasLatestRecallToOMS     bool
	LatestOMSToRecallEntry   logentry.Entry
	hasLatestOMSToRecall     bool

	// NeedsDfdRequest and ForceTicketStateUpdate are scratch flags set by
	// the comparator.
	NeedsDfdRequest        bool
	ForceTicketStateUpdate bool

	order      *model.Order
	orderBuilt bool
}

// Ticket returns the ticket carried by TicketHistoryEntry, or nil if the
// entry's payload did not decode to a Ticket.
func (c *Context) Ticket() *model.RecallTicket {
	if !c.hasTicketHistoryEntry {
		return nil
	}
	t, _ := c.TicketHistoryEntry.Message().AsTicket()
	return t
}

// Order lazily rebuilds and caches the current Order for this context.
func (c *Context) Order() *model.Order {
	if c.orderBuilt {
		return c.order
	}
	c.order = rebuild.Order(c.Ticket(), c.OMSEntries)
	c.orderBuilt = true
	return c.order
}
