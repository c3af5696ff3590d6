// Package recovery implements the Recovery Driver: the orchestrator that,
// per order, filters by bookmark, splits by source, sorts, rebuilds,
// compares, and executes the decided action against the cache and the
// outbound messaging client.
package recovery

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/quantedge/recall-recon/go/recall/aggregate"
	"github.com/quantedge/recall-recon/go/recall/bookmark"
	"github.com/quantedge/recall-recon/go/recall/cache"
	"github.com/quantedge/recall-recon/go/recall/codec"
	"github.com/quantedge/recall-recon/go/recall/logentry"
	"github.com/quantedge/recall-recon/go/recall/messaging"
	"github.com/quantedge/recall-recon/go/recall/model"
	"github.com/quantedge/recall-recon/go/recall/reconcile"
	"github.com/quantedge/recall-recon/go/recall/topics"

	"github.com/prometheus/client_golang/prometheus"
)

// Driver orchestrates one recovery pass over an aggregated transaction
// log. Per-order exceptions are caught, counted, and logged; they never
// abort the outer iteration.
type Driver struct {
	cfg       Config
	cache     *cache.Cache
	publisher messaging.Publisher
	metrics   *metrics
}

// New constructs a Driver. reg may be nil to skip Prometheus
// registration (e.g. in tests).
func New(cfg Config, c *cache.Cache, publisher messaging.Publisher, reg prometheus.Registerer) *Driver {
	return &Driver{
		cfg:       cfg,
		cache:     c,
		publisher: publisher,
		metrics:   newMetrics(reg),
	}
}

// Recover runs the full recovery pass over txLog, bounded by the given
// ticket and OMS bookmarks (the two OMS topics share a single bookmark).
// It returns the Summary counters and logs the same information at INFO.
func (d *Driver) Recover(ctx context.Context, txLog *aggregate.Log, ticketBookmark, omsBookmark bookmark.Bookmark) Summary {
	var summary Summary

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	orderIDs := txLog.OrderIDs()
	sort.Strings(orderIDs)

	for _, orderID := range orderIDs {
		summary.Processed++
		d.processOrder(ctx, orderID, txLog.Entries(orderID), ticketBookmark, omsBookmark, &summary)
	}

	summary.CacheTickets, summary.CacheOrders = d.cache.Sizes()
	d.metrics.observe(summary)

	log.WithFields(log.Fields{
		"processed":        summary.Processed,
		"rebuilt":          summary.Rebuilt,
		"republished":      summary.Republished,
		"ignored":          summary.Ignored,
		"errored":          summary.Errored,
		"noValidHistory":   summary.NoValidHistory,
		"discardedHistory": summary.DiscardedHistory,
		"discardedOMS":     summary.DiscardedOMS,
		"cacheTickets":     summary.CacheTickets,
		"cacheOrders":      summary.CacheOrders,
	}).Info("recall: recovery pass complete")

	return summary
}

// processOrder handles a single order's entries end to end, recovering
// from any panic so that one order's failure never aborts the pass.
func (d *Driver) processOrder(
	ctx context.Context,
	orderID string,
	entries []logentry.Entry,
	ticketBookmark, omsBookmark bookmark.Bookmark,
	summary *Summary,
) {
	defer func() {
		if r := recover(); r != nil {
			summary.Errored++
			log.WithFields(log.Fields{"orderID": orderID, "panic": r}).
				Error("recall: recovery of order failed")
		}
	}()

	rc, ok := d.buildContext(orderID, entries, ticketBookmark, omsBookmark, summary)
	if !ok {
		return
	}

	result := reconcile.Compare(rc.Order(), rc.Ticket())
	rc.NeedsDfdRequest = result.NeedsDfdRequest
	rc.ForceTicketStateUpdate = result.ForceTicketStateUpdate

	if err := d.execute(ctx, rc, result); err != nil {
		summary.Errored++
		log.WithFields(log.Fields{"orderID": orderID, "err": err}).
			Error("recall: failed to execute recovery action")
		return
	}

	switch result.Action {
	case reconcile.Rebuild:
		summary.Rebuilt++
	case reconcile.Republish:
		summary.Republished++
	default:
		summary.Ignored++
	}
}

// buildContext splits entries by source, filters by bookmark, sorts, and
// assembles the per-order Context. Returns ok=false if the order should
// be skipped outright (empty history after filtering).
func (d *Driver) buildContext(
	orderID string,
	entries []logentry.Entry,
	ticketBookmark, omsBookmark bookmark.Bookmark,
	summary *Summary,
) (*Context, bool) {
	var ticketEntries, omsEntries []logentry.Entry
	for _, e := range entries {
		switch {
		case e.Source() == topics.TicketHistory:
			ticketEntries = append(ticketEntries, e)
		case e.Source().IsOMS():
			omsEntries = append(omsEntries, e)
		}
	}

	filteredTicket := filterByBookmark(ticketEntries, ticketBookmark)
	summary.DiscardedHistory += len(ticketEntries) - len(filteredTicket)

	filteredOMS := filterByBookmark(omsEntries, omsBookmark)
	summary.DiscardedOMS += len(omsEntries) - len(filteredOMS)

	sortByTimestamp(filteredTicket)
	sortByTimestamp(filteredOMS)

	if len(filteredTicket) == 0 {
		summary.NoValidHistory++
		return nil, false
	}

	rc := &Context{
		OrderID:              orderID,
		TicketHistoryEntry:   filteredTicket[len(filteredTicket)-1],
		hasTicketHistoryEntry: true,
		TicketHistoryEntries: filteredTicket,
		OMSEntries:           filteredOMS,
	}

	if e, ok := latest(filteredOMS, topics.RecallToOMS); ok {
		rc.LatestRecallToOMSEntry, rc.hasLatestRecallToOMS = e, true
	}
	if e, ok := latest(filteredOMS, topics.OMSToRecall); ok {
		rc.LatestOMSToRecallEntry, rc.hasLatestOMSToRecall = e, true
	}

	return rc, true
}

// execute applies the decided action.
func (d *Driver) execute(ctx context.Context, rc *Context, result reconcile.Result) error {
	switch result.Action {
	case reconcile.Ignore:
		return nil

	case reconcile.Rebuild:
		ticket := rc.Ticket()
		d.cache.UpdateRecallTicket(ticket.ID, ticket)
		d.cache.UpdateOrder(rc.OrderID, rc.Order())

		if result.NeedsDfdRequest {
			d.publishDFD(ctx, rc)
		}
		if result.ForceTicketStateUpdate {
			log.WithFields(log.Fields{
				"orderID":      rc.OrderID,
				"orderState":   rc.Order().CurrentState,
				"ticketState":  ticket.CurrentState,
			}).Error("recall: ticket state force-updated to match rebuilt order")
		}
		return nil

	case reconcile.Republish:
		ticket := rc.Ticket()
		d.cache.UpdateRecallTicket(ticket.ID, ticket)
		d.cache.UpdateOrder(rc.OrderID, rc.Order())
		return d.republish(ctx, ticket)

	default:
		return fmt.Errorf("recall: unrecognised action %v", result.Action)
	}
}

func (d *Driver) publishDFD(ctx context.Context, rc *Context) {
	if d.publisher == nil {
		log.WithField("orderID", rc.OrderID).
			Warn("recall: no outbound publisher configured, skipping DFD request")
		return
	}
	message := buildDfdMessage(rc.Order())
	if err := d.publisher.Publish(ctx, d.cfg.DfdTopicName, []byte(message)); err != nil {
		log.WithFields(log.Fields{"orderID": rc.OrderID, "err": err}).
			Error("recall: failed to publish DFD request")
	}
}

// republish serialises ticket to JSON and publishes it to the configured
// RECALL/TICKET target.
func (d *Driver) republish(ctx context.Context, ticket *model.RecallTicket) error {
	if d.publisher == nil {
		log.WithField("ticketID", ticket.ID).
			Warn("recall: no outbound publisher configured, skipping republish")
		return nil
	}
	payload, err := codec.EncodeTicketJSON(ticket)
	if err != nil {
		return fmt.Errorf("encoding ticket for republish: %w", err)
	}
	return d.publisher.Publish(ctx, d.cfg.RecallTicketTopicName, payload)
}
