// Package aggregate buffers transaction-log entries by order-id as they
// arrive across the three topic subscriptions during the replay window.
// The core places no ordering requirement on entries across different
// orders; only the per-order order of arrival is preserved here, since the
// Recovery Driver re-sorts each order's entries by timestamp before
// rebuild.
package aggregate

import "github.com/quantedge/recall-recon/go/recall/logentry"

// Log is a mapping from order-id to the ordered list of entries received
// for that order. It is populated single-threaded by the replay
// subscriber loop and is not safe for concurrent writers.
type Log struct {
	byOrder map[string][]logentry.Entry
}

// New returns an empty Log.
func New() *Log {
	return &Log{byOrder: make(map[string][]logentry.Entry)}
}

// Append buffers entry under its OrderID, preserving arrival order.
func (l *Log) Append(entry logentry.Entry) {
	l.byOrder[entry.OrderID()] = append(l.byOrder[entry.OrderID()], entry)
}

// OrderIDs returns the set of order-ids that have at least one buffered
// entry. The returned order is unspecified; callers needing a stable
// iteration order should sort it themselves.
func (l *Log) OrderIDs() []string {
	ids := make([]string, 0, len(l.byOrder))
	for id := range l.byOrder {
		ids = append(ids, id)
	}
	return ids
}

// Entries returns the buffered entries for orderID in arrival order.
func (l *Log) Entries(orderID string) []logentry.Entry {
	return l.byOrder[orderID]
}

// Len reports the number of distinct orders with buffered entries.
func (l *Log) Len() int {
	return len(l.byOrder)
}
