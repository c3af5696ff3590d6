package recovery

import (
	"sort"

	"github.com/quantedge/recall-recon/go/recall/bookmark"
	"github.com/quantedge/recall-recon/go/recall/logentry"
	"github.com/quantedge/recall-recon/go/recall/topics"
)

// filterByBookmark drops entries whose timestamp is strictly after b,
// preserving the relative order of the survivors.
func filterByBookmark(entries []logentry.Entry, b bookmark.Bookmark) []logentry.Entry {
	if len(entries) == 0 {
		return entries
	}
	out := make([]logentry.Entry, 0, len(entries))
	for _, e := range entries {
		if b.Admits(e.Timestamp()) {
			out = append(out, e)
		}
	}
	return out
}

// sortByTimestamp stably sorts entries by timestamp in place: equal
// timestamps keep arrival order.
func sortByTimestamp(entries []logentry.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp().Before(entries[j].Timestamp())
	})
}

// latest returns the chronologically last entry from source within
// entries (which must already be sorted by timestamp), and whether one
// was found.
func latest(entries []logentry.Entry, source topics.Source) (logentry.Entry, bool) {
	var found logentry.Entry
	ok := false
	for _, e := range entries {
		if e.Source() == source {
			found = e
			ok = true
		}
	}
	return found, ok
}
