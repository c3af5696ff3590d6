// Package bookmark decodes the replay-position timestamp strings used to
// bound recovery. A corrupt bookmark is never fatal: this is a deliberate
// availability choice, downgrading to "no filter" so that a bad bookmark
// does not block recovery.
package bookmark

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// layout is the bookmark wire format: YYYYMMDDThhmmss.fffffffZ, UTC, with
// 7 fractional digits (100-nanosecond precision).
const layout = "20060102T150405.0000000Z"

// Bookmark is a replay position: either a concrete instant, or Unbounded,
// meaning "no filter", every entry passes.
type Bookmark struct {
	At        time.Time
	Unbounded bool
}

// Unfiltered returns the "no filter" bookmark.
func Unfiltered() Bookmark {
	return Bookmark{Unbounded: true}
}

// Parse decodes s in the bookmark wire format. A trailing ",..." tail is
// truncated at the first comma before parsing. An empty string yields
// Unfiltered().
// Parse errors are logged at WARN and downgraded to Unfiltered() rather
// than returned, since recovery must proceed even with a corrupt
// bookmark.
func Parse(s string) Bookmark {
	if s == "" {
		return Unfiltered()
	}
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		s = s[:idx]
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		log.WithFields(log.Fields{"bookmark": s, "err": err}).
			Warn("recall: failed to parse bookmark, recovery will not filter by timestamp")
		return Unfiltered()
	}
	return Bookmark{At: t.UTC()}
}

// Admits reports whether an entry timestamped ts should be included under
// this bookmark: ts must not be strictly after the bookmark. An unbounded
// bookmark admits everything.
func (b Bookmark) Admits(ts time.Time) bool {
	if b.Unbounded {
		return true
	}
	return !ts.After(b.At)
}
