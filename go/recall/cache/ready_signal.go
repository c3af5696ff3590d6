package cache

import log "github.com/sirupsen/logrus"

// ReadySignal is a boundary hook the host container invokes once on
// "context refreshed". Its only duty is to force initialization if it
// hasn't happened yet, logging the decision.
type ReadySignal struct {
	cache *Cache
	run   func()
}

// NewReadySignal binds a ReadySignal to cache; run is invoked by
// EnsureInitialized the first time the signal (or any other caller of
// EnsureInitialized) fires.
func NewReadySignal(c *Cache, run func()) *ReadySignal {
	return &ReadySignal{cache: c, run: run}
}

// ContextRefreshed is the hook the host container calls. It is safe to
// call more than once: only the first call across the whole process does
// anything.
func (r *ReadySignal) ContextRefreshed() {
	if r.cache.IsInitialized() {
		log.Info("recall: context refreshed, cache already initialized")
		return
	}
	log.Info("recall: context refreshed, forcing cache initialization")
	r.cache.EnsureInitialized(r.run)
}
