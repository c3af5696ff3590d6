// Command recall-recon runs a single recovery-and-reconciliation pass
// over a replayed transaction log: parse config, build collaborators,
// fire the cache's ready signal (which constructs the driver and runs the
// recovery pass), log the cache sizes, exit.
package main

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/quantedge/recall-recon/go/recall/bookmark"
	"github.com/quantedge/recall-recon/go/recall/cache"
	"github.com/quantedge/recall-recon/go/recall/publish"
	"github.com/quantedge/recall-recon/go/recall/recovery"
	"github.com/quantedge/recall-recon/go/recall/replay"
)

// config is the top-level CLI configuration. Flow.Recovery embeds the
// recovery pass's own options; Flow.ReplayFile/TicketBookmark/OMSBookmark
// are additive flags needed to drive a standalone run (the real
// deployment's bookmark store and topic subscriptions are external
// collaborators).
type config struct {
	Flow struct {
		ReplayFile     string `long:"replay-file" env:"REPLAY_FILE" required:"true" description:"Path to the NDJSON transaction log to replay"`
		TicketBookmark string `long:"ticket-bookmark" env:"TICKET_BOOKMARK" description:"Replay bookmark for RECALL/TICKET/HISTORY"`
		OMSBookmark    string `long:"oms-bookmark" env:"OMS_BOOKMARK" description:"Replay bookmark shared by the two OMS-facing topics"`

		Recovery recovery.Config `group:"recovery" namespace:"recovery" env-namespace:"RECOVERY"`
	} `group:"flow" namespace:"flow" env-namespace:"FLOW"`
}

func main() {
	var cfg config
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	log.SetFormatter(&log.JSONFormatter{})

	file, err := os.Open(cfg.Flow.ReplayFile)
	if err != nil {
		log.WithField("err", err).Fatal("recall: failed to open replay file")
	}
	defer file.Close()

	txLog, err := replay.Load(file)
	if err != nil {
		log.WithField("err", err).Fatal("recall: failed to load transaction log")
	}

	ticketBookmark := bookmark.Parse(cfg.Flow.TicketBookmark)
	omsBookmark := bookmark.Parse(cfg.Flow.OMSBookmark)

	store := cache.New()
	signal := cache.NewReadySignal(store, func() {
		driver := recovery.New(cfg.Flow.Recovery, store, publish.ConsolePublisher{}, prometheus.DefaultRegisterer)
		driver.Recover(context.Background(), txLog, ticketBookmark, omsBookmark)
	})

	// In production this call is made by the host container's
	// "context refreshed" hook; here it runs synchronously right after
	// construction so the process never serves reads before recovery has
	// completed.
	signal.ContextRefreshed()

	tickets, orders := store.Sizes()
	log.WithFields(log.Fields{"tickets": tickets, "orders": orders}).
		Info("recall: cache ready, accepting reads")
}
