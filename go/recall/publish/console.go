// Package publish provides a minimal messaging.Publisher suitable for
// local runs and tests: it logs the outbound payload instead of placing
// it on a real broker. Production wiring supplies its own Publisher,
// since the messaging client is an external collaborator.
package publish

import (
	"context"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

// ConsolePublisher implements messaging.Publisher by writing a colorized
// one-line summary to stdout and logging the full payload at INFO.
type ConsolePublisher struct{}

func (ConsolePublisher) Publish(_ context.Context, topic string, payload []byte) error {
	color.Cyan("-> %s (%d bytes)", topic, len(payload))
	log.WithFields(log.Fields{"topic": topic, "payload": string(payload)}).
		Info("recall: publish")
	return nil
}
