// Package replay loads a newline-delimited JSON rendering of the
// append-only transaction log into an aggregate.Log. The actual topic
// subscriptions are an external collaborator; this loader stands in for
// "the replay window has closed and here is everything that arrived",
// which is the only contract the Recovery Driver needs.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantedge/recall-recon/go/recall/aggregate"
	"github.com/quantedge/recall-recon/go/recall/codec"
	"github.com/quantedge/recall-recon/go/recall/logentry"
	"github.com/quantedge/recall-recon/go/recall/topics"
)

// Envelope is one line of the NDJSON replay log.
type Envelope struct {
	OrderID     string          `json:"orderId"`
	Source      string          `json:"source"`
	State       string          `json:"state"`
	Timestamp   time.Time       `json:"timestamp"`
	Kind        string          `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	RecallQty   int64           `json:"recallQty"`
	FillQty     int64           `json:"fillQty"`
	FillPrice   float64         `json:"fillPrice"`
	ExecutionID string          `json:"executionId,omitempty"`
	ExecType    string          `json:"execType,omitempty"`
}

const (
	KindTicket          = "ticket"
	KindOrder           = "order"
	KindExecutionReport = "executionReport"
)

// Load reads NDJSON envelopes from r and aggregates them by order-id.
// A malformed line or payload is logged at WARN and dropped: per-entry
// decode failures are never fatal to the load.
func Load(r io.Reader) (*aggregate.Log, error) {
	txLog := aggregate.New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		entry, err := decodeLine(line)
		if err != nil {
			log.WithFields(log.Fields{"line": lineNo, "err": err}).
				Warn("recall: dropping malformed replay line")
			continue
		}
		txLog.Append(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("replay: scanning input: %w", err)
	}
	return txLog, nil
}

func decodeLine(line []byte) (logentry.Entry, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return logentry.Entry{}, fmt.Errorf("decoding envelope: %w", err)
	}

	payload, err := decodePayload(env)
	if err != nil {
		return logentry.Entry{}, err
	}

	builder := logentry.NewBuilder().
		OrderID(env.OrderID).
		Source(topics.Source(env.Source)).
		State(env.State).
		Timestamp(env.Timestamp).
		Message(payload).
		RecallQty(env.RecallQty).
		FillQty(env.FillQty).
		FillPrice(env.FillPrice)

	if env.ExecutionID != "" {
		builder.ExecutionID(env.ExecutionID)
	}
	if env.ExecType != "" {
		builder.ExecType(env.ExecType[0])
	}

	return builder.Build()
}

func decodePayload(env Envelope) (logentry.Payload, error) {
	switch env.Kind {
	case KindTicket:
		t, err := codec.DecodeTicket(env.Payload)
		if err != nil {
			return logentry.Payload{}, err
		}
		return logentry.TicketPayload(t), nil
	case KindOrder:
		o, err := codec.DecodeOrder(env.Payload)
		if err != nil {
			return logentry.Payload{}, err
		}
		return logentry.OrderPayload(o), nil
	case KindExecutionReport:
		e, err := codec.DecodeExecutionReport(env.Payload)
		if err != nil {
			return logentry.Payload{}, err
		}
		return logentry.ExecutionReportPayload(e), nil
	default:
		return logentry.Payload{}, fmt.Errorf("replay: unrecognised envelope kind %q", env.Kind)
	}
}
