package logentry

import (
	"fmt"
	"time"

	"github.com/quantedge/recall-recon/go/recall/topics"
)

// Entry is an immutable record read off one of the three transaction-log
// topics. Construct only through NewBuilder, which enforces the required
// non-null fields.
type Entry struct {
	orderID     string
	source      topics.Source
	state       string
	timestamp   time.Time
	message     Payload
	recallQty   int64
	fillQty     int64
	fillPrice   float64
	executionID string
	hasExecID   bool
	execType    byte
	hasExecType bool
}

func (e Entry) OrderID() string          { return e.orderID }
func (e Entry) Source() topics.Source    { return e.source }
func (e Entry) State() string            { return e.state }
func (e Entry) Timestamp() time.Time     { return e.timestamp }
func (e Entry) Message() Payload         { return e.message }
func (e Entry) RecallQty() int64         { return e.recallQty }
func (e Entry) FillQty() int64           { return e.fillQty }
func (e Entry) FillPrice() float64       { return e.fillPrice }

func (e Entry) ExecutionID() (string, bool) { return e.executionID, e.hasExecID }
func (e Entry) ExecType() (byte, bool)       { return e.execType, e.hasExecType }

// Builder constructs an Entry, validating required fields on Build.
type Builder struct {
	entry Entry
	err   error
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) OrderID(id string) *Builder {
	b.entry.orderID = id
	return b
}

func (b *Builder) Source(s topics.Source) *Builder {
	b.entry.source = s
	return b
}

func (b *Builder) State(state string) *Builder {
	b.entry.state = state
	return b
}

func (b *Builder) Timestamp(ts time.Time) *Builder {
	b.entry.timestamp = ts
	return b
}

func (b *Builder) Message(p Payload) *Builder {
	b.entry.message = p
	return b
}

func (b *Builder) RecallQty(q int64) *Builder {
	b.entry.recallQty = q
	return b
}

func (b *Builder) FillQty(q int64) *Builder {
	b.entry.fillQty = q
	return b
}

func (b *Builder) FillPrice(p float64) *Builder {
	b.entry.fillPrice = p
	return b
}

func (b *Builder) ExecutionID(id string) *Builder {
	b.entry.executionID = id
	b.entry.hasExecID = true
	return b
}

func (b *Builder) ExecType(t byte) *Builder {
	b.entry.execType = t
	b.entry.hasExecType = true
	return b
}

// Build validates that OrderID, Source, State, and Timestamp were set and
// returns the immutable Entry.
func (b *Builder) Build() (Entry, error) {
	if b.entry.orderID == "" {
		return Entry{}, fmt.Errorf("logentry: orderID is required")
	}
	if b.entry.source == "" {
		return Entry{}, fmt.Errorf("logentry: source is required")
	}
	if b.entry.state == "" {
		return Entry{}, fmt.Errorf("logentry: state is required")
	}
	if b.entry.timestamp.IsZero() {
		return Entry{}, fmt.Errorf("logentry: timestamp is required")
	}
	return b.entry, nil
}
