package codec

import (
	"encoding/json"

	"github.com/quantedge/recall-recon/go/recall/model"
)

// Format identifies which of the three wire shapes a message arrived in.
type Format int

const (
	FormatJSON Format = iota
	FormatNVFIX
	FormatHybrid
)

// DetectFormat distinguishes the three wire shapes: a message starting
// with '{' and containing at least one SOH is hybrid; one starting with
// '{' alone is JSON; anything else is assumed NVFIX.
func DetectFormat(raw []byte) Format {
	if len(raw) == 0 {
		return FormatNVFIX
	}
	if raw[0] == '{' {
		if containsSOH(raw) {
			return FormatHybrid
		}
		return FormatJSON
	}
	return FormatNVFIX
}

func containsSOH(raw []byte) bool {
	for _, b := range raw {
		if b == '\x01' {
			return true
		}
	}
	return false
}

// DecodeTicket decodes raw as a RecallTicket, dispatching on its detected
// wire format.
func DecodeTicket(raw []byte) (*model.RecallTicket, error) {
	switch DetectFormat(raw) {
	case FormatJSON:
		var t model.RecallTicket
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, parsingErrorf(string(raw), "json: %w", err)
		}
		return &t, nil
	case FormatHybrid:
		merged, err := decodeHybridToMap[model.RecallTicket](raw)
		if err != nil {
			return nil, err
		}
		return mapToTicket(merged)
	default:
		return decodeNVFIX[model.RecallTicket](string(raw))
	}
}

// DecodeOrder decodes raw as an Order.
func DecodeOrder(raw []byte) (*model.Order, error) {
	switch DetectFormat(raw) {
	case FormatJSON:
		var o model.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, parsingErrorf(string(raw), "json: %w", err)
		}
		return &o, nil
	case FormatHybrid:
		merged, err := decodeHybridToMap[model.Order](raw)
		if err != nil {
			return nil, err
		}
		return mapToOrder(merged)
	default:
		return decodeNVFIX[model.Order](string(raw))
	}
}

// DecodeExecutionReport decodes raw as an ExecutionReport.
func DecodeExecutionReport(raw []byte) (*model.ExecutionReport, error) {
	switch DetectFormat(raw) {
	case FormatJSON:
		var e model.ExecutionReport
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, parsingErrorf(string(raw), "json: %w", err)
		}
		return &e, nil
	case FormatHybrid:
		merged, err := decodeHybridToMap[model.ExecutionReport](raw)
		if err != nil {
			return nil, err
		}
		return mapToExecutionReport(merged)
	default:
		return decodeNVFIX[model.ExecutionReport](string(raw))
	}
}

// EncodeTicketJSON serialises a ticket for the RECALL/TICKET republish
// target.
func EncodeTicketJSON(t *model.RecallTicket) ([]byte, error) {
	return json.Marshal(t)
}

// EncodeOrderNVFIX serialises an Order to NVFIX, used by the outbound DFD
// transformer.
func EncodeOrderNVFIX(o *model.Order) string {
	return encodeNVFIX(o)
}

// EncodeTicketNVFIX and EncodeExecutionReportNVFIX round out the NVFIX
// serialisers exercised by the round-trip property R2.
func EncodeTicketNVFIX(t *model.RecallTicket) string { return encodeNVFIX(t) }

func EncodeExecutionReportNVFIX(e *model.ExecutionReport) string { return encodeNVFIX(e) }
