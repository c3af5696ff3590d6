package recovery

import (
	"github.com/quantedge/recall-recon/go/recall/codec"
	"github.com/quantedge/recall-recon/go/recall/model"
)

// dfdEventTag is the NVFIX tag the outbound transformer appends to mark a
// message as a done-for-day compensating publish. It sits outside the
// standard FIX tag range, alongside this module's other recall-specific
// custom tags (9001-9009 in go/recall/model/types.go).
const dfdEventTag = "9099"

// buildDfdMessage renders the outbound transformer's NVFIX message: the
// rebuilt order's fields plus the done-for-day event token.
func buildDfdMessage(order *model.Order) string {
	body := codec.EncodeOrderNVFIX(order)
	token := dfdEventTag + "=DFD"
	if body == "" {
		return token
	}
	return body + codec.SOH + token
}
