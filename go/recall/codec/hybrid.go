package codec

import (
	"encoding/json"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/quantedge/recall-recon/go/recall/model"
)

// splitHybrid isolates the leading JSON object from raw by scanning for
// its matching closing brace with depth tracking that respects
// double-quoted strings and backslash escapes, returning the JSON slice
// and the trailing SOH-delimited metadata tail.
func splitHybrid(raw []byte) (jsonPart []byte, tail string, err error) {
	depth := 0
	inString := false
	escaped := false

	for i, b := range raw {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[:i+1], string(raw[i+1:]), nil
			}
		}
	}
	return nil, "", parsingErrorf(string(raw), "hybrid: no matching closing brace found")
}

// decodeHybridToMap isolates the JSON object, parses the trailing SOH tail
// as NVFIX tag=value metadata, resolves each tag to T's lower-cased JSON
// field name via the memoised per-type tag-to-JSON-key table
// (jsonKeyTableFor, built from the same nvfix struct tags the NVFIX
// decoder's setter table reads), promotes numeric-looking values, and merges the result into the JSON
// object (metadata wins on key collision). A metadata tag with no
// corresponding field on T is logged at WARN and skipped, the same
// "unknown tag" tolerance the pure-NVFIX decoder applies.
func decodeHybridToMap[T any](raw []byte) (map[string]interface{}, error) {
	jsonPart, tail, err := splitHybrid(raw)
	if err != nil {
		return nil, err
	}

	decoded := make(map[string]interface{})
	if err := json.Unmarshal(jsonPart, &decoded); err != nil {
		return nil, parsingErrorf(string(raw), "hybrid: json portion: %w", err)
	}
	// Re-key to lower case so the JSON object's own fields participate in
	// the same lower-cased merge space as the metadata keys below: a
	// genuine map-key collision, not an incidental JSON-unmarshal
	// duplicate-key resolution.
	merged := make(map[string]interface{}, len(decoded))
	for k, v := range decoded {
		merged[strings.ToLower(k)] = v
	}

	keys := jsonKeyTableFor[T]()
	tail = strings.Trim(tail, SOH)
	for _, field := range splitFields(tail) {
		eq := strings.IndexByte(field, '=')
		if eq <= 0 {
			return nil, parsingErrorf(string(raw), "hybrid: malformed metadata field %q", field)
		}
		tag, value := field[:eq], field[eq+1:]
		key, ok := keys[tag]
		if !ok {
			log.WithFields(log.Fields{"tag": tag, "value": value}).
				Warn("recall: unknown hybrid metadata tag, skipping")
			continue
		}
		merged[key] = promote(value)
	}
	return merged, nil
}

// promote applies the numeric-promotion rule: pure-digit strings become
// integers, digit-dot-digit strings become reals, everything else stays a
// string.
func promote(value string) interface{} {
	if value == "" {
		return value
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil && isAllDigits(value) {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && isDigitDotDigit(value) {
		return f
	}
	return value
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isDigitDotDigit(s string) bool {
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return false
	}
	return isAllDigits(s[:dot]) && isAllDigits(s[dot+1:])
}

func mapToStruct(m map[string]interface{}, target interface{}) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return parsingErrorf("", "hybrid: remarshal: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return parsingErrorf(string(raw), "hybrid: unmarshal into target: %w", err)
	}
	return nil
}

func mapToTicket(m map[string]interface{}) (*model.RecallTicket, error) {
	var t model.RecallTicket
	if err := mapToStruct(m, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func mapToOrder(m map[string]interface{}) (*model.Order, error) {
	var o model.Order
	if err := mapToStruct(m, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func mapToExecutionReport(m map[string]interface{}) (*model.ExecutionReport, error) {
	var e model.ExecutionReport
	if err := mapToStruct(m, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
