// Package codec parses the three wire shapes a log entry's payload may
// arrive in: JSON, NVFIX (SOH-delimited tag=value), and a hybrid
// "JSON + trailing SOH metadata" form.
package codec

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// SOH is the NVFIX field delimiter, U+0001.
const SOH = "\x01"

// decodeNVFIX splits raw on SOH into tag=value pairs and applies each to a
// freshly zeroed T via its reflected setter table. Unknown tags are logged
// at WARN and skipped, never fatal.
func decodeNVFIX[T any](raw string) (*T, error) {
	table := setterTableFor[T]()

	var out T
	v := reflect.ValueOf(&out).Elem()

	fields := splitFields(raw)
	if len(fields) == 0 {
		return nil, parsingErrorf(raw, "nvfix: empty message")
	}

	for _, f := range fields {
		eq := strings.IndexByte(f, '=')
		if eq <= 0 {
			return nil, parsingErrorf(raw, "nvfix: malformed field %q: missing tag=value", f)
		}
		tag, value := f[:eq], f[eq+1:]

		setter, ok := table[tag]
		if !ok {
			log.WithFields(log.Fields{"tag": tag, "value": value}).
				Warn("recall: unknown nvfix tag, skipping")
			continue
		}
		if err := setter(v, value); err != nil {
			return nil, parsingErrorf(raw, "nvfix: tag %s: %w", tag, err)
		}
	}
	return &out, nil
}

// splitFields splits raw on SOH, dropping any empty trailing field left by
// a terminating delimiter.
func splitFields(raw string) []string {
	parts := strings.Split(raw, SOH)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// encodeNVFIX serialises T's tagged fields back to tag=value pairs joined
// by SOH, in the struct's declared field order. It is the inverse of
// decodeNVFIX, used for round-trip tests and outbound DFD publishes.
func encodeNVFIX[T any](value *T) string {
	typ := reflect.TypeOf(*value)
	v := reflect.ValueOf(*value)

	var b strings.Builder
	for i := 0; i < typ.NumField(); i++ {
		tag, ok := typ.Field(i).Tag.Lookup("nvfix")
		if !ok {
			continue
		}
		field := v.Field(i)
		rendered, ok := renderField(field)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(SOH)
		}
		fmt.Fprintf(&b, "%s=%s", tag, rendered)
	}
	return b.String()
}

func renderField(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return "", false
		}
		return v.String(), true
	case reflect.Int64:
		return fmt.Sprintf("%d", v.Int()), true
	case reflect.Float64:
		return fmt.Sprintf("%v", v.Float()), true
	case reflect.Uint8:
		if v.Uint() == 0 {
			return "", false
		}
		return string(rune(v.Uint())), true
	default:
		if t, ok := v.Interface().(time.Time); ok {
			if t.IsZero() {
				return "", false
			}
			return t.UTC().Format(time.RFC3339Nano), true
		}
		return fmt.Sprintf("%v", v.Interface()), true
	}
}
