package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fieldSetter assigns value (the raw NVFIX field text) onto field.
type fieldSetter func(field reflect.Value, value string) error

// setterTable maps an NVFIX tag to the setter for the struct field it
// targets.
type setterTable map[string]fieldSetter

// tableCache memoises the reflected setterTable per struct type, so a
// repeated parse of the same payload Kind never re-walks its fields with
// reflection. Bounded size is a defensive measure: this module decodes a
// handful of known types, never an unbounded variety.
var tableCache, _ = lru.New[reflect.Type, setterTable](16)

// setterTableFor returns the memoised setter table for T, building it via
// reflection over the `nvfix:"tag"` struct tags on first use.
func setterTableFor[T any]() setterTable {
	var zero T
	typ := reflect.TypeOf(zero)

	if table, ok := tableCache.Get(typ); ok {
		return table
	}

	table := make(setterTable)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag, ok := sf.Tag.Lookup("nvfix")
		if !ok {
			continue
		}
		index := i
		table[tag] = setterForKind(sf.Type, index)
	}
	tableCache.Add(typ, table)
	return table
}

// jsonKeyTable maps an NVFIX tag to the lower-cased JSON key of the struct
// field it targets, used by the hybrid decoder to merge SOH metadata into
// the JSON object by field name rather than by raw tag number.
type jsonKeyTable map[string]string

var jsonKeyCache, _ = lru.New[reflect.Type, jsonKeyTable](16)

func jsonKeyTableFor[T any]() jsonKeyTable {
	var zero T
	typ := reflect.TypeOf(zero)

	if table, ok := jsonKeyCache.Get(typ); ok {
		return table
	}

	table := make(jsonKeyTable)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		nvfixTag, ok := sf.Tag.Lookup("nvfix")
		if !ok {
			continue
		}
		jsonTag, ok := sf.Tag.Lookup("json")
		if !ok {
			continue
		}
		name := jsonTag
		if comma := strings.IndexByte(jsonTag, ','); comma >= 0 {
			name = jsonTag[:comma]
		}
		table[nvfixTag] = strings.ToLower(name)
	}
	jsonKeyCache.Add(typ, table)
	return table
}

func setterForKind(fieldType reflect.Type, index int) fieldSetter {
	switch {
	case fieldType.Kind() == reflect.String:
		return func(v reflect.Value, value string) error {
			v.Field(index).SetString(value)
			return nil
		}
	case fieldType.Kind() == reflect.Int64:
		return func(v reflect.Value, value string) error {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("field %d: %w", index, err)
			}
			v.Field(index).SetInt(n)
			return nil
		}
	case fieldType.Kind() == reflect.Float64:
		return func(v reflect.Value, value string) error {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("field %d: %w", index, err)
			}
			v.Field(index).SetFloat(f)
			return nil
		}
	case fieldType.Kind() == reflect.Uint8:
		return func(v reflect.Value, value string) error {
			if len(value) != 1 {
				return fmt.Errorf("field %d: expected single byte, got %q", index, value)
			}
			v.Field(index).SetUint(uint64(value[0]))
			return nil
		}
	case fieldType == reflect.TypeOf(time.Time{}):
		return func(v reflect.Value, value string) error {
			t, err := time.Parse(time.RFC3339Nano, value)
			if err != nil {
				return fmt.Errorf("field %d: %w", index, err)
			}
			v.Field(index).Set(reflect.ValueOf(t.UTC()))
			return nil
		}
	default:
		return func(_ reflect.Value, _ string) error {
			return fmt.Errorf("field %d: unsupported nvfix field kind %s", index, fieldType.Kind())
		}
	}
}
