package format

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Value formats a single value with a format spec. Strings ignore the spec,
// nil renders as the empty string.
func Value(v any, spec string) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return Time(t, spec)
	case *time.Time:
		if t == nil {
			return ""
		}
		return Time(*t, spec)
	case time.Duration:
		return t.String()
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return formatNumber(intNum(i, 64), spec)
		}
		if f, err := t.Float64(); err == nil {
			return formatNumber(floatNum(f), spec)
		}
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // remaining kinds use fmt
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return formatNumber(intNum(rv.Int(), rv.Type().Bits()), spec)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return formatNumber(uintNum(rv.Uint(), rv.Type().Bits()), spec)
	case reflect.Float32:
		// Format float32 through its shortest decimal form, not its float64 widening.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return formatNumber(floatNum(f), spec)
	case reflect.Float64:
		return formatNumber(floatNum(rv.Float()), spec)
	case reflect.String:
		return rv.String()
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
		return Value(rv.Elem().Interface(), spec)
	}
	return fmt.Sprint(v)
}
