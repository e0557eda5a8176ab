package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		args []any
		want string
	}{
		{"currency", "{0:C}", []any{42.5}, "$42.50"},
		{"currency negative", "{0:C}", []any{-1234.5}, "-$1,234.50"},
		{"literal prefix custom", "${0:0.00}", []any{42.5}, "$42.50"},
		{"empty string ignores spec", "{0:C}", []any{""}, ""},
		{"nil renders empty", "{0:N2}", []any{nil}, ""},
		{"plain placeholder", "Item {0}", []any{"abc"}, "Item abc"},
		{"escaped braces", "{{{0}}}", []any{7}, "{7}"},
		{"multiple args", "{1}-{0}", []any{"a", "b"}, "b-a"},
		{"right align", "[{0,6}]", []any{"ab"}, "[    ab]"},
		{"left align", "[{0,-6}]", []any{"ab"}, "[ab    ]"},
		{"align with spec", "[{0,8:F1}]", []any{3.14159}, "[     3.1]"},
		{"missing argument verbatim", "{1}", []any{"a"}, "{1}"},
		{"malformed verbatim", "{0", []any{"a"}, "{0"},
		{"stray close brace verbatim", "a}b", nil, "a}b"},
		{"no placeholders", "static", nil, "static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.tmpl, tt.args...))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tmpl, err := Parse("Total: {0,10:N2} ({1})")
		require.NoError(t, err)
		assert.Equal(t, "Total: {0,10:N2} ({1})", tmpl.String())
		assert.Equal(t, 1, tmpl.maxIndex)
	})

	t.Run("errors", func(t *testing.T) {
		for _, bad := range []string{"{", "{x}", "{0,abc}", "}", "{-1}"} {
			_, err := Parse(bad)
			assert.Error(t, err, bad)
		}
	})

	t.Run("execute missing argument", func(t *testing.T) {
		tmpl, err := Parse("{0} {2}")
		require.NoError(t, err)
		_, err = tmpl.Execute("a", "b")
		assert.Error(t, err)
	})
}

func TestStandardNumeric(t *testing.T) {
	tests := []struct {
		spec string
		v    any
		want string
	}{
		{"C", 42.5, "$42.50"},
		{"C0", 42.5, "$43"},
		{"C3", 1234567.891, "$1,234,567.891"},
		{"c", 0, "$0.00"},
		{"C", -0.001, "$0.00"},
		{"N", 1234.5678, "1,234.57"},
		{"N0", 1234567, "1,234,567"},
		{"N1", -9999.95, "-10,000.0"},
		{"F", 2.345, "2.35"},
		{"F0", 2.5, "3"},
		{"F0", -2.5, "-3"},
		{"F3", 1, "1.000"},
		{"D", 42, "42"},
		{"D5", 42, "00042"},
		{"D5", -42, "-00042"},
		{"D", 1.5, "1.5"},
		{"P", 0.125, "12.50%"},
		{"P0", 0.5, "50%"},
		{"P1", 3, "300.0%"},
		{"X", 255, "FF"},
		{"x4", 255, "00ff"},
		{"X", int32(-1), "FFFFFFFF"},
		{"X", uint8(200), "C8"},
		{"E", 12345.6789, "1.234568E+004"},
		{"e2", -0.00012, "-1.20e-004"},
		{"G", 3.5, "3.5"},
		{"", 1e20, "1E+20"},
		{"", int64(-7), "-7"},
		{"G", float32(0.1), "0.1"},
		{"G", 0.0001, "0.0001"},
		{"G", 0.00001, "1E-05"},
		{"g", -0.0000025, "-2.5e-06"},
		{"N2", json.Number("1234.5"), "1,234.50"},
		{"D3", json.Number("7"), "007"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.v, tt.spec))
		})
	}
}

func TestCustomNumeric(t *testing.T) {
	tests := []struct {
		spec string
		v    any
		want string
	}{
		{"0.00", 42.5, "42.50"},
		{"0.00", 0, "0.00"},
		{"#,##0.00", 1234567.8, "1,234,567.80"},
		{"#,##0", 999.5, "1,000"},
		{"#.##", 0.5, ".5"},
		{"#.##", 3, "3"},
		{"0.0#", 1.005, "1.01"},
		{"000", 7, "007"},
		{"0%", 0.256, "26%"},
		{"0.0 %", 0.5, "50.0 %"},
		{"$#,##0.00", -1500, "-$1,500.00"},
		{"0.00;(0.00)", -3.14159, "(3.14)"},
		{"0.00;(0.00);zero", 0, "zero"},
		{"'#'0", 5, "#5"},
		{"\\#0", 5, "#5"},
		{"0 units", 12, "12 units"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.v, tt.spec))
		})
	}
}

func TestTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 123000000, time.UTC)
	tests := []struct {
		spec string
		want string
	}{
		{"d", "3/5/2024"},
		{"D", "Tuesday, March 5, 2024"},
		{"t", "2:07 PM"},
		{"T", "2:07:09 PM"},
		{"g", "3/5/2024 2:07 PM"},
		{"", "3/5/2024 2:07:09 PM"},
		{"s", "2024-03-05T14:07:09"},
		{"u", "2024-03-05 14:07:09Z"},
		{"o", "2024-03-05T14:07:09.1230000Z"},
		{"R", "Tue, 05 Mar 2024 14:07:09 GMT"},
		{"M", "March 5"},
		{"Y", "March 2024"},
		{"yyyy-MM-dd", "2024-03-05"},
		{"dd/MM/yy HH:mm:ss", "05/03/24 14:07:09"},
		{"MMM d, yyyy", "Mar 5, 2024"},
		{"dddd, MMMM d", "Tuesday, March 5"},
		{"hh:mm tt", "02:07 PM"},
		{"h:mm t", "2:07 P"},
		{"HH:mm:ss.fff", "14:07:09.123"},
		{"ss.FFFFFF", "09.123"},
		{"yyyy'-Q'", "2024-Q"},
		{"%d", "5"},
		{"zzz K", "+00:00 Z"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, Time(ts, tt.spec))
		})
	}

	t.Run("via template", func(t *testing.T) {
		assert.Equal(t, "Due 2024-03-05", Apply("Due {0:yyyy-MM-dd}", ts))
		assert.Equal(t, "Due 2024-03-05", Apply("Due {0:yyyy-MM-dd}", &ts))
	})

	t.Run("offset zone", func(t *testing.T) {
		zone := time.FixedZone("X", -5*3600-30*60)
		local := time.Date(2024, 1, 2, 3, 4, 5, 0, zone)
		assert.Equal(t, "-05:30", Time(local, "zzz"))
		assert.Equal(t, "-05", Time(local, "zz"))
	})
}

func TestValueFallbacks(t *testing.T) {
	var nilPtr *float64
	price := 9.5

	assert.Equal(t, "", Value(nilPtr, "C"))
	assert.Equal(t, "$9.50", Value(&price, "C"))
	assert.Equal(t, "true", Value(true, "C"))
	assert.Equal(t, "True", Apply("{0}", true))
	assert.Equal(t, "Active: False", Apply("Active: {0}", false))
	assert.Equal(t, "1m30s", Value(90*time.Second, ""))
	assert.Equal(t, "[1 2]", Value([]int{1, 2}, ""))

	type code string
	assert.Equal(t, "abc", Value(code("abc"), "C"))
}

func TestApplyConcurrent(t *testing.T) {
	done := make(chan string, 16)
	for i := 0; i < cap(done); i++ {
		go func() { done <- Apply("{0:N1}", 1234.56) }()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, "1,234.6", <-done)
	}
}
