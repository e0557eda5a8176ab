package format

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// num is a numeric argument. Integers keep their exact value and bit size so
// that D and X specs can render them without going through float64.
type num struct {
	isInt    bool
	unsigned bool
	bits     int
	i        int64
	u        uint64
	f        float64
}

func intNum(i int64, bits int) num   { return num{isInt: true, bits: bits, i: i} }
func uintNum(u uint64, bits int) num { return num{isInt: true, unsigned: true, bits: bits, u: u} }
func floatNum(f float64) num         { return num{f: f} }

func (n num) negative() bool {
	if n.isInt {
		return !n.unsigned && n.i < 0
	}
	return n.f < 0
}

// absDecimal returns the absolute value as a plain decimal string without
// exponent, e.g. "42.5" or "1000".
func (n num) absDecimal() string {
	if n.isInt {
		if n.unsigned {
			return strconv.FormatUint(n.u, 10)
		}
		if n.i < 0 {
			return strconv.FormatUint(uint64(-(n.i+1))+1, 10)
		}
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatFloat(math.Abs(n.f), 'f', -1, 64)
}

func (n num) float() float64 {
	if !n.isInt {
		return n.f
	}
	if n.unsigned {
		return float64(n.u)
	}
	return float64(n.i)
}

// formatNumber formats a numeric argument with a standard (C, D, E, F, G, N, P, R,
// X) or custom ("0.00", "#,##0", "0%") numeric spec.
func formatNumber(n num, spec string) string {
	if !n.isInt {
		switch {
		case math.IsNaN(n.f):
			return "NaN"
		case math.IsInf(n.f, 1):
			return "Infinity"
		case math.IsInf(n.f, -1):
			return "-Infinity"
		}
	}
	if c, prec, ok := parseStandard(spec); ok {
		if s, ok := standard(n, c, prec); ok {
			return s
		}
	}
	return custom(n, spec)
}

// parseStandard recognizes a standard numeric spec: one letter followed by
// an optional precision of up to three digits. Empty means "G".
func parseStandard(spec string) (byte, int, bool) {
	if spec == "" {
		return 'G', -1, true
	}
	c := spec[0]
	if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
		return 0, 0, false
	}
	rest := spec[1:]
	if rest == "" {
		return c, -1, true
	}
	if len(rest) > 3 {
		return 0, 0, false
	}
	p, err := strconv.Atoi(rest)
	if err != nil || p < 0 {
		return 0, 0, false
	}
	return c, p, true
}

func standard(n num, c byte, prec int) (string, bool) {
	withDefault := func(d int) int {
		if prec < 0 {
			return d
		}
		return prec
	}
	switch c {
	case 'C', 'c':
		ip, fp := roundDecimal(n.absDecimal(), withDefault(2))
		return sign(n, ip, fp) + "$" + group(ip) + dotFrac(fp), true
	case 'N', 'n':
		ip, fp := roundDecimal(n.absDecimal(), withDefault(2))
		return sign(n, ip, fp) + group(ip) + dotFrac(fp), true
	case 'F', 'f':
		ip, fp := roundDecimal(n.absDecimal(), withDefault(2))
		return sign(n, ip, fp) + ip + dotFrac(fp), true
	case 'P', 'p':
		ip, fp := roundDecimal(shiftDecimal(n.absDecimal(), 2), withDefault(2))
		return sign(n, ip, fp) + group(ip) + dotFrac(fp) + "%", true
	case 'D', 'd':
		if !n.isInt {
			return general(n, -1, 'G'), true
		}
		digits := n.absDecimal()
		if len(digits) < prec {
			digits = strings.Repeat("0", prec-len(digits)) + digits
		}
		return sign(n, digits, "") + digits, true
	case 'X', 'x':
		if !n.isInt {
			return general(n, -1, 'G'), true
		}
		v := n.u
		if !n.unsigned {
			v = uint64(n.i)
			if n.bits > 0 && n.bits < 64 {
				v &= (uint64(1) << uint(n.bits)) - 1
			}
		}
		hex := strconv.FormatUint(v, 16)
		if c == 'X' {
			hex = strings.ToUpper(hex)
		}
		if len(hex) < prec {
			hex = strings.Repeat("0", prec-len(hex)) + hex
		}
		return hex, true
	case 'E', 'e':
		return exponential(n, withDefault(6), c), true
	case 'G', 'g', 'R', 'r':
		return general(n, prec, c), true
	}
	return "", false
}

func exponential(n num, prec int, c byte) string {
	s := strconv.FormatFloat(math.Abs(n.float()), 'e', prec, 64)
	mant, exp, _ := strings.Cut(s, "e")
	expSign := exp[:1]
	expDigits := exp[1:]
	for len(expDigits) < 3 {
		expDigits = "0" + expDigits
	}
	letter := "E"
	if c == 'e' {
		letter = "e"
	}
	out := mant + letter + expSign + expDigits
	if n.negative() && strings.Trim(mant, "0.") != "" {
		out = "-" + out
	}
	return out
}

func general(n num, prec int, c byte) string {
	if n.isInt {
		if n.unsigned {
			return strconv.FormatUint(n.u, 10)
		}
		return strconv.FormatInt(n.i, 10)
	}
	var s string
	if prec > 0 {
		s = strconv.FormatFloat(n.f, 'g', prec, 64)
	} else {
		abs := math.Abs(n.f)
		if abs != 0 && (abs >= 1e15 || abs < 1e-4) {
			s = strconv.FormatFloat(n.f, 'e', -1, 64)
		} else {
			s = strconv.FormatFloat(n.f, 'f', -1, 64)
		}
	}
	if c == 'g' || c == 'r' {
		return s
	}
	return strings.ToUpper(s)
}

// roundDecimal rounds a plain decimal string to places fractional digits,
// half away from zero, and returns the integer and fraction digits.
func roundDecimal(dec string, places int) (string, string) {
	intPart, frac, _ := strings.Cut(dec, ".")
	if len(frac) <= places {
		return intPart, frac + strings.Repeat("0", places-len(frac))
	}
	digits := intPart + frac[:places]
	if frac[places] >= '5' {
		digits = increment(digits)
	}
	split := len(digits) - places
	return digits[:split], digits[split:]
}

func increment(digits string) string {
	b := []byte(digits)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '9' {
			b[i] = '0'
			continue
		}
		b[i]++
		return string(b)
	}
	return "1" + string(b)
}

// shiftDecimal multiplies a plain decimal string by 10^k.
func shiftDecimal(dec string, k int) string {
	ip, fp, _ := strings.Cut(dec, ".")
	for len(fp) < k {
		fp += "0"
	}
	ip += fp[:k]
	fp = fp[k:]
	ip = strings.TrimLeft(ip, "0")
	if ip == "" {
		ip = "0"
	}
	if fp == "" {
		return ip
	}
	return ip + "." + fp
}

func isZero(digits ...string) bool {
	for _, d := range digits {
		if strings.Trim(d, "0") != "" {
			return false
		}
	}
	return true
}

// sign returns "-" for negative values that do not round to zero.
func sign(n num, ip, fp string) string {
	if n.negative() && !isZero(ip, fp) {
		return "-"
	}
	return ""
}

func dotFrac(fp string) string {
	if fp == "" {
		return ""
	}
	return "." + fp
}

// group inserts thousands separators into an integer digit string.
func group(digits string) string {
	if len(digits) > 1 && digits[0] == '0' {
		// Zero-padded digits: big.Int would drop the padding.
		var b strings.Builder
		for i, r := range digits {
			if i > 0 && (len(digits)-i)%3 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(r)
		}
		return b.String()
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return digits
	}
	return humanize.BigComma(v)
}
