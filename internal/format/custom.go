package format

import (
	"strings"
)

// pattern is one section of a custom numeric spec such as "$#,##0.00".
type pattern struct {
	prefix    string
	suffix    string
	minInt    int
	minFrac   int
	maxFrac   int
	grouping  bool
	percent   bool
	hasDigits bool
}

// custom formats n with a custom numeric spec. Up to three sections
// separated by ';' select the format for positive, negative and zero values.
// Trailing-comma scaling is not supported.
func custom(n num, spec string) string {
	sections := splitSections(spec)
	neg := n.negative()
	useSign := true
	sec := sections[0]
	if neg && len(sections) >= 2 && sections[1] != "" {
		sec = sections[1]
		useSign = false
	}

	p := parsePattern(sec)
	ip, fp := p.round(n)
	zero := isZero(ip, fp)
	if zero && len(sections) >= 3 && sections[2] != "" {
		p = parsePattern(sections[2])
		ip, fp = p.round(n)
		useSign = false
	}

	for len(fp) > p.minFrac && strings.HasSuffix(fp, "0") {
		fp = fp[:len(fp)-1]
	}
	ip = strings.TrimLeft(ip, "0")
	if len(ip) < p.minInt {
		ip = strings.Repeat("0", p.minInt-len(ip)) + ip
	}
	if p.grouping && ip != "" {
		ip = group(ip)
	}

	number := ""
	if p.hasDigits {
		number = ip + dotFrac(fp)
	}
	out := p.prefix + number + p.suffix
	if neg && useSign && !zero {
		out = "-" + out
	}
	return out
}

func (p pattern) round(n num) (string, string) {
	dec := n.absDecimal()
	if p.percent {
		dec = shiftDecimal(dec, 2)
	}
	return roundDecimal(dec, p.maxFrac)
}

// splitSections splits spec on unquoted ';', keeping at most three sections.
func splitSections(spec string) []string {
	var sections []string
	var cur strings.Builder
	var quote rune
	escaped := false
	for _, r := range spec {
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\\':
			escaped = true
		case r == '\'' || r == '"':
			quote = r
		case r == ';' && len(sections) < 2:
			sections = append(sections, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	return append(sections, cur.String())
}

func parsePattern(sec string) pattern {
	const (
		inPrefix = iota
		inNumber
		inSuffix
	)
	var (
		p            pattern
		pre, suf     strings.Builder
		state        = inPrefix
		seenDot      bool
		intZeroSeen  bool
		pendingComma bool
	)
	literal := func(s string) {
		if state == inPrefix {
			pre.WriteString(s)
			return
		}
		state = inSuffix
		suf.WriteString(s)
	}
	placeholder := func(zero bool) {
		if state == inSuffix {
			return
		}
		state = inNumber
		p.hasDigits = true
		if seenDot {
			p.maxFrac++
			if zero {
				p.minFrac = p.maxFrac
			}
			return
		}
		if pendingComma {
			p.grouping = true
			pendingComma = false
		}
		if zero {
			intZeroSeen = true
		}
		if intZeroSeen {
			p.minInt++
		}
	}

	rs := []rune(sec)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch r {
		case '0':
			placeholder(true)
		case '#':
			placeholder(false)
		case '.':
			if seenDot || state == inSuffix {
				literal(".")
				continue
			}
			seenDot = true
			state = inNumber
		case ',':
			if state == inNumber && !seenDot {
				pendingComma = true
				continue
			}
			literal(",")
		case '%':
			p.percent = true
			literal("%")
		case '\\':
			if i+1 < len(rs) {
				i++
				literal(string(rs[i]))
			}
		case '\'', '"':
			end := i + 1
			for end < len(rs) && rs[end] != r {
				end++
			}
			literal(string(rs[i+1 : min(end, len(rs))]))
			i = end
		default:
			literal(string(r))
		}
	}
	p.prefix = pre.String()
	p.suffix = suf.String()
	return p
}
