package format

import (
	"fmt"
	"strings"
	"time"
)

// standardTimeLayouts maps single-letter date/time specs to Go layouts
// (en-US conventions).
var standardTimeLayouts = map[string]string{
	"d": "1/2/2006",
	"D": "Monday, January 2, 2006",
	"f": "Monday, January 2, 2006 3:04 PM",
	"F": "Monday, January 2, 2006 3:04:05 PM",
	"g": "1/2/2006 3:04 PM",
	"G": "1/2/2006 3:04:05 PM",
	"M": "January 2",
	"m": "January 2",
	"o": "2006-01-02T15:04:05.0000000Z07:00",
	"O": "2006-01-02T15:04:05.0000000Z07:00",
	"s": "2006-01-02T15:04:05",
	"t": "3:04 PM",
	"T": "3:04:05 PM",
	"Y": "January 2006",
	"y": "January 2006",
}

// Time formats t with a standard single-letter spec ("d", "G", "s", ...) or
// a custom pattern ("yyyy-MM-dd HH:mm"). An empty spec means "G".
func Time(t time.Time, spec string) string {
	if spec == "" {
		spec = "G"
	}
	switch spec {
	case "r", "R":
		return t.UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
	case "u":
		return t.UTC().Format("2006-01-02 15:04:05Z")
	}
	if layout, ok := standardTimeLayouts[spec]; ok {
		return t.Format(layout)
	}
	// "%d" forces a single-letter spec to be read as a custom pattern.
	if len(spec) == 2 && spec[0] == '%' {
		spec = spec[1:]
	}
	return customTime(t, spec)
}

func customTime(t time.Time, spec string) string {
	var b strings.Builder
	rs := []rune(spec)
	for i := 0; i < len(rs); {
		r := rs[i]
		n := 1
		for i+n < len(rs) && rs[i+n] == r {
			n++
		}
		switch r {
		case 'y':
			year := t.Year()
			switch {
			case n <= 2:
				year %= 100
				if n == 1 {
					b.WriteString(fmt.Sprint(year))
				} else {
					fmt.Fprintf(&b, "%02d", year)
				}
			default:
				fmt.Fprintf(&b, "%0*d", n, year)
			}
		case 'M':
			switch n {
			case 1:
				fmt.Fprintf(&b, "%d", int(t.Month()))
			case 2:
				fmt.Fprintf(&b, "%02d", int(t.Month()))
			case 3:
				b.WriteString(t.Month().String()[:3])
			default:
				b.WriteString(t.Month().String())
			}
		case 'd':
			switch n {
			case 1:
				fmt.Fprintf(&b, "%d", t.Day())
			case 2:
				fmt.Fprintf(&b, "%02d", t.Day())
			case 3:
				b.WriteString(t.Weekday().String()[:3])
			default:
				b.WriteString(t.Weekday().String())
			}
		case 'H':
			writeTimeNumber(&b, t.Hour(), n)
		case 'h':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			writeTimeNumber(&b, h, n)
		case 'm':
			writeTimeNumber(&b, t.Minute(), n)
		case 's':
			writeTimeNumber(&b, t.Second(), n)
		case 'f', 'F':
			digits := fmt.Sprintf("%09d", t.Nanosecond())
			if n > 9 {
				n = 9
			}
			frac := digits[:n]
			if r == 'F' {
				frac = strings.TrimRight(frac, "0")
			}
			b.WriteString(frac)
		case 't':
			ampm := "AM"
			if t.Hour() >= 12 {
				ampm = "PM"
			}
			if n == 1 {
				ampm = ampm[:1]
			}
			b.WriteString(ampm)
		case 'z':
			_, offset := t.Zone()
			sign := '+'
			if offset < 0 {
				sign = '-'
				offset = -offset
			}
			hours, minutes := offset/3600, (offset%3600)/60
			switch n {
			case 1:
				fmt.Fprintf(&b, "%c%d", sign, hours)
			case 2:
				fmt.Fprintf(&b, "%c%02d", sign, hours)
			default:
				fmt.Fprintf(&b, "%c%02d:%02d", sign, hours, minutes)
			}
		case 'K':
			if t.Location() == time.UTC {
				b.WriteString("Z")
			} else {
				b.WriteString(t.Format("-07:00"))
			}
			n = 1
		case '\'', '"':
			end := i + 1
			for end < len(rs) && rs[end] != r {
				end++
			}
			b.WriteString(string(rs[i+1 : min(end, len(rs))]))
			i = end + 1
			continue
		case '\\':
			if i+1 < len(rs) {
				b.WriteRune(rs[i+1])
			}
			i += 2
			continue
		default:
			for j := 0; j < n; j++ {
				b.WriteRune(r)
			}
		}
		i += n
	}
	return b.String()
}

// writeTimeNumber writes v unpadded for single-letter tokens and zero-padded
// to two digits otherwise.
func writeTimeNumber(b *strings.Builder, v, n int) {
	if n == 1 {
		fmt.Fprintf(b, "%d", v)
		return
	}
	fmt.Fprintf(b, "%02d", v)
}
