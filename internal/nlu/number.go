package nlu

import (
	"fmt"
	"strconv"
	"strings"

	"dialcore/internal/tokens"
)

const numberPrefix = "NUMBER="

type number struct {
	value   float64
	integer bool
}

// parseNumber reads a NUMBER= token. Values without a decimal point are
// integers, values with one are fractions.
func parseNumber(w string) (number, bool) {
	if !strings.HasPrefix(w, numberPrefix) {
		return number{}, false
	}
	raw := w[len(numberPrefix):]
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return number{}, false
		}
		return number{value: f}, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return number{}, false
	}
	return number{value: float64(n), integer: true}, true
}

func hourNumber(w string) (int, bool) {
	n, ok := parseNumber(w)
	if !ok || !n.integer || n.value < 0 || n.value >= 24 {
		return 0, false
	}
	return int(n.value), true
}

func minuteNumber(w string) (int, bool) {
	n, ok := parseNumber(w)
	if !ok || !n.integer || n.value < 0 || n.value >= 60 {
		return 0, false
	}
	return int(n.value), true
}

func fractionNumber(w string) (float64, bool) {
	n, ok := parseNumber(w)
	if !ok || n.integer {
		return 0, false
	}
	return n.value, true
}

func timeToken(span int, clock string) string {
	return fmt.Sprintf("TIME_%d=%s", span, clock)
}

// CollapseNumbers rewrites number patterns into TIME_<span>=h:mm tokens.
// Later checks at the same position see the result of earlier rewrites.
// Recognized patterns (FRAC, HOUR and MIN are number tokens):
//
//	FRAC na HOUR, FRAC HOUR, FRAC hodin*
//	HOUR a FRAC hodin*, HOUR hodin* a MIN minut*, HOUR hodin* MIN, HOUR hodin*
//	HOUR MIN, HOUR 0 MIN
//	MIN minut*
//	v HOUR, za hodinu, za minutu
func CollapseNumbers(in tokens.List) tokens.List {
	u := in.Clone()
	at := func(i int) string { return u.At(i) }

	for i := 0; i < len(u); i++ {
		if frac, ok := fractionNumber(u[i]); ok {
			minutes := int(frac * 60)
			if h, ok := hourNumber(at(i + 2)); ok && i < len(u)-2 && (minutes == 15 || minutes == 45) && u[i+1] == "na" {
				u = u.Splice(i, i+3, timeToken(3, fmt.Sprintf("%d:%d", h-1, minutes)))
			}
			if h, ok := hourNumber(at(i + 1)); ok && i < len(u)-1 && minutes == 30 {
				u = u.Splice(i, i+2, timeToken(2, fmt.Sprintf("%d:%d", h-1, minutes)))
			} else if i < len(u)-1 && strings.HasPrefix(u[i+1], "hodin") {
				u = u.Splice(i, i+2, timeToken(2, fmt.Sprintf("0:%d", minutes)))
			}
		} else if hour, ok := hourNumber(u[i]); ok {
			if f, ok := fractionNumber(at(i + 2)); ok && i < len(u)-3 && u[i+1] == "a" && strings.HasPrefix(u[i+3], "hodin") {
				u = u.Splice(i, i+4, timeToken(4, fmt.Sprintf("%d:%d", hour, int(f*60))))
			}
			if i < len(u)-1 && strings.HasPrefix(u[i+1], "hodin") {
				if m, ok := minuteNumber(at(i + 3)); ok && i < len(u)-4 && u[i+2] == "a" && strings.HasPrefix(u[i+4], "minut") {
					u = u.Splice(i, i+5, timeToken(5, fmt.Sprintf("%d:%02d", hour, m)))
				} else if m, ok := minuteNumber(at(i + 2)); ok && i < len(u)-3 {
					u = u.Splice(i, i+4, timeToken(4, fmt.Sprintf("%d:%02d", hour, m)))
				} else {
					u = u.Splice(i, i+2, timeToken(2, fmt.Sprintf("%d:00", hour)))
				}
			}
			if m, ok := minuteNumber(at(i + 1)); ok && i < len(u)-1 {
				if m > 9 {
					u = u.Splice(i, i+2, timeToken(2, fmt.Sprintf("%d:%d", hour, m)))
				} else if m2, ok := minuteNumber(at(i + 2)); ok && m == 0 && i < len(u)-2 && m2 <= 9 {
					u = u.Splice(i, i+3, timeToken(3, fmt.Sprintf("%d:%02d", hour, m2)))
				}
			}
		}
		if m, ok := minuteNumber(u[i]); ok && i < len(u)-1 && strings.HasPrefix(u[i+1], "minut") {
			u = u.Splice(i, i+2, timeToken(2, fmt.Sprintf("0:%02d", m)))
		}

		if i > 0 {
			if h, ok := hourNumber(u[i]); ok && u[i-1] == "v" {
				u[i] = timeToken(1, fmt.Sprintf("%d:00", h))
			} else if u[i-1] == "za" {
				switch u[i] {
				case "hodinu":
					u[i] = "TIME_1=1:00"
				case "minutu":
					u[i] = "TIME_1=0:01"
				}
			}
		}
	}
	return u
}
