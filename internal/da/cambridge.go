package da

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed Cambridge DA string.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse dialogue act %q at %d: %s", e.Input, e.Pos, e.Msg)
}

// String renders the act in Cambridge notation, grouping consecutive slotted
// items that share an intent: inform(from_stop=Anděl,to_stop="Bílá Hora")&hello().
// Quotes and backslashes inside quoted values are backslash-escaped.
func (a *Act) String() string {
	if a.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	var prev Item
	for i, it := range a.items {
		switch {
		case i == 0:
			sb.WriteString(it.Intent)
			sb.WriteByte('(')
		case it.Intent != prev.Intent || !it.HasSlot() || !prev.HasSlot():
			sb.WriteString(")&")
			sb.WriteString(it.Intent)
			sb.WriteByte('(')
		default:
			sb.WriteByte(',')
		}
		prev = it
		writeSlotValue(&sb, it)
	}
	sb.WriteByte(')')
	return sb.String()
}

func writeSlotValue(sb *strings.Builder, it Item) {
	if it.Slot == "" {
		return
	}
	sb.WriteString(it.Slot)
	if it.Value == "" {
		return
	}
	sb.WriteByte('=')
	if needsQuotes(it.Value) {
		sb.WriteByte('"')
		for _, r := range it.Value {
			if r == '"' || r == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('"')
		return
	}
	sb.WriteString(it.Value)
}

func needsQuotes(v string) bool {
	return strings.ContainsAny(v, " ,()&=\"\\\t") || strings.TrimSpace(v) != v
}

// Parse reads Cambridge notation. Slots and values may be omitted; an
// intent with several slot-value pairs yields one item per pair. The empty
// string parses to an empty act.
func Parse(text string) (*Act, error) {
	p := &parser{in: text}
	act := &Act{}
	p.skipSpace()
	if p.eof() {
		return act, nil
	}
	for {
		if err := p.dai(act); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() {
			return act, nil
		}
		if !p.consume('&') {
			return nil, p.errorf("expected '&' between items")
		}
		p.skipSpace()
		if p.eof() {
			return act, nil
		}
	}
}

// MustParse is Parse for fixtures; it panics on malformed input.
func MustParse(text string) *Act {
	act, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return act
}

type parser struct {
	in  string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.in) }

func (p *parser) peek() byte { return p.in[p.pos] }

func (p *parser) consume(c byte) bool {
	if !p.eof() && p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n' || p.peek() == '\r') {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Input: p.in, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) dai(act *Act) error {
	intent := strings.TrimSpace(p.until("(&"))
	if intent == "" {
		return p.errorf("missing intent")
	}
	if strings.ContainsAny(intent, ",)=\"") {
		return p.errorf("invalid intent %q", intent)
	}
	if !p.consume('(') {
		return p.errorf("expected '(' after intent %q", intent)
	}
	p.skipSpace()
	if p.consume(')') {
		act.Append(NewItem(intent, "", ""))
		return nil
	}
	for {
		slot := strings.TrimSpace(p.until("=,)&(\""))
		if slot == "" {
			return p.errorf("missing slot")
		}
		value := ""
		if p.consume('=') {
			v, err := p.value()
			if err != nil {
				return err
			}
			value = v
		}
		act.Append(NewItem(intent, slot, value))
		p.skipSpace()
		if p.consume(')') {
			return nil
		}
		if !p.consume(',') {
			return p.errorf("expected ',' or ')'")
		}
	}
}

func (p *parser) value() (string, error) {
	p.skipSpace()
	if p.consume('"') {
		var sb strings.Builder
		for !p.eof() {
			c := p.peek()
			p.pos++
			switch c {
			case '"':
				return sb.String(), nil
			case '\\':
				if p.eof() {
					return "", p.errorf("unterminated escape in quoted value")
				}
				sb.WriteByte(p.peek())
				p.pos++
			default:
				sb.WriteByte(c)
			}
		}
		return "", p.errorf("unterminated quoted value")
	}
	v := strings.TrimSpace(p.until(",)&(\""))
	if v == "" {
		return "", p.errorf("missing value after '='")
	}
	return v, nil
}

// until advances to the next byte in stop (or the end) and returns the text passed over.
func (p *parser) until(stop string) string {
	start := p.pos
	for !p.eof() && strings.IndexByte(stop, p.peek()) < 0 {
		p.pos++
	}
	return p.in[start:p.pos]
}
