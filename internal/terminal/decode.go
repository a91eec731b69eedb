package terminal

import (
	"strings"
	"unicode/utf8"
)

// textDecoder turns pty reads into text. Invalid bytes become U+FFFD, but a
// multi-byte character cut off at the end of a read is held back and joined
// with the next one.
type textDecoder struct {
	carry []byte
}

func (d *textDecoder) decode(p []byte) string {
	buf := p
	if len(d.carry) > 0 {
		buf = make([]byte, 0, len(d.carry)+len(p))
		buf = append(append(buf, d.carry...), p...)
		d.carry = d.carry[:0]
	}
	cut := len(buf) - partialSuffix(buf)
	if cut < len(buf) {
		d.carry = append(d.carry, buf[cut:]...)
	}
	return lossy(buf[:cut])
}

// flush returns whatever is still held back, replaced as invalid.
func (d *textDecoder) flush() string {
	if len(d.carry) == 0 {
		return ""
	}
	s := lossy(d.carry)
	d.carry = d.carry[:0]
	return s
}

// lossy converts b to a string, replacing each maximal invalid subsequence
// with one U+FFFD. "\xff\xfe" becomes two replacement characters and a
// truncated "\xe2\x82" becomes one.
func lossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[invalidLen(b):]
			continue
		}
		sb.Write(b[:size])
		b = b[size:]
	}
	return sb.String()
}

// invalidLen returns how many bytes at the start of b form the longest
// prefix of some well-formed sequence. b must not start with a valid
// character.
func invalidLen(b []byte) int {
	lo, hi := byte(0x80), byte(0xbf)
	var width int
	switch c := b[0]; {
	case c >= 0xc2 && c <= 0xdf:
		width = 2
	case c >= 0xe0 && c <= 0xef:
		width = 3
		if c == 0xe0 {
			lo = 0xa0
		} else if c == 0xed {
			hi = 0x9f
		}
	case c >= 0xf0 && c <= 0xf4:
		width = 4
		if c == 0xf0 {
			lo = 0x90
		} else if c == 0xf4 {
			hi = 0x8f
		}
	default:
		return 1
	}
	i := 1
	for ; i < width && i < len(b); i++ {
		if b[i] < lo || b[i] > hi {
			break
		}
		lo, hi = 0x80, 0xbf
	}
	return i
}

// partialSuffix returns the length of an incomplete UTF-8 sequence at the end
// of b, or 0 if b ends on a character boundary.
func partialSuffix(b []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(c) {
			if utf8.FullRune(b[len(b)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}
