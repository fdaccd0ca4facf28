package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// File names are arbitrary bytes. Bytes that are not part of valid UTF-8 are
// written as lone low surrogate escapes, \udc80 to \udcff for bytes 0x80 to
// 0xff, and read back into the same bytes. This is the surrogateescape
// convention, so documents stay interchangeable with tools that use it.
const (
	escapeBase = 0xdc00
	escapeLow  = 0xdc80
	escapeHigh = 0xdcff
)

// fileName is a name encoded with escapes for invalid bytes.
type fileName string

func (n fileName) MarshalJSON() ([]byte, error) {
	return quoteName(string(n)), nil
}

// quoteName returns name as a JSON string literal.
func quoteName(name string) []byte {
	if utf8.ValidString(name) {
		b, _ := json.Marshal(name)
		return b
	}

	buf := []byte{'"'}
	for len(name) > 0 {
		end := validPrefix(name)
		if end == 0 {
			buf = fmt.Appendf(buf, `\u%04x`, escapeBase+rune(name[0]))
			name = name[1:]
			continue
		}
		q, _ := json.Marshal(name[:end])
		buf = append(buf, q[1:len(q)-1]...)
		name = name[end:]
	}
	return append(buf, '"')
}

// validPrefix returns the length of the longest valid UTF-8 prefix of s.
func validPrefix(s string) int {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		i += size
	}
	return i
}

// unquoteName decodes a JSON string literal that has already passed syntax
// validation, turning escaped lone low surrogates back into raw bytes.
func unquoteName(lit []byte) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", fmt.Errorf("%w: expected a string, got %s", ErrMalformedDocument, string(lit))
	}
	s := lit[1 : len(lit)-1]

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("%w: truncated escape in %s", ErrMalformedDocument, string(lit))
		}

		switch s[i+1] {
		case '"', '\\', '/':
			out = append(out, s[i+1])
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			r, ok := hex4(s, i+2)
			if !ok {
				return "", fmt.Errorf("%w: bad unicode escape in %s", ErrMalformedDocument, string(lit))
			}
			i += 6

			switch {
			case r >= escapeLow && r <= escapeHigh:
				out = append(out, byte(r-escapeBase))
			case utf16.IsSurrogate(r):
				// A high surrogate followed by a low one is a regular pair.
				if r < escapeBase && i+1 < len(s) && s[i] == '\\' && s[i+1] == 'u' {
					if r2, ok := hex4(s, i+2); ok {
						if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
							out = utf8.AppendRune(out, dec)
							i += 6
							continue
						}
					}
				}
				out = utf8.AppendRune(out, utf8.RuneError)
			default:
				out = utf8.AppendRune(out, r)
			}
			continue
		default:
			return "", fmt.Errorf("%w: bad escape in %s", ErrMalformedDocument, string(lit))
		}
		i += 2
	}
	return string(out), nil
}

func hex4(s []byte, at int) (rune, bool) {
	if at+4 > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(s[at:at+4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
