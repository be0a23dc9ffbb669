package parser

import (
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// AppendJSON appends the record as one compact JSON object to dst. Keys keep
// grammar order and every value is emitted as a string, so sentinels such as
// "-" and "-1" survive unchanged. A value that is not valid UTF-8 fails with
// *EncodingError and dst is returned unchanged.
func (r Record) AppendJSON(dst []byte) ([]byte, error) {
	orig := len(dst)
	dst = append(dst, '{')
	for i := 0; i < r.Len(); i++ {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '"')
		dst = append(dst, r.dialect.fields[i]...)
		dst = append(dst, '"', ':')

		var bad int
		dst, bad = appendString(dst, r.Value(i))
		if bad >= 0 {
			return dst[:orig], &EncodingError{Field: r.dialect.fields[i], Offset: r.Offset(i) + bad}
		}
	}
	return append(dst, '}'), nil
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return r.AppendJSON(make([]byte, 0, 1024))
}

// appendString appends s as a quoted JSON string. It returns the offset of
// the first invalid UTF-8 sequence in s, or -1.
func appendString(dst, s []byte) ([]byte, int) {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch b {
			case '"', '\\':
				dst = append(dst, '\\', b)
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xf])
			}
			i++
			start = i
			continue
		}
		c, size := utf8.DecodeRune(s[i:])
		if c == utf8.RuneError && size == 1 {
			return dst, i
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"'), -1
}
