// encoding.go implements base64/base64_decode/url_escape, grounded on
// original_source/src/functions/encoding.rs.
package functions

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/konflab/konf/internal/value"
)

type base64EncodeFunc struct{}

func (base64EncodeFunc) Name() string { return "base64" }

func (f base64EncodeFunc) Execute(v value.Value, _ []Arg) (value.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return value.Value{}, unsupportedType(f.Name(), v)
	}
	return value.String(base64.StdEncoding.EncodeToString([]byte(s))), nil
}

type base64DecodeFunc struct{}

func (base64DecodeFunc) Name() string { return "base64_decode" }

func (f base64DecodeFunc) Execute(v value.Value, _ []Arg) (value.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return value.Value{}, unsupportedType(f.Name(), v)
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return value.Value{}, executionError(f.Name(), err.Error())
	}
	if !utf8.Valid(decoded) {
		return value.Value{}, executionError(f.Name(), "decoded bytes are not valid UTF-8")
	}
	return value.String(string(decoded)), nil
}

type urlEscapeFunc struct{}

func (urlEscapeFunc) Name() string { return "url_escape" }

func (f urlEscapeFunc) Execute(v value.Value, _ []Arg) (value.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return value.Value{}, unsupportedType(f.Name(), v)
	}
	return value.String(percentEscape(s)), nil
}

const upperhex = "0123456789ABCDEF"

// isUnreservedURLByte matches urlencoding::encode's unreserved set: ASCII
// letters, digits, and - _ . ~. Everything else, including space, is
// percent-escaped, so "hello world" becomes "hello%20world" rather than
// url.QueryEscape's form-style "hello+world".
func isUnreservedURLByte(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	default:
		return false
	}
}

func percentEscape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isUnreservedURLByte(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[b>>4])
		sb.WriteByte(upperhex[b&0x0f])
	}
	return sb.String()
}
