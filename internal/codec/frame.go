// Package codec recovers the text carried by a received datagram buffer.
//
// Buffers are filled with constant.FillByte before every receive. With FramingTrim the
// payload boundary is found by stripping the trailing fill bytes of the whole buffer, so a
// payload that itself ends in fill bytes loses them. FramingLength trusts the byte count
// reported by the receive call instead.
package codec

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/Ehco1996/myftp/internal/constant"
)

type Framing string

const (
	FramingTrim   Framing = constant.FramingTrim
	FramingLength Framing = constant.FramingLength
)

func ParseFraming(s string) (Framing, error) {
	switch f := Framing(s); f {
	case FramingTrim, FramingLength:
		return f, nil
	case "":
		return FramingTrim, nil
	default:
		return "", errors.Errorf("invalid framing:%s", s)
	}
}

// Decode returns the text of a datagram that landed in buf with n bytes received.
func Decode(buf []byte, n int, framing Framing) string {
	if framing == FramingLength {
		if n < 0 {
			n = 0
		}
		if n > len(buf) {
			n = len(buf)
		}
		return DecodeLossy(buf[:n])
	}
	return strings.TrimRight(DecodeLossy(buf), constant.FillChar)
}

// DecodeLossy interprets b as UTF-8, every invalid byte becomes U+FFFD.
func DecodeLossy(b []byte) string {
	// the UTF-8 decoder replaces invalid input instead of failing
	out, _ := unicode.UTF8.NewDecoder().Bytes(b)
	return string(out)
}

// Encode returns the wire bytes for s. No length prefix or terminator is added.
func Encode(s string) []byte {
	return []byte(s)
}
