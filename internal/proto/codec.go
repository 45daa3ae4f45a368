package proto

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
)

// TruncateCity cuts s to MaxCityLen bytes (byte boundary, silent).
func TruncateCity(s string) string {
	if len(s) > MaxCityLen {
		return s[:MaxCityLen]
	}
	return s
}

// TrimCity strips leading/trailing ASCII spaces only.
func TrimCity(s string) string {
	return strings.Trim(s, " ")
}

// EncodeRequest writes type into byte 0, city (<=63 bytes) into 1..64, rest NUL.
func EncodeRequest(typ byte, city string) [RequestSize]byte {
	var b [RequestSize]byte
	b[0] = typ
	copy(b[1:], TruncateCity(city))
	return b
}

// DecodeRequest splits type and city; city = NUL-terminated prefix, trimmed.
func DecodeRequest(b [RequestSize]byte) (typ byte, city string) {
	field := b[1:]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return b[0], TrimCity(string(field))
}

// EncodeResponse: status BE, type, float32 bit pattern BE.
func EncodeResponse(status uint32, typ byte, value float32) [ResponseSize]byte {
	var b [ResponseSize]byte
	binary.BigEndian.PutUint32(b[0:4], status)
	b[4] = typ
	binary.BigEndian.PutUint32(b[5:9], math.Float32bits(value))
	return b
}

// DecodeResponse is the inverse of EncodeResponse (bit-exact for NaN).
func DecodeResponse(b [ResponseSize]byte) (status uint32, typ byte, value float32) {
	status = binary.BigEndian.Uint32(b[0:4])
	typ = b[4]
	value = math.Float32frombits(binary.BigEndian.Uint32(b[5:9]))
	return status, typ, value
}

// Encode serializes r (EncodeRequest).
func (r Request) Encode() [RequestSize]byte {
	return EncodeRequest(r.Type, r.City)
}

// ParseRequestFrame decodes b into Request.
func ParseRequestFrame(b [RequestSize]byte) Request {
	typ, city := DecodeRequest(b)
	return Request{Type: typ, City: city}
}

// Encode serializes r (EncodeResponse).
func (r Response) Encode() [ResponseSize]byte {
	return EncodeResponse(uint32(r.Status), r.Type, r.Value)
}

// ParseResponseFrame decodes b into Response; status is not range-checked.
func ParseResponseFrame(b [ResponseSize]byte) Response {
	status, typ, value := DecodeResponse(b)
	return Response{Status: Status(status), Type: typ, Value: value}
}
