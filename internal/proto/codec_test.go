package proto

import (
	"math"
	"strings"
	"testing"
)

func TestEncodeDecodeRequest(t *testing.T) {
	b := EncodeRequest('t', "Roma")
	if len(b) != 65 {
		t.Fatalf("request size %d", len(b))
	}
	if b[0] != 't' || string(b[1:5]) != "Roma" {
		t.Fatalf("layout: %q", b[:5])
	}
	for i, c := range b[5:] {
		if c != 0 {
			t.Fatalf("byte %d not NUL: %x", i+5, c)
		}
	}
	typ, city := DecodeRequest(b)
	if typ != 't' || city != "Roma" {
		t.Fatalf("roundtrip: got %q %q", typ, city)
	}
}

func TestDecodeRequestTrims(t *testing.T) {
	typ, city := DecodeRequest(EncodeRequest('h', "   milano  "))
	if typ != 'h' || city != "milano" {
		t.Fatalf("got %q %q", typ, city)
	}
}

func TestEncodeRequestTruncates(t *testing.T) {
	long := strings.Repeat("x", 100)
	b := EncodeRequest('w', long)
	if b[RequestSize-1] != 0 {
		t.Fatal("last city byte should stay NUL")
	}
	_, city := DecodeRequest(b)
	if len(city) != MaxCityLen {
		t.Fatalf("expected %d bytes, got %d", MaxCityLen, len(city))
	}
	exact := strings.Repeat("y", MaxCityLen)
	if _, c := DecodeRequest(EncodeRequest('w', exact)); c != exact {
		t.Fatalf("63-byte city altered: %q", c)
	}
}

func TestDecodeRequestFullField(t *testing.T) {
	var b [RequestSize]byte
	b[0] = 'p'
	for i := 1; i < RequestSize; i++ {
		b[i] = 'a'
	}
	_, city := DecodeRequest(b)
	if len(city) != CityFieldSize {
		t.Fatalf("unterminated field: got %d bytes", len(city))
	}
}

func TestRequestRoundtripAllTypes(t *testing.T) {
	cities := []string{"", "Bari", "Reggio nell'Emilia", "Atlantis", strings.Repeat("z", 63)}
	for _, typ := range []byte{'t', 'h', 'w', 'p', 'x', 0, 0xff} {
		for _, c := range cities {
			got := ParseRequestFrame(Request{Type: typ, City: c}.Encode())
			if got.Type != typ || got.City != TrimCity(c) {
				t.Fatalf("roundtrip %q %q: got %+v", typ, c, got)
			}
		}
	}
}

func TestEncodeResponseLayout(t *testing.T) {
	b := EncodeResponse(2, 0, 1.0)
	want := [ResponseSize]byte{0, 0, 0, 2, 0, 0x3f, 0x80, 0, 0}
	if b != want {
		t.Fatalf("layout: got % x want % x", b, want)
	}
}

func TestResponseRoundtrip(t *testing.T) {
	values := []float32{
		0, float32(math.Copysign(0, -1)), -10, 39.99, 1049.5,
		float32(math.Inf(1)), float32(math.Inf(-1)),
		math.MaxFloat32, math.SmallestNonzeroFloat32,
	}
	for _, st := range []uint32{0, 1, 2, 0xdeadbeef} {
		for _, v := range values {
			gs, gt, gv := DecodeResponse(EncodeResponse(st, 't', v))
			if gs != st || gt != 't' || math.Float32bits(gv) != math.Float32bits(v) {
				t.Fatalf("roundtrip %d %v: got %d %q %v", st, v, gs, gt, gv)
			}
		}
	}
}

func TestResponseRoundtripNaN(t *testing.T) {
	for _, bits := range []uint32{0x7fc00000, 0x7f800001, 0xffc00001} {
		v := math.Float32frombits(bits)
		got := ParseResponseFrame(Response{Status: StatusSuccess, Type: 'p', Value: v}.Encode())
		if math.Float32bits(got.Value) != bits {
			t.Fatalf("NaN bits %08x -> %08x", bits, math.Float32bits(got.Value))
		}
	}
}

func TestStatusNames(t *testing.T) {
	if StatusSuccess.String() != "SUCCESS" || StatusInvalidRequest.String() != "INVALID_REQUEST" {
		t.Fatal("status names")
	}
	if Status(7).Valid() || Status(7).String() != "UNKNOWN" {
		t.Fatal("unknown status should be invalid")
	}
	if StatusSuccess == StatusCityUnavailable || StatusCityUnavailable == StatusInvalidRequest {
		t.Fatal("status codes must be distinct")
	}
}

func TestReject(t *testing.T) {
	r := Reject(StatusCityUnavailable)
	if r.OK() || r.Type != NoType || r.Value != 0 {
		t.Fatalf("reject: %+v", r)
	}
}
