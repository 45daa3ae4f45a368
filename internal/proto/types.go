package proto

// Status: 4-byte outcome of server validation (big-endian on wire).
type Status uint32

const (
	StatusSuccess         Status = 0
	StatusCityUnavailable Status = 1
	StatusInvalidRequest  Status = 2
)

// StatusNames maps status codes to identifiers for logs.
var StatusNames = map[Status]string{
	StatusSuccess:         "SUCCESS",
	StatusCityUnavailable: "CITY_UNAVAILABLE",
	StatusInvalidRequest:  "INVALID_REQUEST",
}

func (s Status) String() string {
	if n, ok := StatusNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// Valid true if s is one of the three defined codes.
func (s Status) Valid() bool {
	_, ok := StatusNames[s]
	return ok
}

// CityFieldSize: city bytes on wire, NUL-padded.
const CityFieldSize = 64

// MaxCityLen: longest city kept by EncodeRequest (last byte stays NUL).
const MaxCityLen = CityFieldSize - 1

// RequestSize: 1 (type) + 64 (city) = 65 bytes.
const RequestSize = 1 + CityFieldSize

// ResponseSize: 4 (status) + 1 (type) + 4 (value) = 9 bytes.
const ResponseSize = 9

// NoType is sent in place of the request type on rejection.
const NoType byte = 0x00

// DefaultPort of the weather service.
const DefaultPort = "56700"
