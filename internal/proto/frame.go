package proto

// Request: one query (type char + city name).
type Request struct {
	Type byte
	City string
}

// Response: validation outcome; Value only meaningful on StatusSuccess.
type Response struct {
	Status Status
	Type   byte
	Value  float32
}

// OK true on StatusSuccess.
func (r Response) OK() bool {
	return r.Status == StatusSuccess
}

// Reject builds a rejection (no type, zero value).
func Reject(s Status) Response {
	return Response{Status: s, Type: NoType}
}
