// Package measure: synthetic weather values, uniform per kind.
package measure

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Kind: measurement selected by the request type char.
type Kind byte

const (
	Temperature Kind = 't'
	Humidity    Kind = 'h'
	Wind        Kind = 'w'
	Pressure    Kind = 'p'
)

// Range: half-open [Min, Max).
type Range struct {
	Min, Max float32
}

var ranges = map[Kind]Range{
	Temperature: {-10, 40},
	Humidity:    {20, 100},
	Wind:        {0, 100},
	Pressure:    {950, 1050},
}

// Kinds in wire order.
var Kinds = []Kind{Temperature, Humidity, Wind, Pressure}

// KindOf maps a request type byte to its Kind.
func KindOf(b byte) (Kind, bool) {
	k := Kind(b)
	_, ok := ranges[k]
	return k, ok
}

// Range of k; zero Range for unknown kinds.
func (k Kind) Range() Range {
	return ranges[k]
}

func (k Kind) String() string {
	switch k {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Wind:
		return "wind"
	case Pressure:
		return "pressure"
	}
	return "unknown"
}

// Generator is safe for concurrent use; the source is guarded by mu.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New wraps src (inject a fixed PCG for deterministic tests).
func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// NewTimeSeeded seeds once from the clock. Not crypto-secure.
func NewTimeSeeded() *Generator {
	now := uint64(time.Now().UnixNano())
	return New(rand.NewPCG(now, now>>32|now<<32))
}

// Generate returns a value in k's range; 0 for unknown kinds.
func (g *Generator) Generate(k Kind) float32 {
	r, ok := ranges[k]
	if !ok {
		return 0
	}
	g.mu.Lock()
	f := g.rnd.Float64()
	g.mu.Unlock()
	v := float32(float64(r.Min) + f*float64(r.Max-r.Min))
	// float32 rounding can land on Max
	if v >= r.Max {
		v = math.Nextafter32(r.Max, r.Min)
	}
	if v < r.Min {
		v = r.Min
	}
	return v
}
