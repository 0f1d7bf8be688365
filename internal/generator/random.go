package generator

import (
	"fmt"
	"math"
	"time"
)

// mulberry32 is a 32-bit state PRNG. It is small enough to reproduce the
// exact same stream as the workshop's mongosh seed script for a given seed.
type mulberry32 struct {
	state uint32
}

func newMulberry32(seed int64) *mulberry32 {
	return &mulberry32{state: uint32(seed)}
}

// Float64 returns a value in [0, 1).
func (m *mulberry32) Float64() float64 {
	m.state += 0x6d2b79f5
	z := m.state
	t := (z ^ (z >> 15)) * (1 | z)
	t = (t + (t^(t>>7))*(61|t)) ^ t
	return float64(t^(t>>14)) / 4294967296
}

// Round2 rounds half up to two decimals, the rule every money amount uses.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func padID(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

func pick[T any](g *Generator, items []T) T {
	if len(items) == 0 {
		panic("generator: pick from empty list")
	}
	return items[int(g.rng.Float64()*float64(len(items)))]
}

// randInt returns an integer in [min, max].
func (g *Generator) randInt(min, max int) int {
	return int(g.rng.Float64()*float64(max-min+1)) + min
}

// randFloat returns a value in [min, max) rounded to two decimals.
func (g *Generator) randFloat(min, max float64) float64 {
	return Round2(g.rng.Float64()*(max-min) + min)
}

func (g *Generator) randomDate(from, to time.Time) time.Time {
	s, e := from.UnixMilli(), to.UnixMilli()
	return time.UnixMilli(s + int64(g.rng.Float64()*float64(e-s))).UTC()
}

// pickWeighted walks a cumulative threshold table; thresholds must be
// ascending and end at 1.
func (g *Generator) pickWeighted(items []string, thresholds []float64) string {
	r := g.rng.Float64()
	for i, limit := range thresholds {
		if r < limit {
			return items[i]
		}
	}
	return items[len(items)-1]
}
