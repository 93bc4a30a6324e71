package dynamics

import "math"

// trigTable provides precomputed sin/cos with linear interpolation, for
// the heading terms that appear in every step of MultiUnicycle.Evaluate. The
// table and its default instance mirror internal/dynamo/trig.go in the
// simulation teacher this package descends from.
type trigTable struct {
	sin []float64
	cos []float64
	n   int
}

var defaultTrigTable = newTrigTable(4096)

func newTrigTable(n int) *trigTable {
	t := &trigTable{sin: make([]float64, n), cos: make([]float64, n), n: n}
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}
	return t
}

func (t *trigTable) SinCos(x float64) (sin, cos float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)
	i0 := i % t.n
	i1 := (i + 1) % t.n
	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}

// fastSinCos uses the package default table for quick heading lookups.
func fastSinCos(x float64) (float64, float64) {
	return defaultTrigTable.SinCos(x)
}
