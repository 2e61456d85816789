package logger

import (
	"strconv"
	"strings"
	"sync"
)

// sampleGate admits num out of every den debug events, so chatty webhook
// traffic does not flood the log at default levels.
type sampleGate struct {
	mu    sync.Mutex
	num   int
	den   int
	count int
}

func newSampleGate(num, den int) *sampleGate {
	g := &sampleGate{}
	g.Set(num, den)
	return g
}

// Set replaces the num/den ratio; non-positive values disable sampling and
// admit everything.
func (g *sampleGate) Set(num, den int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if num <= 0 || den <= 0 {
		g.num, g.den, g.count = 0, 0, 0
		return
	}
	if num > den {
		num = den
	}
	g.num, g.den, g.count = num, den, 0
}

// Allow reports whether the next sampled event passes the gate.
func (g *sampleGate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.den <= 0 || g.num <= 0 {
		return true
	}
	g.count++
	if g.count > g.den {
		g.count = 1
	}
	return g.count <= g.num
}

// parseSampleSpec reads "num/den" or a bare "n" (meaning 1/n). Anything
// unparsable or non-positive yields 0,0, which the gate treats as admit-all.
func parseSampleSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if num, den, ok := strings.Cut(spec, "/"); ok {
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 == nil && err2 == nil {
			return n, d
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
