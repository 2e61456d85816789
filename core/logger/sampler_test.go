package logger

import "testing"

func TestSampleGateRatio(t *testing.T) {
	g := newSampleGate(1, 3)
	admitted := 0
	for i := 0; i < 30; i++ {
		if g.Allow() {
			admitted++
		}
	}
	if admitted != 10 {
		t.Fatalf("admitted = %d, want 10", admitted)
	}
}

func TestSampleGateDisabledAdmitsAll(t *testing.T) {
	g := newSampleGate(0, 0)
	for i := 0; i < 5; i++ {
		if !g.Allow() {
			t.Fatal("disabled gate must admit everything")
		}
	}
}

func TestParseSampleSpec(t *testing.T) {
	cases := []struct {
		spec     string
		num, den int
	}{
		{"", 0, 0},
		{"1/50", 1, 50},
		{" 3 / 10 ", 3, 10},
		{"25", 1, 25},
		{"0", 0, 0},
		{"bogus", 0, 0},
		{"a/b", 0, 0},
	}
	for _, tc := range cases {
		num, den := parseSampleSpec(tc.spec)
		if num != tc.num || den != tc.den {
			t.Fatalf("parseSampleSpec(%q) = %d/%d, want %d/%d", tc.spec, num, den, tc.num, tc.den)
		}
	}
}
