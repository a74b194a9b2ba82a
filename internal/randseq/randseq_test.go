package randseq

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestCDF(t *testing.T) {
	c := newCDF(1, 1, 2)
	want := cdf{0.25, 0.5, 1.0}
	if !reflect.DeepEqual(c, want) {
		t.Fatalf("newCDF(1, 1, 2) = %v; want %v", c, want)
	}
	r := rand.New(rand.NewSource(1))
	var counts [3]int
	for i := 0; i < 4000; i++ {
		counts[c.sample(r)]++
	}
	if counts[2] < counts[0] || counts[2] < counts[1] {
		t.Fatalf("sample counts %v; index 2 should dominate", counts)
	}
}

func TestBases(t *testing.T) {
	s := Bases(rand.NewSource(7), 1000)
	if len(s) != 1000 {
		t.Fatalf("len(s) = %d; want 1000", len(s))
	}
	for i, b := range s {
		if b > N {
			t.Fatalf("s[%d] = %d; not a base", i, b)
		}
	}
	if g := Bases(rand.NewSource(7), 1000); !reflect.DeepEqual(g, s) {
		t.Fatalf("Bases is not deterministic")
	}
}

func TestPositions(t *testing.T) {
	s := Positions(rand.NewSource(3), 500, 100)
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] || s[i]-s[i-1] >= 100 {
			t.Fatalf("positions %d, %d", s[i-1], s[i])
		}
	}
}

func TestRuns(t *testing.T) {
	s := Runs(rand.NewSource(5), 2000, 20, 4)
	if len(s) != 2000 {
		t.Fatalf("len(s) = %d; want 2000", len(s))
	}
	changes := 0
	for i := 1; i < len(s); i++ {
		if s[i] >= 4 {
			t.Fatalf("s[%d] = %d outside alphabet", i, s[i])
		}
		if s[i] != s[i-1] {
			changes++
		}
	}
	if changes > 400 {
		t.Fatalf("%d changes; runs too short", changes)
	}
}

func TestQualities(t *testing.T) {
	for i, q := range Qualities(rand.NewSource(9), 5000) {
		if q < 2 || q > 41 {
			t.Fatalf("quality[%d] = %d outside [2,41]", i, q)
		}
	}
}

func TestSigned(t *testing.T) {
	neg := 0
	for i, x := range Signed(rand.NewSource(11), 1000, 300) {
		v := int64(x)
		if v < -300 || v > 300 {
			t.Fatalf("value[%d] = %d outside [-300,300]", i, v)
		}
		if v < 0 {
			neg++
		}
	}
	if neg == 0 {
		t.Fatalf("no negative values")
	}
}
