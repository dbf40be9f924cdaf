package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(12, 0, 9); got != 9 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-1, 9, 0); got != 0 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if got := Clamp(5*time.Millisecond, time.Millisecond, time.Second); got != 5*time.Millisecond {
		t.Fatalf("Clamp duration = %v", got)
	}
}

func TestSubFloor(t *testing.T) {
	if got := SubFloor(200*time.Millisecond, 10*time.Millisecond); got != 190*time.Millisecond {
		t.Fatalf("SubFloor = %v", got)
	}
	if got := SubFloor(5*time.Millisecond, 10*time.Millisecond); got != 0 {
		t.Fatalf("SubFloor underflow = %v, want 0", got)
	}
}

func TestWrap(t *testing.T) {
	cases := []struct{ i, d, n, want int }{
		{0, -1, 5, 4},
		{4, 1, 5, 0},
		{2, 1, 5, 3},
		{9, 1, 10, 0},
		{0, 1, 0, 0},
	}
	for _, c := range cases {
		if got := Wrap(c.i, c.d, c.n); got != c.want {
			t.Errorf("Wrap(%d,%d,%d) = %d, want %d", c.i, c.d, c.n, got, c.want)
		}
	}
}

func TestRoundDiv(t *testing.T) {
	if got := RoundDiv(uint64(3000), uint64(1000)); got != 3 {
		t.Fatalf("RoundDiv = %d", got)
	}
	if got := RoundDiv(uint64(2500), uint64(1000)); got != 3 {
		t.Fatalf("RoundDiv half = %d", got)
	}
	if got := RoundDiv(uint32(7), 0); got != 0 {
		t.Fatalf("RoundDiv by zero = %d", got)
	}
}
