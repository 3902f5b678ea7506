package mathx

import "testing"

func TestBetween(t *testing.T) {
	cases := []struct {
		v, lo, hi int
		want      bool
	}{
		{0, 1, 5, false},
		{1, 1, 5, true},
		{5, 1, 5, true},
		{6, 1, 5, false},
		{3, 5, 1, true}, // swapped bounds
	}
	for _, tc := range cases {
		if got := Between(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Between(%d,%d,%d) = %v", tc.v, tc.lo, tc.hi, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1200, 0, 1023); got != 1023 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-4, 0, 1023); got != 0 {
		t.Fatalf("Clamp low = %d", got)
	}
	if got := Clamp(7, 10, 0); got != 7 {
		t.Fatalf("Clamp swapped = %d", got)
	}
}
