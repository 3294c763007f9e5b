package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{"x", 5, 5},
		{" 42", 7, 7},
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{1, 20, 1, 20},
		{0, 20, 1, 20},
		{-3, 0, 1, 20},
		{2, -1, 2, 20},
		{5, 500, 5, 100},
		{3, 100, 3, 100},
	}
	for _, tc := range cases {
		p, s := Window(tc.page, tc.size, 20, 100)
		if p != tc.wantPage || s != tc.wantSize {
			t.Fatalf("Window(%d, %d) = %d, %d; want %d, %d", tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 20); got != 0 {
		t.Fatalf("Offset(1, 20) = %d", got)
	}
	if got := Offset(3, 25); got != 50 {
		t.Fatalf("Offset(3, 25) = %d", got)
	}
	if got := Offset(0, 25); got != 0 {
		t.Fatalf("Offset(0, 25) = %d", got)
	}
}
