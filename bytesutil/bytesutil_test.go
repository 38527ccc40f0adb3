package bytesutil

import "testing"

func TestConstantTimeEq(t *testing.T) {
	cases := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"equal", []byte{1, 2, 3}, []byte{1, 2, 3}, true},
		{"differ-last-byte", []byte{1, 2, 3}, []byte{1, 2, 4}, false},
		{"differ-length", []byte{1, 2, 3}, []byte{1, 2}, false},
		{"both-empty", nil, []byte{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConstantTimeEq(tc.a, tc.b); got != tc.want {
				t.Errorf("ConstantTimeEq(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSecureWipe(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	SecureWipe(buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %d, want 0", i, b)
		}
	}
}

func TestPadLeft(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		n    int
		want []byte
	}{
		{"shorter", []byte{0xAB}, 4, []byte{0, 0, 0, 0xAB}},
		{"exact", []byte{1, 2, 3, 4}, 4, []byte{1, 2, 3, 4}},
		{"longer-truncates-to-tail", []byte{1, 2, 3, 4, 5}, 4, []byte{2, 3, 4, 5}},
		{"empty", nil, 3, []byte{0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PadLeft(tc.in, tc.n)
			if string(got) != string(tc.want) {
				t.Errorf("PadLeft(%v, %d) = %v, want %v", tc.in, tc.n, got, tc.want)
			}
		})
	}
}

func TestStripLeadingZeros(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"no-leading-zeros", []byte{1, 2, 3}, []byte{1, 2, 3}},
		{"some-leading-zeros", []byte{0, 0, 1, 2}, []byte{1, 2}},
		{"all-zero", []byte{0, 0, 0}, []byte{0}},
		{"empty", nil, []byte{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StripLeadingZeros(tc.in)
			if string(got) != string(tc.want) {
				t.Errorf("StripLeadingZeros(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("len(a) = %d, want 32", len(a))
	}
	b, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	if ConstantTimeEq(a, b) {
		t.Fatalf("two independent RandomBytes(32) calls collided, vanishingly unlikely")
	}
}
