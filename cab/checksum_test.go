package cab

import "testing"

func TestChecksumDeterministic(t *testing.T) {
	p := []byte("the quick brown fox jumps over the lazy dog")
	a := checksum(p)
	b := checksum(append([]byte(nil), p...))
	if a != b {
		t.Errorf("checksum not deterministic: %d != %d", a, b)
	}
}

func TestChecksumTailLengths(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint32
	}{
		{"empty", nil, 0},
		{"one byte", []byte{0xAB}, 0xAB},
		{"two bytes", []byte{0x01, 0x02}, 0x0102},
		{"three bytes", []byte{0x01, 0x02, 0x03}, 0x010203},
		{"exactly one word", []byte{0x01, 0x02, 0x03, 0x04}, 0x04030201},
		{"word plus tail", []byte{0x01, 0x02, 0x03, 0x04, 0xAA}, 0x04030201 ^ 0xAA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checksum(tt.in); got != tt.want {
				t.Errorf("checksum(%v) = 0x%x, want 0x%x", tt.in, got, tt.want)
			}
		})
	}
}

func TestBlockChecksumCoversHeaderFields(t *testing.T) {
	payload := []byte("CKpayloadbytes")
	a := blockChecksum(16, 32, payload)
	b := blockChecksum(16, 32, payload)
	if a != b {
		t.Fatal("blockChecksum not deterministic")
	}
	if c := blockChecksum(17, 32, payload); c == a {
		t.Error("changing cbData did not change the checksum")
	}
	if c := blockChecksum(16, 33, payload); c == a {
		t.Error("changing cbUncomp did not change the checksum")
	}
}
