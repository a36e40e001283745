package cab

import (
	"bytes"
	"testing"
)

func TestDeflateInflateRoundTrip(t *testing.T) {
	chunk := bytes.Repeat([]byte("hello, cabinet world! "), 200)
	compressed, err := deflateBlock(chunk, 6, nil)
	if err != nil {
		t.Fatalf("deflateBlock: %v", err)
	}
	got, err := inflateBlock(compressed, len(chunk), nil)
	if err != nil {
		t.Fatalf("inflateBlock: %v", err)
	}
	if !bytes.Equal(got, chunk) {
		t.Error("round trip did not reproduce the original chunk")
	}
}

func TestDictionaryRequiredForSubsequentBlock(t *testing.T) {
	first := bytes.Repeat([]byte("ABCDEFGH"), 100)
	second := bytes.Repeat([]byte("ABCDEFGH"), 100) // repeats first's content, compressible via dictionary

	compressedSecond, err := deflateBlock(second, 6, first)
	if err != nil {
		t.Fatalf("deflateBlock: %v", err)
	}

	// Inflating with the correct dictionary succeeds.
	got, err := inflateBlock(compressedSecond, len(second), first)
	if err != nil {
		t.Fatalf("inflateBlock with correct dictionary: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Error("inflate with correct dictionary did not reproduce the chunk")
	}

	// Inflating with the wrong dictionary must not silently reproduce the
	// same bytes: either it errors, or it yields something different, but
	// it must not coincidentally still be correct.
	wrongDict := bytes.Repeat([]byte("ZYXWVUTS"), 100)
	gotWrong, errWrong := inflateBlock(compressedSecond, len(second), wrongDict)
	if errWrong == nil && bytes.Equal(gotWrong, second) {
		t.Error("inflate with the wrong dictionary unexpectedly reproduced the correct bytes")
	}
}

func TestCheckLevel(t *testing.T) {
	if err := checkLevel(0); err != nil {
		t.Errorf("level 0 should be valid: %v", err)
	}
	if err := checkLevel(9); err != nil {
		t.Errorf("level 9 should be valid: %v", err)
	}
	if err := checkLevel(-1); err == nil {
		t.Error("level -1 should be rejected")
	}
	if err := checkLevel(10); err == nil {
		t.Error("level 10 should be rejected")
	}
}
