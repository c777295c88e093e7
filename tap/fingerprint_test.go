package tap

import "testing"

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("LOADER"))
	b := Fingerprint([]byte("LOADER"))
	c := Fingerprint([]byte("SCREEN"))

	if len(a) != 16 {
		t.Fatalf("digest width = %d", len(a))
	}
	if a != b {
		t.Fatal("same payload must give the same digest")
	}
	if a == c {
		t.Fatal("different payloads collided")
	}
}
