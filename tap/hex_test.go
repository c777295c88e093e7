package tap

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func TestWriteHexRecords(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}

	var out bytes.Buffer
	if err := WriteHex(&out, 0x8000, data); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := ":10800000000102030405060708090A0B0C0D0E0FF8\n" +
		":048010001011121326\n"
	if out.String() != want {
		t.Fatalf("got:\n%swant:\n%s", out.String(), want)
	}
}

func TestWriteHexEOF(t *testing.T) {
	var out bytes.Buffer
	if err := WriteHexEOF(&out); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out.String() != ":00000001FF\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestWriteHexAddressWrap(t *testing.T) {
	var out bytes.Buffer
	if err := WriteHex(&out, 0xFFF0, make([]byte, 32)); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], ":10FFF000") {
		t.Fatalf("first record %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], ":10000000") {
		t.Fatalf("second record should wrap to 0000, got %q", lines[1])
	}
}

// every record's bytes, checksum included, must sum to zero mod 256
func TestHexRecordChecksumProperty(t *testing.T) {
	data := []byte{0x3E, 0x02, 0xD3, 0xFE, 0xC9, 0xFF, 0x00, 0x80}

	var out bytes.Buffer
	if err := WriteHex(&out, 0x5B00, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteHexEOF(&out); err != nil {
		t.Fatalf("write eof: %v", err)
	}

	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		raw, err := hex.DecodeString(strings.TrimPrefix(line, ":"))
		if err != nil {
			t.Fatalf("record %q: %v", line, err)
		}
		sum := byte(0)
		for _, v := range raw {
			sum += v
		}
		if sum != 0 {
			t.Fatalf("record %q sums to %02X", line, sum)
		}
	}
}
