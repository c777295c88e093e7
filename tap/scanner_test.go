package tap

import (
	"bytes"
	"testing"
)

// threeFileTape lays out: BASIC "LOADER" + data, an orphan fragment,
// CODE "SCREEN" + data, CODE "GAME" + data.
func threeFileTape() *bytes.Buffer {
	var tape bytes.Buffer
	tape.Write(rawBlock(FlagHeader, headerPayload(TypeBasic, "LOADER", 3, 10, 3)))
	tape.Write(rawBlock(FlagData, []byte{0x00, 0x0A, 0x00}))
	tape.Write(rawBlock(FlagData, []byte{0xDE, 0xAD}))
	tape.Write(rawBlock(FlagHeader, headerPayload(TypeCode, "SCREEN", 4, 16384, 32768)))
	tape.Write(rawBlock(FlagData, []byte{0x11, 0x22, 0x33, 0x44}))
	tape.Write(rawBlock(FlagHeader, headerPayload(TypeCode, "GAME", 2, 32768, 32768)))
	tape.Write(rawBlock(FlagData, []byte{0x55, 0x66}))
	return &tape
}

func TestFindHeaderByName(t *testing.T) {
	s := NewScanner(threeFileTape())
	hdr, err := s.FindHeader(Criteria{Name: "SCREEN"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if hdr.DataType != TypeCode || hdr.Param1 != 16384 {
		t.Fatalf("wrong header: %+v", hdr)
	}

	blk, err := s.ReadData()
	if err != nil {
		t.Fatalf("paired data: %v", err)
	}
	if !bytes.Equal(blk.Data, []byte{0x11, 0x22, 0x33, 0x44}) {
		t.Fatalf("cursor not on paired data block, got %v", blk.Data)
	}
}

func TestFindHeaderByIndex(t *testing.T) {
	// the fragment between LOADER and SCREEN must not shift ordinals
	s := NewScanner(threeFileTape())
	hdr, err := s.FindHeader(Criteria{Index: 2})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if hdr.Name != "SCREEN" {
		t.Fatalf("header 2 = %q", hdr.Name)
	}
}

func TestFindHeaderByType(t *testing.T) {
	s := NewScanner(threeFileTape())
	hdr, err := s.FindHeader(Criteria{Type: TypeCode})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if hdr.Name != "SCREEN" {
		t.Fatalf("first code header = %q", hdr.Name)
	}
}

func TestFindHeaderAny(t *testing.T) {
	s := NewScanner(threeFileTape())
	hdr, err := s.FindHeader(Criteria{Type: TypeAny})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if hdr.Name != "LOADER" {
		t.Fatalf("first header = %q", hdr.Name)
	}
}

func TestNameWinsOverIndex(t *testing.T) {
	s := NewScanner(threeFileTape())
	hdr, err := s.FindHeader(Criteria{Name: "GAME", Index: 1, Type: TypeBasic})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if hdr.Name != "GAME" {
		t.Fatalf("got %q", hdr.Name)
	}
}

func TestFindHeaderNotFound(t *testing.T) {
	s := NewScanner(threeFileTape())
	if _, err := s.FindHeader(Criteria{Name: "MISSING"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Headers() != 3 {
		t.Fatalf("headers = %d", s.Headers())
	}
	// three paired data blocks plus the orphan
	if s.Fragments() != 4 {
		t.Fatalf("fragments = %d", s.Fragments())
	}
}

func TestScannerNextClassifies(t *testing.T) {
	s := NewScanner(threeFileTape())

	_, hdr, err := s.Next()
	if err != nil || hdr == nil {
		t.Fatalf("first block should classify as header: %v", err)
	}

	// ReadData leaves counters alone
	if _, err := s.ReadData(); err != nil {
		t.Fatalf("data: %v", err)
	}
	if s.Headers() != 1 || s.Fragments() != 0 {
		t.Fatalf("counters = %d/%d", s.Headers(), s.Fragments())
	}

	_, hdr, err = s.Next()
	if err != nil || hdr != nil {
		t.Fatalf("orphan fragment should not classify: %v", err)
	}
	if s.Fragments() != 1 {
		t.Fatalf("fragments = %d", s.Fragments())
	}
}
