package main

import (
	"io"
	"os"

	"github.com/paleotronic/tapm8/loggy"
	"github.com/paleotronic/tapm8/tap"
)

// printBinaryCode locates a CODE block on the tape and writes it to w
// as Intel HEX, based at the load address recorded in the header.
func printBinaryCode(w io.Writer, rep *Reporter, filename string, name string, index int) int {

	f, err := os.Open(filename)
	if err != nil {
		rep.Errorf("Cannot open %s: %s", filename, err)
		return 1
	}
	defer f.Close()

	s := tap.NewScanner(f)
	hdr, err := s.FindHeader(tap.Criteria{Name: name, Index: index, Type: tap.TypeCode})
	if err != nil {
		rep.Errorf("No binary code found")
		return 1
	}
	if hdr.DataType != tap.TypeCode {
		rep.Errorf("Selected block is not a binary code")
		return 1
	}

	blk, err := s.ReadData()
	if err != nil {
		rep.Errorf("Error reading binary code, no data block found")
		return 1
	}
	if !blk.ChecksumOK() {
		rep.Warnf("Checksum mismatch in %q, code may be garbage", hdr.Name)
	}

	if err := tap.WriteHex(w, uint16(hdr.Param1), blk.Data); err != nil {
		rep.Errorf("%s", err)
		return 1
	}
	if err := tap.WriteHexEOF(w); err != nil {
		rep.Errorf("%s", err)
		return 1
	}
	return 0
}

// extractCode writes a catalogued CODE block as a .hex file.
func extractCode(id int, rep *Reporter, hdr *tap.Header, blk *tap.Block, path string) error {

	l := loggy.Get(id)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tap.WriteHex(f, uint16(hdr.Param1), blk.Data); err != nil {
		return err
	}
	if err := tap.WriteHexEOF(f); err != nil {
		return err
	}

	l.Logf("Wrote Intel HEX %s (base 0x%.4X)", path, hdr.Param1)

	return nil
}
