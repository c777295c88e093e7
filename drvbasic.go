package main

import (
	"errors"
	"io"
	"os"

	"github.com/paleotronic/tapm8/loggy"
	"github.com/paleotronic/tapm8/tap"
)

// printBasicProgram locates a BASIC block on the tape and lists it to
// w. With no name or index the first BASIC program wins.
func printBasicProgram(w io.Writer, rep *Reporter, filename string, name string, index int) int {

	f, err := os.Open(filename)
	if err != nil {
		rep.Errorf("Cannot open %s: %s", filename, err)
		return 1
	}
	defer f.Close()

	s := tap.NewScanner(f)
	hdr, err := s.FindHeader(tap.Criteria{Name: name, Index: index, Type: tap.TypeBasic})
	if err != nil {
		rep.Errorf("No BASIC program found")
		return 1
	}
	if hdr.DataType != tap.TypeBasic {
		rep.Errorf("Selected block is not a BASIC program")
		return 1
	}

	blk, err := s.ReadData()
	if err != nil {
		rep.Errorf("Error reading BASIC program, no data block found")
		return 1
	}
	if !blk.ChecksumOK() {
		rep.Warnf("Checksum mismatch in %q, listing may be garbage", hdr.Name)
	}

	if err := tap.WriteBasic(w, blk.Data); err != nil {
		rep.Errorf("%s", err)
		return 1
	}
	return 0
}

// extractBasic writes a catalogued BASIC block as a .bas text listing.
// A truncated program keeps the lines recovered before the damage.
func extractBasic(id int, rep *Reporter, hdr *tap.Header, blk *tap.Block, path string) error {

	l := loggy.Get(id)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tap.WriteBasic(f, blk.Data); err != nil {
		if !errors.Is(err, tap.ErrTruncatedLine) {
			return err
		}
		l.Errorf("Listing %q stopped early: %s", hdr.Name, err)
		rep.Warnf("BASIC program %q is damaged, extracted partial listing", hdr.Name)
	}

	l.Logf("Wrote BASIC listing %s", path)

	return nil
}
