package main

import (
	"fmt"
	"io"
	"os"

	"github.com/paleotronic/tapm8/tap"
)

// listBlocks prints the block table for a tape. Headers get one line
// each with their catalog details; data blocks that follow no header
// show up indented as numbered fragments.
func listBlocks(w io.Writer, rep *Reporter, filename string, detail bool) error {

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	s := tap.NewScanner(f)

	fragmentIndex := 0

	fmt.Fprintf(w, "IDX: name       : type         : Length : Param1 : Param2 \n")
	fmt.Fprintf(w, "---:------------:--------------:--------:--------:--------\n")

	for {
		blk, hdr, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if hdr != nil {
			fmt.Fprintf(w, " %02d:%-12s:%-14s %6d    %6d  %6d\n",
				s.Headers(), fmt.Sprintf("%q", hdr.Name), hdr.DataType.String(),
				hdr.Length, hdr.Param1, hdr.Param2)
			fragmentIndex = 0
		} else {
			fmt.Fprintf(w, "    %-12s %-14s %6d\n",
				"", fmt.Sprintf("//data%d", fragmentIndex), len(blk.Data))
			fragmentIndex++
		}

		if !blk.ChecksumOK() {
			rep.Warnf("Checksum mismatch in block (stored %02X)", blk.Checksum)
		}

		if detail {
			fmt.Fprintf(w, "    %sflag=%02X checksum=%02X payload=%d xxhash=%s%s\n",
				rep.Gray, blk.Flag, blk.Checksum, len(blk.Data), tap.Fingerprint(blk.Data), rep.Reset)
		}
	}

	fmt.Fprintf(w, "\n%d headers, %d fragments\n", s.Headers(), s.Fragments())

	return nil
}
