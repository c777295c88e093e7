package main

import (
	"fmt"
	"io"
)

// dumpBlock renders a payload as a classic hex+ascii dump, 16 bytes a
// row. Used by the shell for array and unknown block types that have
// no richer rendering.
func dumpBlock(w io.Writer, rep *Reporter, data []byte) {

	for ofs := 0; ofs < len(data); ofs += 16 {
		end := ofs + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[ofs:end]

		fmt.Fprintf(w, "%s%04X%s  ", rep.Gray, ofs, rep.Reset)
		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Fprintf(w, "%02X ", row[i])
			} else {
				fmt.Fprintf(w, "   ")
			}
		}
		fmt.Fprintf(w, " ")
		for _, b := range row {
			if b >= 0x20 && b < 0x7F {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprintf(w, ".")
			}
		}
		fmt.Fprintln(w)
	}
}
