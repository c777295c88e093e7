package tap

import (
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Intel HEX output for CODE blocks.

const hexBytesPerRecord = 16

const (
	hexRecData byte = 0x00
	hexRecEOF  byte = 0x01
)

func hexChecksum(recType byte, address uint16, data []byte) byte {
	sum := len(data) + int(address>>8) + int(address&0xFF) + int(recType)
	for _, v := range data {
		sum += int(v)
	}
	return byte(-sum)
}

func writeHexRecord(w io.Writer, recType byte, address uint16, data []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, ":%02X%04X%02X", len(data), address, recType)
	for _, v := range data {
		fmt.Fprintf(buf, "%02X", v)
	}
	fmt.Fprintf(buf, "%02X\n", hexChecksum(recType, address, data))

	_, err := w.Write(buf.B)
	return err
}

// WriteHex emits data as Intel HEX records of up to 16 bytes starting
// at address. Addresses wrap at 64K, same as the Z80 address space.
// The caller terminates the file with WriteHexEOF once all data for it
// has been written.
func WriteHex(w io.Writer, address uint16, data []byte) error {
	for i := 0; i < len(data); i += hexBytesPerRecord {
		end := i + hexBytesPerRecord
		if end > len(data) {
			end = len(data)
		}
		if err := writeHexRecord(w, hexRecData, address+uint16(i), data[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// WriteHexEOF writes the single end-of-file record, ":00000001FF".
func WriteHexEOF(w io.Writer) error {
	return writeHexRecord(w, hexRecEOF, 0, nil)
}
