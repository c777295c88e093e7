package tap

import (
	"errors"
	"fmt"
	"io"
)

// Flag bytes used by the Spectrum ROM save routine. Anything else is
// possible on doctored tapes and is treated as a data fragment.
const (
	FlagHeader byte = 0x00
	FlagData   byte = 0xFF
)

// ErrBlockLength is returned when a block's length prefix is below the
// two bytes needed for the flag and checksum.
var ErrBlockLength = errors.New("tap: block length below minimum")

// Block is one raw tape block: the flag byte, the payload between flag
// and checksum, and the trailing checksum byte.
type Block struct {
	Flag     byte
	Checksum byte
	Data     []byte
}

func (b *Block) IsHeader() bool {
	return b.Flag == FlagHeader
}

// ChecksumOK recomputes the ROM checksum, an XOR of the flag byte and
// every payload byte, and compares it against the stored byte.
func (b *Block) ChecksumOK() bool {
	sum := b.Flag
	for _, v := range b.Data {
		sum ^= v
	}
	return sum == b.Checksum
}

// Reader pulls blocks off a TAP stream one at a time.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadBlock reads the next [len:u16le][flag][payload][checksum] block.
// A clean end of stream at a block boundary returns io.EOF. A stream
// that stops partway through a block returns an error wrapping
// io.ErrUnexpectedEOF.
func (t *Reader) ReadBlock() (*Block, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(t.r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("tap: block length prefix: %w", err)
	}

	length := int(prefix[0]) | int(prefix[1])<<8
	if length < 2 {
		return nil, fmt.Errorf("%w: %d", ErrBlockLength, length)
	}

	raw := make([]byte, length)
	if _, err := io.ReadFull(t.r, raw); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("tap: block truncated: %w", err)
	}

	return &Block{
		Flag:     raw[0],
		Checksum: raw[length-1],
		Data:     raw[1 : length-1],
	}, nil
}
