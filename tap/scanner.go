package tap

import (
	"errors"
	"io"
)

// ErrNotFound is returned by FindHeader when the tape runs out before
// a header matched the criteria.
var ErrNotFound = errors.New("tap: no matching header")

// Criteria selects a header while scanning. Name wins over Index, and
// Index wins over Type. A zero Index means unset; an Index of n picks
// the n-th header on the tape counting from 1. TypeAny matches every
// header.
type Criteria struct {
	Name  string
	Index int
	Type  DataType
}

// Matches reports whether hdr satisfies the criteria, given the
// header's 1-based position on the tape.
func (c Criteria) Matches(hdr *Header, ordinal int) bool {
	switch {
	case c.Name != "":
		return hdr.Name == c.Name
	case c.Index > 0:
		return ordinal == c.Index
	default:
		return c.Type == TypeAny || hdr.DataType == c.Type
	}
}

// Scanner walks a TAP stream block by block, classifying headers and
// keeping running counts of headers and loose data fragments.
type Scanner struct {
	r         *Reader
	headers   int
	fragments int
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: NewReader(r)}
}

// Next reads and classifies the next block. Blocks that are not
// well-formed headers come back with a nil Header and count as
// fragments.
func (s *Scanner) Next() (*Block, *Header, error) {
	blk, err := s.r.ReadBlock()
	if err != nil {
		return nil, nil, err
	}
	hdr := ParseHeader(blk)
	if hdr != nil {
		s.headers++
	} else {
		s.fragments++
	}
	return blk, hdr, nil
}

// ReadData reads the block paired with the header just returned by
// Next or FindHeader. It does not classify the block or touch the
// counters.
func (s *Scanner) ReadData() (*Block, error) {
	return s.r.ReadBlock()
}

// Headers is the number of headers classified so far.
func (s *Scanner) Headers() int { return s.headers }

// Fragments is the number of non-header blocks seen so far.
func (s *Scanner) Fragments() int { return s.fragments }

// FindHeader scans forward to the first header matching c, leaving the
// stream positioned on that header's data block. Hitting end of tape
// first returns ErrNotFound; anything else wrong with the stream is
// returned as-is.
func (s *Scanner) FindHeader(c Criteria) (*Header, error) {
	for {
		_, hdr, err := s.Next()
		if err != nil {
			if err == io.EOF {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if hdr == nil {
			continue
		}
		if c.Matches(hdr, s.headers) {
			return hdr, nil
		}
	}
}
