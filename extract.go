package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paleotronic/tapm8/loggy"
	"github.com/paleotronic/tapm8/tap"
)

var fileExtractCounter int

// ErrUnsupportedType marks block types with no file rendering. The
// block is skipped and extraction moves on to the next header.
var ErrUnsupportedType = errors.New("unsupported data type")

// ExtractTape walks a tape and writes every block matching crit as a
// separate file under outdir: BASIC programs as .bas listings, CODE
// blocks as Intel HEX. Headers that don't match still consume their
// data block so the header/data pairing stays in step. Problems with
// a single block are reported and the walk continues.
func ExtractTape(id int, rep *Reporter, filename string, outdir string, crit tap.Criteria) error {

	l := loggy.Get(id)

	if outdir == "" {
		ext := filepath.Ext(filename)
		outdir = strings.TrimSuffix(filepath.Base(filename), ext)
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	s := tap.NewScanner(f)

	for {
		blk, hdr, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			rep.Errorf("%s", err)
			return err
		}
		if hdr == nil {
			l.Debugf("Skipping fragment of %d bytes", len(blk.Data))
			continue
		}

		selected := crit.Matches(hdr, s.Headers())

		data, err := s.ReadData()
		if err != nil {
			if err == io.EOF {
				rep.Errorf("Tape ends after header %q with no data block", hdr.Name)
				break
			}
			rep.Errorf("%s", err)
			return err
		}

		if !selected {
			continue
		}

		if !data.ChecksumOK() {
			rep.Warnf("Checksum mismatch in %q", hdr.Name)
		}

		fmt.Printf("Extracting: %02d_%s\n", s.Headers(), hdr.Name)

		if err := extractBlock(id, rep, hdr, data, s.Headers(), outdir); err != nil {
			if errors.Is(err, ErrUnsupportedType) {
				rep.Errorf("Skipped %q: no file rendering for %s", hdr.Name, hdr.DataType)
			} else {
				rep.Errorf("Extracting %q failed: %s", hdr.Name, err)
			}
			continue
		}

		fileExtractCounter++
	}

	return nil
}

func extractBlock(id int, rep *Reporter, hdr *tap.Header, blk *tap.Block, ordinal int, outdir string) error {

	f := &TapeFile{
		Filename: safeName(hdr.Name),
		Index:    ordinal,
		Type:     hdr.DataType,
		Param1:   hdr.Param1,
	}

	switch hdr.DataType {
	case tap.TypeBasic:
		return extractBasic(id, rep, hdr, blk, uniquePath(outdir, f.GetName()))
	case tap.TypeCode:
		return extractCode(id, rep, hdr, blk, uniquePath(outdir, f.GetNameAdorned()))
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedType, hdr.DataType)
}

// safeName strips the characters a Spectrum header can carry but a
// filesystem can't.
func safeName(name string) string {
	out := ""
	for _, ch := range name {
		if ch < 0x20 || ch == '/' || ch == '\\' || ch == ':' || ch > 0x7E {
			out += "_"
		} else {
			out += string(ch)
		}
	}
	return strings.TrimSpace(out)
}

// uniquePath finds a collision-free path for filename under dir,
// numbering repeat names name_2_ through name_9999_ before the
// extension.
func uniquePath(dir, filename string) string {

	p := filepath.Join(dir, filename)
	if !exists(p) {
		return p
	}

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)

	for n := 2; n <= 9999; n++ {
		p = filepath.Join(dir, fmt.Sprintf("%s_%d_%s", name, n, ext))
		if !exists(p) {
			return p
		}
	}

	return p
}
