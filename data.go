package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/paleotronic/tapm8/loggy"
	"github.com/paleotronic/tapm8/tap"
)

// Tape is the catalogued view of one TAP file: the classified files on
// it plus the loose fragments that belong to no header.
type Tape struct {
	FullPath     string
	Filename     string
	XXHash       string // digest of the whole tape image
	Files        TapeCatalog
	Fragments    int
	BadChecksums int
}

type TapeCatalog []*TapeFile

// TapeFile is one header block and the data block recorded after it.
type TapeFile struct {
	Filename   string
	Index      int // position on tape, first header is 1
	Type       tap.DataType
	Size       int // actual payload size of the data block
	Declared   int // length the header claims
	Param1     int
	Param2     int
	XXHash     string
	ChecksumOK bool
	Data       []byte
	Text       []byte // detokenized listing for BASIC programs
}

func (f *TapeFile) GetName() string {
	name := f.Filename
	if name == "" {
		name = fmt.Sprintf("block%02d", f.Index)
	}
	return fmt.Sprintf("%s.%s", name, f.Type.Ext())
}

// GetNameAdorned carries the load address for CODE blocks so the
// original memory layout survives the round trip to disk.
func (f *TapeFile) GetNameAdorned() string {
	name := f.Filename
	if name == "" {
		name = fmt.Sprintf("block%02d", f.Index)
	}
	if f.Type == tap.TypeCode {
		return fmt.Sprintf("%s#0x%.4x.%s", name, f.Param1, f.Type.Ext())
	}
	return fmt.Sprintf("%s.%s", name, f.Type.Ext())
}

// GetDirectory renders the catalog using a format template, one line
// per file.
func (t *Tape) GetDirectory(format string) string {
	out := ""

	for _, file := range t.Files {

		tmp := format
		tmp = strings.Replace(tmp, "{size}", fmt.Sprintf("%6d", file.Size), -1)
		tmp = strings.Replace(tmp, "{filename}", fmt.Sprintf("%-12s", file.Filename), -1)
		tmp = strings.Replace(tmp, "{type}", fmt.Sprintf("%-14s", file.Type.String()), -1)
		tmp = strings.Replace(tmp, "{index}", fmt.Sprintf("%02d", file.Index), -1)
		tmp = strings.Replace(tmp, "{xxhash}", file.XXHash, -1)
		tmp = strings.Replace(tmp, "{param1}", fmt.Sprintf("%5d", file.Param1), -1)
		tmp = strings.Replace(tmp, "{param2}", fmt.Sprintf("%5d", file.Param2), -1)

		out += tmp + "\n"
	}

	return out
}

// FindFile resolves a name or 1-based position to a catalogued file.
func (t *Tape) FindFile(name string, index int) *TapeFile {
	for _, f := range t.Files {
		if name != "" {
			if f.Filename == name {
				return f
			}
			continue
		}
		if index > 0 && f.Index == index {
			return f
		}
	}
	return nil
}

// catalog reads a whole tape into a Tape structure. Per-block problems
// are logged and counted without stopping the scan; only failing to
// open the file or a stream that lies about block sizes is fatal.
func catalog(id int, filename string) (*Tape, error) {

	l := loggy.Get(id)

	info := &Tape{
		Filename: path.Base(filename),
	}

	if abspath, e := filepath.Abs(filename); e == nil {
		filename = abspath
	}
	info.FullPath = path.Clean(filename)

	l.Logf("Reading tape image from file source %s", filename)

	raw, err := os.ReadFile(filename)
	if err != nil {
		l.Errorf("Tape read failed: %s", err)
		return info, err
	}
	info.XXHash = tap.Fingerprint(raw)
	l.Logf("Fingerprint is %s", info.XXHash)

	s := tap.NewScanner(bytes.NewReader(raw))
	for {
		blk, hdr, err := s.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			l.Errorf("Tape scan stopped: %s", err)
			info.Fragments = s.Fragments()
			return info, err
		}

		if hdr == nil {
			if !blk.ChecksumOK() {
				info.BadChecksums++
			}
			continue
		}

		if !blk.ChecksumOK() {
			l.Errorf("Header checksum mismatch for %q", hdr.Name)
			info.BadChecksums++
		}

		data, err := s.ReadData()
		if err != nil {
			if err == io.EOF {
				l.Errorf("Tape ends after header %q with no data block", hdr.Name)
				info.Fragments = s.Fragments()
				return info, nil
			}
			l.Errorf("Tape scan stopped: %s", err)
			info.Fragments = s.Fragments()
			return info, err
		}
		if !data.ChecksumOK() {
			l.Errorf("Data checksum mismatch for %q", hdr.Name)
			info.BadChecksums++
		}

		file := &TapeFile{
			Filename:   hdr.Name,
			Index:      s.Headers(),
			Type:       hdr.DataType,
			Size:       len(data.Data),
			Declared:   hdr.Length,
			Param1:     hdr.Param1,
			Param2:     hdr.Param2,
			XXHash:     tap.Fingerprint(data.Data),
			ChecksumOK: data.ChecksumOK(),
			Data:       data.Data,
		}

		if hdr.DataType == tap.TypeBasic {
			text, err := tap.Detokenize(data.Data)
			if err != nil {
				l.Errorf("Listing %q stopped early: %s", hdr.Name, err)
			}
			file.Text = text
		}

		info.Files = append(info.Files, file)
		l.Logf("Catalogued %q (%s, %d bytes)", hdr.Name, hdr.DataType, len(data.Data))
	}

	info.Fragments = s.Fragments()

	return info, nil
}

func exists(path string) bool {

	_, err := os.Stat(path)
	if err != nil {
		return false
	}
	return true

}
