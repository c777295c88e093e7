package tap

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Sinclair BASIC token tables.
// See: https://en.wikipedia.org/wiki/ZX_Spectrum_character_set

const copyrightChar = "{(C)}"

// tokREM makes the rest of the line literal text, quotes included.
const tokREM = 0xEA

var ctrlChars = [32]string{
	/* 0x00 */ "{00}", "{01}", "{02}", "{03}", "{04}", "{05}", "\t", "{07}",
	/* 0x08 */ "{08}", "{09}", "{0A}", "{0B}", "{0C}", "\n", "", "{0F}",
	/* 0x10 */ "{INK %d}", "{PAPER %d}", "{FLASH %d}", "{BRIGHT %d}", "{INVERSE %d}", "{OVER %d}", "{AT %d,%d}", "{TAB %d,%d}",
	/* 0x18 */ "{18}", "{19}", "{1A}", "{1B}", "{1C}", "{1D}", "{1E}", "{1F}",
}

const graphCharsStart = 0x80

var graphChars = [16]string{
	/* 0x80 */ "{-8}", "{-1}", "{-2}", "{-3}", "{-4}", "{-5}", "{-6}", "{-7}",
	/* 0x88 */ "{+7}", "{+6}", "{+5}", "{+4}", "{+3}", "{+2}", "{+1}", "{+8}",
}

const udgCharsStart = 0x90

var udgChars = [21]string{
	/* 0x90 */ "{A}", "{B}", "{C}", "{D}", "{E}", "{F}", "{G}", "{H}",
	/* 0x98 */ "{I}", "{J}", "{K}", "{L}", "{M}", "{N}", "{O}", "{P}",
	/* 0xA0 */ "{Q}", "{R}", "{S}", "{T}", "{U}",
}

const keywordsStart = 0xA3

var keywords = [93]string{
	/* 0xA3 */ " SPECTRUM ", " PLAY ", "RND", "INKEY$", "PI",
	/* 0xA8 */ "FN ", "POINT ", "SCREEN$ ", "ATTR ", "AT ", "TAB ", "VAL$ ", "CODE ",
	/* 0xB0 */ "VAL ", "LEN ", "SIN ", "COS ", "TAN ", "ASN ", "ACS ", "ATN ",
	/* 0xB8 */ "LN ", "EXP ", "INT ", "SQR ", "SGN ", "ABS ", "PEEK ", "IN ",
	/* 0xC0 */ "USR ", "STR$ ", "CHR$ ", "NOT ", "BIN ", " OR ", " AND ", "<=",
	/* 0xC8 */ ">=", "<>", " LINE ", " THEN ", " TO ", " STEP ", " DEF FN ", " CAT ",
	/* 0xD0 */ " FORMAT ", " MOVE ", " ERASE ", " OPEN #", " CLOSE #", " MERGE ", " VERIFY ", " BEEP ",
	/* 0xD8 */ " CIRCLE ", " INK ", " PAPER ", " FLASH ", " BRIGHT ", " INVERSE ", " OVER ", " OUT ",
	/* 0xE0 */ " LPRINT ", " LLIST ", " STOP ", " READ ", " DATA ", " RESTORE ", " NEW ", " BORDER ",
	/* 0xE8 */ " CONTINUE ", " DIM ", " REM ", " FOR ", " GO TO ", " GO SUB ", " INPUT ", " LOAD ",
	/* 0xF0 */ " LIST ", " LET ", " PAUSE ", " NEXT ", " POKE ", " PRINT ", " PLOT ", " RUN ",
	/* 0xF8 */ " SAVE ", " RANDOMIZE ", " IF ", " CLS ", " DRAW ", " CLEAR ", " RETURN ", " COPY ",
}

// ErrTruncatedLine is returned when a program's line framing runs off
// the end of the payload.
var ErrTruncatedLine = errors.New("tap: basic line truncated")

// Line numbers stop at 9999; a first word of 16384 or more means the
// variables area has started and listing ends normally.
const endOfProgram = 16384

func countParams(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			n++
		}
	}
	return n
}

// renderBasicLine expands one tokenized line body into buf.
func renderBasicLine(buf *bytebufferpool.ByteBuffer, body []byte) {
	lastSpace := false
	inQuotes := false
	inRem := false

	for i := 0; i < len(body); i++ {
		b := body[i]

		switch {
		case b < 0x20:
			tmpl := ctrlChars[b]
			var p1, p2 int
			if i+1 < len(body) {
				p1 = int(body[i+1])
			}
			if i+2 < len(body) {
				p2 = int(body[i+2])
			}
			switch countParams(tmpl) {
			case 0:
				buf.WriteString(tmpl)
			case 1:
				fmt.Fprintf(buf, tmpl, p1)
				i++
			default:
				fmt.Fprintf(buf, tmpl, p1, p2)
				i += 2
			}
			// 0x0E introduces an inline 5-byte number whose ASCII
			// form has already been emitted, so the bytes are skipped.
			if b == 0x0E {
				i += 5
			}
			lastSpace = false
		case b < 0x80:
			if b == 0x7F {
				buf.WriteString(copyrightChar)
				lastSpace = false
			} else {
				buf.WriteByte(b)
				lastSpace = b == ' '
			}
		case b < graphCharsStart+0x10:
			buf.WriteString(graphChars[b-graphCharsStart])
			lastSpace = false
		case (inQuotes && b < 0xA5) || (!inQuotes && b < keywordsStart):
			buf.WriteString(udgChars[b-udgCharsStart])
			lastSpace = false
		default:
			kw := keywords[b-keywordsStart]
			if lastSpace && kw[0] == ' ' {
				kw = kw[1:]
			}
			buf.WriteString(kw)
			lastSpace = kw[len(kw)-1] == ' '
		}

		if b == '"' && !inRem {
			inQuotes = !inQuotes
		}
		if b == tokREM {
			inRem = true
		}
	}
}

// WriteBasic lists a tokenized Sinclair BASIC program to w. Each line
// is framed as [number:u16be][length:u16le][body]; the body's trailing
// 0x0D renders as the newline. Framing that overruns the payload
// returns ErrTruncatedLine with whatever was listed so far already
// written.
func WriteBasic(w io.Writer, data []byte) error {
	for len(data) > 0 {
		if len(data) < 2 {
			return fmt.Errorf("%w: line number", ErrTruncatedLine)
		}
		lineNumber := int(data[0])<<8 | int(data[1])
		if lineNumber >= endOfProgram {
			return nil
		}
		data = data[2:]

		if len(data) < 2 {
			return fmt.Errorf("%w: line length", ErrTruncatedLine)
		}
		lineLength := int(data[0]) | int(data[1])<<8
		data = data[2:]
		if lineLength > len(data) {
			return fmt.Errorf("%w: line body", ErrTruncatedLine)
		}

		buf := bytebufferpool.Get()
		fmt.Fprintf(buf, "%5d", lineNumber)
		renderBasicLine(buf, data[:lineLength])
		_, err := w.Write(buf.B)
		bytebufferpool.Put(buf)
		if err != nil {
			return err
		}

		data = data[lineLength:]
	}
	return nil
}

// Detokenize is WriteBasic into a byte slice. On a truncated program
// the partial listing is returned alongside the error.
func Detokenize(data []byte) ([]byte, error) {
	var out bytes.Buffer
	err := WriteBasic(&out, data)
	return out.Bytes(), err
}
