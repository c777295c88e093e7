package tap

import (
	"errors"
	"strings"
	"testing"
)

// basicLine frames a body as one stored program line.
func basicLine(number int, body ...byte) []byte {
	out := []byte{byte(number >> 8), byte(number), byte(len(body)), byte(len(body) >> 8)}
	return append(out, body...)
}

func TestDetokenizeHelloWorld(t *testing.T) {
	// 10 PRINT "HI"
	prog := basicLine(10, 0xF5, '"', 'H', 'I', '"', 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if string(out) != "   10 PRINT \"HI\"\n" {
		t.Fatalf("got %q", out)
	}
}

func TestKeywordSpacing(t *testing.T) {
	// 10 PRINT : LET after PRINT must not double the space
	prog := basicLine(10, 0xF5, 0xF1, 'A', '=', '1', 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if !strings.Contains(string(out), "PRINT LET") {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(string(out), "  LET") {
		t.Fatalf("doubled space in %q", out)
	}
}

func TestVariablesAreaEndsListing(t *testing.T) {
	prog := basicLine(10, 0xF7, 0x0D) // 10 RUN
	// first word 0x4000 = 16384 marks the variables area; the bytes
	// after it would otherwise render as garbage
	prog = append(prog, 0x40, 0x00, 0x05, 0x05, 0x05)

	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	// keyword padding keeps RUN's trailing space before the newline
	if string(out) != "   10 RUN \n" {
		t.Fatalf("got %q", out)
	}
}

func TestInlineNumberSkipped(t *testing.T) {
	// the five bytes after 0x0E duplicate the ASCII digits before it
	prog := basicLine(10, 0xF2, '5', '0', 0x0E, 0x00, 0x00, 0x32, 0x00, 0x00, 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if string(out) != "   10 PAUSE 50\n" {
		t.Fatalf("got %q", out)
	}
}

func TestParameterisedControls(t *testing.T) {
	prog := basicLine(10, 0x10, 0x02, 'A', 0x16, 0x0A, 0x05, 'B', 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if !strings.Contains(string(out), "{INK 2}A") {
		t.Fatalf("ink attribute wrong in %q", out)
	}
	if !strings.Contains(string(out), "{AT 10,5}B") {
		t.Fatalf("at position wrong in %q", out)
	}
}

func TestSpecialGlyphs(t *testing.T) {
	prog := basicLine(10, 0x7F, 0x80, 0x8F, 0x90, 0xA4, 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	for _, want := range []string{"{(C)}", "{-8}", "{+8}", "{A}"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	// outside quotes 0xA4 is the PLAY keyword, not a UDG
	if !strings.Contains(string(out), "PLAY") {
		t.Fatalf("missing PLAY keyword in %q", out)
	}
}

func TestUDGInsideQuotes(t *testing.T) {
	// quoted strings extend the UDG range up to 0xA4
	prog := basicLine(10, 0xF5, '"', 0xA3, 0xA4, '"', 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if !strings.Contains(string(out), "{T}{U}") {
		t.Fatalf("got %q", out)
	}
}

func TestRemEatsQuotes(t *testing.T) {
	// after REM a quote no longer opens a string, so 0xA3 stays a keyword
	prog := basicLine(10, 0xEA, '"', 0xA3, 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if !strings.Contains(string(out), "SPECTRUM") {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(string(out), "{T}") {
		t.Fatalf("quote toggled inside REM: %q", out)
	}
}

func TestUnassignedControlsRenderHex(t *testing.T) {
	prog := basicLine(10, 0x01, 0x1F, 0x0D)
	out, err := Detokenize(prog)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if !strings.Contains(string(out), "{01}") || !strings.Contains(string(out), "{1F}") {
		t.Fatalf("got %q", out)
	}
}

func TestTruncatedProgram(t *testing.T) {
	cases := [][]byte{
		{0x00},                         // half a line number
		{0x00, 0x0A, 0x04},             // half a line length
		{0x00, 0x0A, 0x04, 0x00, 0xF7}, // body shorter than declared
	}
	for i, prog := range cases {
		if _, err := Detokenize(prog); !errors.Is(err, ErrTruncatedLine) {
			t.Fatalf("case %d: expected ErrTruncatedLine, got %v", i, err)
		}
	}
}

func TestTruncatedProgramKeepsEarlierLines(t *testing.T) {
	prog := basicLine(10, 0xF7, 0x0D)
	prog = append(prog, 0x00, 0x14, 0xFF, 0xFF) // line 20 claims a huge body

	out, err := Detokenize(prog)
	if !errors.Is(err, ErrTruncatedLine) {
		t.Fatalf("expected ErrTruncatedLine, got %v", err)
	}
	if !strings.Contains(string(out), "   10 RUN") {
		t.Fatalf("line 10 lost: %q", out)
	}
}
