package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterPlainOutput(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(false)
	r.Out = &out

	r.Warnf("bad checksum in %q", "LOADER")
	r.Errorf("no data block")

	got := out.String()
	if !strings.Contains(got, "[WARNING] bad checksum in \"LOADER\"") {
		t.Fatalf("warning line wrong: %q", got)
	}
	if !strings.Contains(got, "[ERROR] no data block") {
		t.Fatalf("error line wrong: %q", got)
	}
	if strings.Contains(got, "\033[") {
		t.Fatalf("plain reporter emitted ANSI codes: %q", got)
	}
}

func TestReporterColoredOutput(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(true)
	r.Out = &out

	r.Errorf("boom")

	got := out.String()
	if !strings.Contains(got, "\033[91mERROR") {
		t.Fatalf("missing error color: %q", got)
	}
	if !strings.HasSuffix(got, "\033[0m boom\n") {
		t.Fatalf("missing reset before message: %q", got)
	}
}
