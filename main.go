package main

/*
TapM8 is a command line tool for inspecting ZX-Spectrum TAP cassette
images. It lists the blocks recorded on a tape, detokenizes BASIC
programs, renders machine code as Intel HEX, and extracts blocks into
separate files. It also has reporting tools to ingest large
quantities of tapes, catalog them and detect duplicates.
*/

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/paleotronic/tapm8/loggy"
	"github.com/paleotronic/tapm8/panic"
	"github.com/paleotronic/tapm8/tap"
)

func usage() {
	fmt.Printf(`%s <options> FILE.tap

Tool inspects ZX-Spectrum TAP cassette images: lists recorded blocks,
detokenizes BASIC programs and extracts blocks into usable files.

`, path.Base(os.Args[0]))
	flag.PrintDefaults()
}

func binpath() string {

	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE") + "/TapM8"
	}
	return os.Getenv("HOME") + "/TapM8"

}

func init() {
	loggy.LogFolder = binpath() + "/logs/"
}

var tapName = flag.String("ingest", "", "Tape file or path to ingest")
var listCmd = flag.Bool("list", false, "List all blocks in the tape")
var detail = flag.Bool("d", false, "List blocks with per-block detail")
var basicCmd = flag.Bool("basic", false, "Detokenize a BASIC program to stdout")
var hexCmd = flag.Bool("hex", false, "Write a CODE block to stdout as Intel HEX")
var extractCmd = flag.Bool("extract", false, "Extract blocks into a folder named after the tape")
var dir = flag.Bool("dir", false, "Catalog the tape")
var dirFormat = flag.String("dir-format", "{index}: {filename} {type} {size} Checksum: {xxhash}", "Format of dir")
var selName = flag.String("name", "", "Select block by name")
var selIndex = flag.Int("index", 0, "Select block by position (first header is 1)")
var outDir = flag.String("out", "", "Output directory for -extract (default: named after tape)")
var verbose = flag.Bool("verbose", false, "Log to stderr")
var noColor = flag.Bool("no-color", false, "Disable colored output")
var shell = flag.Bool("shell", false, "Start interactive mode")
var shellBatch = flag.String("shell-batch", "", "Execute shell command(s) from file and exit")

func main() {

	runtime.GOMAXPROCS(8)

	flag.Usage = usage
	flag.Parse()

	loggy.ECHO = *verbose

	if *noColor {
		rep = NewReporter(false)
	}

	rep.Banner()

	filename := flag.Arg(0)

	if *shellBatch != "" {
		var data []byte
		var err error
		if *shellBatch == "stdin" {
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				rep.Fatalf("Failed to read commands from stdin. Aborting")
			}
		} else {
			data, err = os.ReadFile(*shellBatch)
			if err != nil {
				rep.Fatalf("Failed to read commands from file. Aborting")
			}
		}
		lines := strings.Split(string(data), "\n")
		for i, l := range lines {
			r := shellProcess(l)
			if r == -1 {
				os.Stderr.WriteString(fmt.Sprintf("Script failed at line %d: %s\n", i+1, l))
				os.Exit(2)
			}
			if r == 999 {
				os.Stderr.WriteString("Script terminated")
				return
			}
		}
		return
	}

	if *shell {
		shellDo(loadOptional(filename))
		os.Exit(0)
	}

	defer func() {

		if fileExtractCounter > 0 {
			os.Stderr.WriteString(fmt.Sprintf("%d files were extracted\n", fileExtractCounter))
		}

	}()

	if *tapName != "" {
		info, err := os.Stat(*tapName)
		if err != nil {
			loggy.Get(0).Errorf("Error stating file: %s", err.Error())
			os.Exit(2)
		}
		if info.IsDir() {
			walk(*tapName)
		} else {
			panic.Do(
				func() {
					ingest(0, *tapName)
				},
				func(r interface{}) {
					loggy.Get(0).Errorf("Error processing tape: %s", *tapName)
					loggy.Get(0).Errorf(string(debug.Stack()))
				},
			)
		}
		return
	}

	if filename == "" {
		shellDo(nil)
		os.Exit(0)
	}

	rc := 0

	panic.Do(
		func() {
			switch {
			case *basicCmd:
				rc = printBasicProgram(os.Stdout, rep, filename, *selName, *selIndex)
			case *hexCmd:
				rc = printBinaryCode(os.Stdout, rep, filename, *selName, *selIndex)
			case *extractCmd:
				crit := tap.Criteria{Name: *selName, Index: *selIndex, Type: tap.TypeAny}
				if err := ExtractTape(0, rep, filename, *outDir, crit); err != nil {
					rc = 1
				}
			case *dir:
				t, err := catalog(0, filename)
				if err != nil {
					rc = 1
					return
				}
				fmt.Printf("Directory of %s:\n\n", t.Filename)
				fmt.Println(t.GetDirectory(*dirFormat))
			default:
				// -list is the default action, -d adds per-block detail
				if err := listBlocks(os.Stdout, rep, filename, *detail); err != nil {
					rep.Errorf("%s", err)
					rc = 1
				}
			}
		},
		func(r interface{}) {
			loggy.Get(0).Errorf("Error processing tape: %s", filename)
			loggy.Get(0).Errorf(string(debug.Stack()))
			rc = 2
		},
	)

	if rc != 0 {
		os.Exit(rc)
	}
}

func loadOptional(filename string) *Tape {
	if filename == "" {
		return nil
	}
	fmt.Printf("Trying to load %s\n", filename)
	t, err := catalog(0, filename)
	if err != nil {
		rep.Fatalf("%s", err)
	}
	return t
}
