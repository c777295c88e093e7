package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime/debug"
	"sync"
	"time"

	"github.com/paleotronic/tapm8/loggy"
	"github.com/paleotronic/tapm8/panic"
	"github.com/paleotronic/tapm8/tap"
)

var tapRegex = regexp.MustCompile("(?i)[.]tap$")

func processFile(path string, info os.FileInfo, err error) error {
	if err != nil {
		loggy.Get(0).Errorf(err.Error())
		return err
	}

	if tapRegex.MatchString(path) {

		incoming <- path

		fmt.Printf("\rIngested: %d tapes ...", processed)

	}

	return nil
}

const loaderWorkers = 8

var incoming chan string
var processed int
var errorcount int
var intape map[tap.DataType]int
var outtape map[tap.DataType]int
var tapesByHash map[string][]string
var cm sync.Mutex

func init() {
	intape = make(map[tap.DataType]int)
	outtape = make(map[tap.DataType]int)
	tapesByHash = make(map[string][]string)
}

func in(dt tap.DataType) {
	cm.Lock()
	intape[dt] = intape[dt] + 1
	cm.Unlock()
}

func out(dt tap.DataType) {
	cm.Lock()
	outtape[dt] = outtape[dt] + 1
	cm.Unlock()
}

func recordTape(t *Tape) {
	cm.Lock()
	tapesByHash[t.XXHash] = append(tapesByHash[t.XXHash], t.FullPath)
	cm.Unlock()
}

// ingest catalogs one tape and feeds the run counters.
func ingest(id int, filename string) (*Tape, error) {

	l := loggy.Get(id)

	info, err := catalog(id, filename)
	if err != nil {
		return info, err
	}

	recordTape(info)

	for _, f := range info.Files {
		in(f.Type)
		if f.ChecksumOK && (f.Type != tap.TypeBasic || f.Text != nil) {
			out(f.Type)
		}
	}

	l.Logf("Ingested %s: %d files, %d fragments, %d bad checksums",
		info.Filename, len(info.Files), info.Fragments, info.BadChecksums)

	return info, nil
}

func walk(dir string) {

	start := time.Now()

	incoming = make(chan string, 16)
	intape = make(map[tap.DataType]int)
	outtape = make(map[tap.DataType]int)
	tapesByHash = make(map[string][]string)

	var wg sync.WaitGroup
	var s sync.Mutex

	for i := 0; i < loaderWorkers; i++ {
		wg.Add(1)
		go func(i int) {

			id := 1 + i
			l := loggy.Get(id)

			for filename := range incoming {

				panic.Do(
					func() {
						ingest(id, filename)
						s.Lock()
						processed++
						s.Unlock()
					},
					func(r interface{}) {
						l.Errorf("Error processing tape: %s", filename)
						l.Errorf(string(debug.Stack()))
						s.Lock()
						errorcount++
						s.Unlock()
					},
				)

			}

			wg.Done()

		}(i)
	}

	filepath.Walk(dir, processFile)

	close(incoming)
	wg.Wait()

	fmt.Printf("\rIngested: %d tapes ...", processed)

	fmt.Println()

	duration := time.Since(start)

	fmt.Println("=============================================================")
	fmt.Printf(" TapM8 process report (%d Workers, %v)\n", loaderWorkers, duration)
	fmt.Println("=============================================================")

	tin, tout := 0, 0

	for dt, count := range intape {
		outcount := outtape[dt]
		fmt.Printf("%-30s %6d in %6d out\n", dt.String(), count, outcount)
		tin += count
		tout += outcount
	}

	fmt.Println()

	fmt.Printf("%-30s %6d in %6d out\n", "Total", tin, tout)

	fmt.Println()

	dupes := 0
	for hash, paths := range tapesByHash {
		if len(paths) < 2 {
			continue
		}
		if dupes == 0 {
			fmt.Println("Identical tapes:")
		}
		dupes++
		fmt.Printf("%s\n", hash)
		for _, p := range paths {
			fmt.Printf("    %s\n", p)
		}
	}
	if dupes > 0 {
		fmt.Println()
	}

	if processed+errorcount > 0 {
		average := duration / time.Duration(processed+errorcount)
		fmt.Printf("%v average time spent per tape.\n", average)
	}
}
