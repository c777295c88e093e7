package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/paleotronic/tapm8/loggy"
	"github.com/paleotronic/tapm8/panic"
	"github.com/paleotronic/tapm8/tap"
)

const MAXVOL = 8

var commandList map[string]*shellCommand
var commandVolumes [MAXVOL]*Tape
var commandTarget int = -1

func mountTape(t *Tape) (int, error) {

	var fr []int

	for i, d := range commandVolumes {
		if d == nil {
			fr = append(fr, i)
		} else if t.FullPath == d.FullPath {
			return i, nil
		}
	}

	if len(fr) == 0 {
		return -1, errors.New("No free slots")
	}

	commandVolumes[fr[0]] = t

	return fr[0], nil

}

func smartSplit(line string) (string, []string) {

	var out []string

	var inqq bool
	var lastEscape bool
	var chunk string

	add := func() {
		if chunk != "" {
			out = append(out, chunk)
			chunk = ""
		}
	}

	for _, ch := range line {
		switch {
		case ch == '"':
			inqq = !inqq
			add()
		case ch == ' ':
			if inqq || lastEscape {
				chunk += string(ch)
			} else {
				add()
			}
			lastEscape = false
		case ch == '\\' && !inqq:
			lastEscape = true
		default:
			chunk += string(ch)
		}
	}

	add()

	if len(out) == 0 {
		return "", out
	}

	return out[0], out[1:]
}

func getPrompt(t int) string {

	if t == -1 || commandVolumes[t] == nil {
		return fmt.Sprintf("tap:%d:%s> ", 0, "<no mount>")
	}

	return fmt.Sprintf("tap:%d:%s> ", t, commandVolumes[t].Filename)
}

type shellCommand struct {
	Name             string
	Description      string
	MinArgs, MaxArgs int
	Code             func(args []string) int
	NeedsMount       bool
	Context          shellCommandContext
	Text             []string
}

type shellCommandContext int

const (
	sccNone shellCommandContext = 1 << iota
	sccLocal
	sccTapeFile
	sccCommand
)

type shellCompleter struct {
}

func hasPrefix(str []rune, prefix []rune) bool {
	if len(prefix) > len(str) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if str[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (sc *shellCompleter) Do(line []rune, pos int) ([][]rune, int) {

	prefix := ""
	chunk := ""
	for _, ch := range line {
		if ch == ' ' {
			prefix = chunk
			break
		} else {
			chunk += string(ch)
		}
	}

	chunk = ""
	cprefix := ""
	var lastEscape bool
	for i := 0; i < pos; i++ {
		ch := line[i]
		switch {
		case ch == '\\':
			lastEscape = true
		case ch == ' ' && !lastEscape:
			cprefix = chunk
			chunk = ""
			lastEscape = false
		default:
			chunk += string(ch)
		}
	}
	if chunk != "" {
		cprefix = chunk
	}

	var context shellCommandContext = sccNone
	cmd, match := commandList[prefix]
	if match {
		context = cmd.Context
	} else {
		context = sccCommand
	}

	var items [][]rune
	switch context {
	case sccCommand:
		for k := range commandList {
			items = append(items, []rune(k))
		}
	case sccTapeFile:
		if commandTarget == -1 || commandVolumes[commandTarget] == nil {
			return [][]rune(nil), 0
		}
		for _, f := range commandVolumes[commandTarget].Files {
			items = append(items, []rune(f.Filename))
		}
	case sccLocal:
		files, err := filepath.Glob(cprefix + "*")
		if err != nil {
			return items, 0
		}
		for _, v := range files {
			items = append(items, []rune(v))
		}
	}

	if len(items) == 0 {
		return [][]rune(nil), 0
	}

	var filt [][]rune
	for _, v := range items {
		if hasPrefix(v, []rune(cprefix)) {
			filt = append(filt, shellEscape(v[len(cprefix):]))
		}
	}
	return filt, len(cprefix)
}

func shellEscape(str []rune) []rune {
	out := make([]rune, 0)
	for _, v := range str {
		if v == ' ' {
			out = append(out, '\\')
		}
		out = append(out, v)
	}
	return out
}

func init() {
	commandList = map[string]*shellCommand{
		"mount": {
			Name:        "mount",
			Description: "Mount a tape image",
			MinArgs:     1,
			MaxArgs:     1,
			Code:        shellMount,
			NeedsMount:  false,
			Context:     sccLocal,
			Text: []string{
				"mount <tapefile>",
				"",
				"Mounts tape and switches to the new slot",
			},
		},
		"unmount": {
			Name:        "unmount",
			Description: "Unmount tape image",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        shellUnmount,
			NeedsMount:  true,
			Context:     sccNone,
			Text: []string{
				"unmount <slot>",
				"",
				"Unmount the tape in the specified slot (or current slot)",
			},
		},
		"tapes": {
			Name:        "tapes",
			Description: "List mounted tapes",
			MinArgs:     -1,
			MaxArgs:     -1,
			Code:        shellTapes,
			NeedsMount:  false,
			Context:     sccNone,
			Text: []string{
				"tapes",
				"",
				"List tapes mounted in slots",
			},
		},
		"target": {
			Name:        "target",
			Description: "Select mounted tape as default",
			MinArgs:     1,
			MaxArgs:     1,
			Code:        shellTarget,
			NeedsMount:  false,
			Context:     sccNone,
			Text: []string{
				"target <slot>",
				"",
				"Select mounted slot as the command target",
			},
		},
		"cat": {
			Name:        "cat",
			Description: "List blocks on the current tape",
			MinArgs:     0,
			MaxArgs:     0,
			Code:        shellCat,
			NeedsMount:  true,
			Context:     sccNone,
			Text: []string{
				"cat",
				"",
				"List files recorded on the current tape",
			},
		},
		"info": {
			Name:        "info",
			Description: "Information about the current tape",
			MinArgs:     -1,
			MaxArgs:     -1,
			Code:        shellInfo,
			NeedsMount:  true,
			Context:     sccNone,
			Text: []string{
				"info",
				"",
				"Display information on current tape",
			},
		},
		"basic": {
			Name:        "basic",
			Description: "List a BASIC program from the tape",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        shellBasic,
			NeedsMount:  true,
			Context:     sccTapeFile,
			Text: []string{
				"basic [<name>|<index>]",
				"",
				"Detokenize a BASIC program. Defaults to the first one found.",
			},
		},
		"hex": {
			Name:        "hex",
			Description: "Render a CODE block as Intel HEX",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        shellHex,
			NeedsMount:  true,
			Context:     sccTapeFile,
			Text: []string{
				"hex [<name>|<index>]",
				"",
				"Intel HEX render of a CODE block. Defaults to the first one found.",
			},
		},
		"dump": {
			Name:        "dump",
			Description: "Hex dump a block's payload",
			MinArgs:     1,
			MaxArgs:     1,
			Code:        shellDump,
			NeedsMount:  true,
			Context:     sccTapeFile,
			Text: []string{
				"dump <name>|<index>",
				"",
				"Raw hex dump of any block, arrays included",
			},
		},
		"extract": {
			Name:        "extract",
			Description: "Extract blocks from the tape",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        shellExtract,
			NeedsMount:  true,
			Context:     sccTapeFile,
			Text: []string{
				"extract [<name>]",
				"",
				"Extract matching blocks (or the whole tape) to a local folder",
			},
		},
		"ingest": {
			Name:        "ingest",
			Description: "Ingest directory of tapes (or single tape)",
			MinArgs:     1,
			MaxArgs:     1,
			Code:        shellIngest,
			NeedsMount:  false,
			Context:     sccLocal,
			Text: []string{
				"ingest <path>",
				"",
				"Catalog tapes under path and report duplicates",
			},
		},
		"ls": {
			Name:        "ls",
			Description: "List local files",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        shellLs,
			NeedsMount:  false,
			Context:     sccLocal,
			Text: []string{
				"ls [<path>]",
				"",
				"List files in the local directory",
			},
		},
		"cd": {
			Name:        "cd",
			Description: "Change local path",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        shellCd,
			NeedsMount:  false,
			Context:     sccLocal,
			Text: []string{
				"cd <path>",
				"",
				"Change local working directory",
			},
		},
		"help": {
			Name:        "help",
			Description: "Shows this help",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        shellHelp,
			NeedsMount:  false,
			Context:     sccCommand,
			Text: []string{
				"help <command>",
				"",
				"Display specific help for command or list of commands",
			},
		},
		"quit": {
			Name:        "quit",
			Description: "Leave this place",
			MinArgs:     -1,
			MaxArgs:     -1,
			Code:        shellQuit,
			NeedsMount:  false,
			Context:     sccNone,
		},
	}
}

func shellProcess(line string) int {
	line = strings.TrimSpace(line)

	verb, args := smartSplit(line)

	if verb != "" {
		verb = strings.ToLower(verb)
		command, ok := commandList[verb]
		if ok {
			fmt.Println()
			var cok = true
			if command.MinArgs != -1 {
				if len(args) < command.MinArgs {
					os.Stderr.WriteString(fmt.Sprintf("%s expects at least %d arguments\n", verb, command.MinArgs))
					cok = false
				}
			}
			if command.MaxArgs != -1 {
				if len(args) > command.MaxArgs {
					os.Stderr.WriteString(fmt.Sprintf("%s expects at most %d arguments\n", verb, command.MaxArgs))
					cok = false
				}
			}
			if command.NeedsMount {
				if commandTarget == -1 || commandVolumes[commandTarget] == nil {
					os.Stderr.WriteString(fmt.Sprintf("%s only works on mounted tapes\n", verb))
					cok = false
				}
			}
			if cok {
				r := command.Code(args)
				fmt.Println()
				return r
			} else {
				return -1
			}
		} else {
			os.Stderr.WriteString(fmt.Sprintf("Unrecognized command: %s\n", verb))
			return -1
		}
	}

	return 0
}

func shellDo(t *Tape) {

	if t != nil {
		slotid, err := mountTape(t)
		if err == nil {
			commandTarget = slotid
		}
	}

	ac := &shellCompleter{}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 getPrompt(commandTarget),
		HistoryFile:            binpath() + "/.shell_history",
		DisableAutoSaveHistory: false,
		AutoComplete:           ac,
	})
	if err != nil {
		os.Exit(2)
	}
	defer rl.Close()

	running := true

	for running {
		line, err := rl.Readline()
		if err != nil {
			break
		}

		r := shellProcess(line)
		if r == 999 {
			return
		}

		rl.SetPrompt(getPrompt(commandTarget))
	}

}

func shellMount(args []string) int {

	var t *Tape

	panic.Do(
		func() {
			var e error
			t, e = catalog(0, args[0])
			if e != nil {
				os.Stderr.WriteString("Error: " + e.Error() + "\n")
				t = nil
			}
		},
		func(r interface{}) {
			loggy.Get(0).Errorf("Error processing tape: %s", args[0])
			t = nil
		},
	)

	if t == nil {
		return -1
	}

	slotid, err := mountTape(t)
	if err != nil {
		os.Stderr.WriteString("Error:" + err.Error() + "\n")
		return -1
	}

	commandTarget = slotid
	os.Stderr.WriteString(fmt.Sprintf("mount tape in slot %d\n", slotid))

	return 0
}

func shellUnmount(args []string) int {

	if len(args) > 0 {
		if shellTarget(args) == -1 {
			return -1
		}
	}

	if commandVolumes[commandTarget] != nil {

		commandVolumes[commandTarget] = nil

		os.Stderr.WriteString("Unmounted tape\n")

	}

	return 0
}

func shellTapes(args []string) int {

	fmt.Println("Mounted Tapes")
	for i, t := range commandVolumes {
		if t != nil {
			fmt.Printf("%d:%s\n", i, t.FullPath)
		}
	}

	return 0
}

func shellTarget(args []string) int {

	tmp, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		os.Stderr.WriteString("Invalid slot number: " + args[0] + "\n")
		return -1
	}

	slotid := int(tmp)
	if slotid < 0 || slotid >= MAXVOL {
		os.Stderr.WriteString(fmt.Sprintf("Valid slots are %d to %d.\n", 0, MAXVOL-1))
		return -1
	}

	if commandVolumes[slotid] == nil {
		os.Stderr.WriteString(fmt.Sprintf("Nothing mounted in slot %d (use tapes to see mounts)\n", slotid))
		return -1
	}

	commandTarget = slotid

	return 0
}

func shellCat(args []string) int {

	t := commandVolumes[commandTarget]

	fmt.Printf("%-3s  %-12s  %-14s  %6s  %6s  %6s  %s\n",
		"IDX", "NAME", "TYPE", "SIZE", "PARAM1", "PARAM2", "OK")
	for _, f := range t.Files {
		ok := "Y"
		if !f.ChecksumOK {
			ok = "N"
		}
		fmt.Printf("%02d   %-12s  %-14s  %6d  %6d  %6d  %s\n",
			f.Index, f.Filename, f.Type.String(), f.Size, f.Param1, f.Param2, ok)
	}

	fmt.Printf("\n%d files, %d fragments\n", len(t.Files), t.Fragments)

	return 0
}

func shellInfo(args []string) int {

	t := commandVolumes[commandTarget]

	fmt.Printf("Tape path    : %s\n", t.FullPath)
	fmt.Printf("Files        : %d\n", len(t.Files))
	fmt.Printf("Fragments    : %d\n", t.Fragments)
	fmt.Printf("Bad checksums: %d\n", t.BadChecksums)
	fmt.Printf("Fingerprint  : %s\n", t.XXHash)

	return 0
}

// shellFindFile resolves a shell argument to a tape file, as a name
// first and a slot position second.
func shellFindFile(t *Tape, args []string, want tap.DataType) *TapeFile {

	if len(args) == 0 {
		for _, f := range t.Files {
			if want == tap.TypeAny || f.Type == want {
				return f
			}
		}
		return nil
	}

	if f := t.FindFile(args[0], 0); f != nil {
		return f
	}
	if idx, err := strconv.Atoi(args[0]); err == nil {
		return t.FindFile("", idx)
	}
	return nil
}

func shellBasic(args []string) int {

	t := commandVolumes[commandTarget]

	f := shellFindFile(t, args, tap.TypeBasic)
	if f == nil {
		os.Stderr.WriteString("No BASIC program found\n")
		return -1
	}
	if f.Type != tap.TypeBasic {
		os.Stderr.WriteString("Selected block is not a BASIC program\n")
		return -1
	}

	os.Stdout.Write(f.Text)

	return 0
}

func shellHex(args []string) int {

	t := commandVolumes[commandTarget]

	f := shellFindFile(t, args, tap.TypeCode)
	if f == nil {
		os.Stderr.WriteString("No binary code found\n")
		return -1
	}
	if f.Type != tap.TypeCode {
		os.Stderr.WriteString("Selected block is not a binary code\n")
		return -1
	}

	if err := tap.WriteHex(os.Stdout, uint16(f.Param1), f.Data); err != nil {
		return -1
	}
	if err := tap.WriteHexEOF(os.Stdout); err != nil {
		return -1
	}

	return 0
}

func shellDump(args []string) int {

	t := commandVolumes[commandTarget]

	f := shellFindFile(t, args, tap.TypeAny)
	if f == nil {
		os.Stderr.WriteString("No such block\n")
		return -1
	}

	fmt.Printf("%s (%s, %d bytes)\n\n", f.Filename, f.Type.String(), f.Size)
	dumpBlock(os.Stdout, rep, f.Data)

	return 0
}

func shellExtract(args []string) int {

	t := commandVolumes[commandTarget]

	crit := tap.Criteria{Type: tap.TypeAny}
	if len(args) > 0 {
		crit.Name = args[0]
	}

	before := fileExtractCounter
	if err := ExtractTape(0, rep, t.FullPath, "", crit); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return -1
	}

	os.Stderr.WriteString(fmt.Sprintf("%d files extracted\n", fileExtractCounter-before))

	return 0
}

func shellIngest(args []string) int {

	info, err := os.Stat(args[0])
	if err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return -1
	}

	if info.IsDir() {
		walk(args[0])
		return 0
	}

	panic.Do(
		func() {
			if _, e := ingest(0, args[0]); e != nil {
				os.Stderr.WriteString("Error processing tape\n")
			}
		},
		func(r interface{}) {
			loggy.Get(0).Errorf("Error processing tape: %s", args[0])
		},
	)

	return 0
}

func shellLs(args []string) int {

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return -1
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		fmt.Println(name)
	}

	return 0
}

func shellCd(args []string) int {

	if len(args) > 0 {
		err := os.Chdir(args[0])
		if err != nil {
			os.Stderr.WriteString("Change directory failed: " + err.Error() + "\n")
			return -1
		}
	}

	wd, _ := os.Getwd()
	os.Stderr.WriteString("Working directory is now " + wd + "\n")
	return 0

}

func shellHelp(args []string) int {

	if len(args) == 0 {
		keys := make([]string, 0)
		for k := range commandList {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			info := commandList[k]
			fmt.Printf("%-10s %s\n", info.Name, info.Description)
		}
	} else {
		command := strings.ToLower(args[0])
		if details, ok := commandList[command]; ok {
			if details.Text != nil {
				for _, l := range details.Text {
					fmt.Println(l)
				}
			} else {
				os.Stderr.WriteString("No help available for " + command)
			}
		} else {
			os.Stderr.WriteString("No help available for " + command)
		}
	}

	return 0
}

func shellQuit(args []string) int {

	return 999

}
