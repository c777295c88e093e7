package loggy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var ECHO bool = false
var SILENT bool = false
var LogFolder string = "./logs/"

// Logger writes one numbered log file per worker. Worker 0 is the
// main goroutine; ingest workers get 1..n.
type Logger struct {
	out io.Writer
	id  int
	app string
}

var loggers map[int]*Logger
var lm sync.Mutex
var app string

// Get returns the logger for a worker id, creating it on first use.
// Safe to call from concurrent ingest workers.
func Get(id int) *Logger {
	lm.Lock()
	defer lm.Unlock()
	if loggers == nil {
		loggers = make(map[int]*Logger)
	}
	l, ok := loggers[id]
	if !ok {
		l = NewLogger(id, app)
		loggers[id] = l
	}
	return l
}

func NewLogger(id int, app string) *Logger {

	if app == "" {
		app = "tapm8"
	}

	l := &Logger{
		id:  id,
		out: io.Discard,
		app: app,
	}

	if SILENT {
		return l
	}

	filename := fmt.Sprintf("%s_%d_%s.log", app, id, fts())
	os.MkdirAll(LogFolder, 0755)

	f, err := os.Create(filepath.Join(LogFolder, filename))
	if err == nil {
		l.out = f
	}

	return l
}

func ts() string {
	t := time.Now()
	return fmt.Sprintf(
		"%.4d/%.2d/%.2d %.2d:%.2d:%.2d",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
	)
}

func fts() string {
	t := time.Now()
	return fmt.Sprintf(
		"%.4d%.2d%.2d%.2d%.2d%.2d",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
	)
}

func (l *Logger) llogf(format string, designator string, v ...interface{}) {

	format = ts() + " " + designator + " :: " + format

	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}

	msg := fmt.Sprintf(format, v...)
	io.WriteString(l.out, msg)

	if ECHO {
		os.Stderr.WriteString(msg)
	}

}

func (l *Logger) llog(designator string, v ...interface{}) {

	msg := ts() + " " + designator + " :: "
	for _, vv := range v {
		msg += fmt.Sprintf("%v ", vv)
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	io.WriteString(l.out, msg)

	if ECHO {
		os.Stderr.WriteString(msg)
	}
}

func (l *Logger) Logf(format string, v ...interface{}) {
	l.llogf(format, "INFO ", v...)
}

func (l *Logger) Log(v ...interface{}) {
	l.llog("INFO ", v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.llogf(format, "ERROR", v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.llog("ERROR", v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.llogf(format, "DEBUG", v...)
}

func (l *Logger) Debug(v ...interface{}) {
	l.llog("DEBUG", v...)
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.llogf(format, "FATAL", v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.llog("FATAL", v...)
}
