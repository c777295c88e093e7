package loggy

import (
	"sync"
	"testing"
)

func TestGetConcurrentWorkers(t *testing.T) {
	SILENT = true

	// ingest starts its worker pool with a Get(id) per goroutine
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			l := Get(id)
			l.Logf("worker %d up", id)
		}(i)
	}
	wg.Wait()

	if Get(3) != Get(3) {
		t.Fatal("expected the same logger instance per id")
	}
}
