package pending

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeginAndDone(t *testing.T) {
	tr := NewTracker()
	done := tr.Begin("g1", OpDelete)
	assert.Equal(t, map[string]Operation{"g1": OpDelete}, tr.Snapshot())

	done()
	assert.Empty(t, tr.Snapshot())
}

func TestStaleDoneKeepsNewerOperation(t *testing.T) {
	tr := NewTracker()
	doneUpdate := tr.Begin("g1", OpUpdate)
	tr.Begin("g1", OpDelete)

	doneUpdate()
	assert.Equal(t, map[string]Operation{"g1": OpDelete}, tr.Snapshot())
}

func TestConcurrentUse(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			done := tr.Begin(fmt.Sprintf("g%d", i), OpUpdate)
			tr.Snapshot()
			done()
		}(i)
	}
	wg.Wait()
	assert.Empty(t, tr.Snapshot())
}

func TestLockSerializesReadModifyWrite(t *testing.T) {
	tr := NewTracker()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := tr.Lock("r1")
			defer unlock()
			v := counter
			runtime.Gosched()
			counter = v + 1
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)

	tr.locksMu.Lock()
	assert.Empty(t, tr.locks)
	tr.locksMu.Unlock()
}

func TestLockDoesNotBlockOtherIDs(t *testing.T) {
	tr := NewTracker()
	unlockA := tr.Lock("a")
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlock := tr.Lock("b")
		unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on b waited for a")
	}
}
