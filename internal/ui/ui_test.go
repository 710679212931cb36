package ui

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerNesting(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf)

	stop1 := s.Start()
	stop2 := s.Start()
	assert.True(t, s.Active())

	stop1()
	assert.True(t, s.Active(), "still held by the second caller")
	stop2()
	assert.False(t, s.Active())
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := NewSpinner(&bytes.Buffer{})
	stop := s.Start()
	stop()
	stop()
	assert.False(t, s.Active(), "double release must not underflow")
}

func TestSpinnerConcurrent(t *testing.T) {
	s := NewSpinner(&bytes.Buffer{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop := s.Start()
			stop()
		}()
	}
	wg.Wait()
	assert.False(t, s.Active())
}

func TestConsoleNotifierGlyphs(t *testing.T) {
	var buf bytes.Buffer
	n := ConsoleNotifier{W: &buf}

	n.Successf("saved %d", 3)
	n.Warnf("slow")
	n.Errorf("broke")

	out := buf.String()
	assert.Contains(t, out, "✓ saved 3")
	assert.Contains(t, out, "! slow")
	assert.Contains(t, out, "✕ broke")
}
