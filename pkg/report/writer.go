package report

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Writer serializes report emission to a shared sink. Functions may
// be analyzed concurrently, but each function's lines are written and
// flushed as one unit, so lines from different functions never
// interleave and a consuming process observes whole reports promptly.
type Writer struct {
	mu sync.Mutex
	bw *bufio.Writer
}

// NewWriter wraps the output sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Write emits all lines of one function report and flushes.
func (w *Writer) Write(rep FunctionReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if rep.Aggregate {
		spills, pressure := 0, 0
		for _, c := range rep.Classes {
			spills += c.Spills
			pressure += c.Pressure
		}
		if len(rep.Classes) > 0 {
			fmt.Fprintf(w.bw, "@SSA_REPORT func=%s spills=%d pressure=%d\n",
				rep.Func, spills, pressure)
		}
	} else {
		for _, c := range rep.Classes {
			fmt.Fprintf(w.bw, "@SSA_REPORT func=%s class=%s spills=%d pressure=%d\n",
				rep.Func, c.Class, c.Spills, c.Pressure)
		}
	}
	return w.bw.Flush()
}
