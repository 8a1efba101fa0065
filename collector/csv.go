package collector

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/simao-eugenio/shypn-sub005/kernel"
)

// CSVSink writes one row per step: run_id, time, fired (semicolon
// joined), error.
type CSVSink struct {
	mu          sync.Mutex
	w           *csv.Writer
	wroteHeader bool
	closed      bool
}

// NewCSVSink wraps w in a csv.Writer; the caller owns w's lifecycle.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// OnStep implements kernel.StepListener.
func (s *CSVSink) OnStep(res kernel.StepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if !s.wroteHeader {
		s.w.Write([]string{"run_id", "time", "fired", "error"})
		s.wroteHeader = true
	}
	errMsg := ""
	if res.Err != nil {
		errMsg = res.Err.Error()
	}
	row := []string{
		res.RunID,
		strconv.FormatFloat(res.Time, 'f', -1, 64),
		strings.Join(res.Fired, ";"),
		errMsg,
	}
	if err := s.w.Write(row); err != nil {
		return
	}
	s.w.Flush()
}

// Close flushes the underlying csv.Writer and marks the sink closed.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.w.Flush()
	return s.w.Error()
}

var _ kernel.StepListener = (*CSVSink)(nil)

// rowString renders a StepResult the way Write would, useful for tests
// that want to assert on content without parsing CSV.
func rowString(res kernel.StepResult) string {
	errMsg := ""
	if res.Err != nil {
		errMsg = res.Err.Error()
	}
	return fmt.Sprintf("%s,%s,%s,%s", res.RunID, strconv.FormatFloat(res.Time, 'f', -1, 64), strings.Join(res.Fired, ";"), errMsg)
}
