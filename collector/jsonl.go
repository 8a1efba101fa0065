// Package collector implements kernel.StepListener sinks that record
// every step's outcome for later analysis: newline-delimited JSON, CSV,
// and SQLite. Grounded on eventlog/jsonl.go and eventlog/csv.go's writer
// shape and examples/catacombs/storage.Store's migrate/prepared-
// statement shape (there built on cgo mattn/go-sqlite3; here on the
// pure-Go modernc.org/sqlite the module's own go.mod already requires).
package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/simao-eugenio/shypn-sub005/kernel"
)

// jsonlRow is the line format written for each step.
type jsonlRow struct {
	RunID string   `json:"run_id"`
	Time  float64  `json:"time"`
	Fired []string `json:"fired"`
	Error string   `json:"error,omitempty"`
}

// JSONLSink writes one JSON object per line per step to w.
type JSONLSink struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

// NewJSONLSink wraps w. Callers own w's lifecycle (open/close).
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{w: w}
}

// OnStep implements kernel.StepListener.
func (s *JSONLSink) OnStep(res kernel.StepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	row := jsonlRow{RunID: res.RunID, Time: res.Time, Fired: res.Fired}
	if res.Err != nil {
		row.Error = res.Err.Error()
	}
	data, err := json.Marshal(row)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "%s\n", data)
}

// Close marks the sink closed; further OnStep calls are no-ops. It does
// not close the underlying writer, which the caller owns.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ kernel.StepListener = (*JSONLSink)(nil)
