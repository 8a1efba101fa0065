package collector

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"
	_ "modernc.org/sqlite"

	"github.com/simao-eugenio/shypn-sub005/kernel"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL,
	time REAL NOT NULL,
	fired TEXT NOT NULL,
	error TEXT
);
`

// SQLiteSink records every step as a row in a steps table, using the
// module's pure-Go SQLite driver so the collector never needs cgo.
type SQLiteSink struct {
	mu     sync.Mutex
	db     *sql.DB
	insert *sql.Stmt
	closed bool
}

// NewSQLiteSink opens (or creates) the database at path and runs its
// migration.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("collector: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("collector: migrate sqlite: %w", err)
	}
	insert, err := db.Prepare(`INSERT INTO steps (run_id, time, fired, error) VALUES (?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("collector: prepare insert: %w", err)
	}
	return &SQLiteSink{db: db, insert: insert}, nil
}

// DefaultSQLitePath builds a timestamped filename under dir, so
// repeated runs of a CLI host do not clobber one another's databases.
func DefaultSQLitePath(dir string, now time.Time) string {
	name := strftime.Format("pflowsim-%Y%m%dT%H%M%S.sqlite", now)
	if dir == "" {
		return name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}

// OnStep implements kernel.StepListener.
func (s *SQLiteSink) OnStep(res kernel.StepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	errMsg := ""
	if res.Err != nil {
		errMsg = res.Err.Error()
	}
	fired := strings.Join(res.Fired, ";")
	if _, err := s.insert.Exec(res.RunID, res.Time, fired, errMsg); err != nil {
		return
	}
}

// Close releases the prepared statement and the database handle.
func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.insert.Close()
	return s.db.Close()
}

var _ kernel.StepListener = (*SQLiteSink)(nil)
