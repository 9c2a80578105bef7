package history

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vegaedge/internal/types"
)

// Entry is one line of the daily analysis log.
type Entry struct {
	Time            string `json:"time"`
	ID              string `json:"id"`
	Ticker          string `json:"ticker"`
	Side            string `json:"side"`
	MinDTE          int    `json:"min_dte"`
	MaxDTE          int    `json:"max_dte"`
	Rows            int    `json:"rows"`
	NoResults       bool   `json:"no_results,omitempty"`
	MarginAvailable bool   `json:"margin_available"`
	Margin          string `json:"margin"`
	EngineError     string `json:"engine_error,omitempty"`
	DurationMS      int64  `json:"duration_ms"`
}

// Log appends analysis entries to <dir>/analyses/<date>.txt.
type Log struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Log {
	return &Log{dir: dir, now: time.Now}
}

func (l *Log) filepath(t time.Time) string {
	return filepath.Join(l.dir, "analyses", t.Format("2006-01-02")+".txt")
}

// NewEntry flattens a result into a log entry.
func NewEntry(res *types.AnalysisResult) Entry {
	return Entry{
		ID:              res.ID,
		Ticker:          res.Request.Ticker,
		Side:            string(res.Request.Side),
		MinDTE:          res.Request.MinDTE,
		MaxDTE:          res.Request.MaxDTE,
		Rows:            len(res.Report.Top5),
		NoResults:       res.NoResults,
		MarginAvailable: res.Margin.Available,
		Margin:          res.Margin.Value,
		EngineError:     res.EngineError,
		DurationMS:      res.Duration.Milliseconds(),
	}
}

func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := l.filepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips log files not modified within retentionDays and removes
// the originals. retentionDays <= 0 disables it.
func (l *Log) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().AddDate(0, 0, -retentionDays)
	root := filepath.Join(l.dir, "analyses")
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			// a missing root just means nothing was logged yet
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			return os.Remove(p)
		}
		if err := gzipFile(p, gz); err != nil {
			return fmt.Errorf("compress %s: %w", p, err)
		}
		return os.Remove(p)
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
