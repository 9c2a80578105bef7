package history

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// SummaryHeaders are the columns of the daily summary CSV.
var SummaryHeaders = []string{"ticker", "side", "analyses", "no_results", "engine_errors", "margin_available", "avg_rows", "last_margin"}

type summaryRow struct {
	ticker, side    string
	analyses        int
	noResults       int
	engineErrors    int
	marginAvailable int
	rows            int
	lastMargin      string
}

func (l *Log) summaryPath(t time.Time) string {
	return filepath.Join(l.dir, "summary", t.Format("2006-01-02")+".csv")
}

// SummarizeDay aggregates the day's analyses per ticker and side into
// <dir>/summary/<date>.csv. It returns "" with no error when nothing was
// recorded that day.
func (l *Log) SummarizeDay(t time.Time) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, err := l.openDay(t)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer r.Close()

	aggs := map[string]*summaryRow{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		key := e.Ticker + "/" + e.Side
		row := aggs[key]
		if row == nil {
			row = &summaryRow{ticker: e.Ticker, side: e.Side}
			aggs[key] = row
		}
		row.analyses++
		row.rows += e.Rows
		row.lastMargin = e.Margin
		if e.NoResults {
			row.noResults++
		}
		if e.EngineError != "" {
			row.engineErrors++
		}
		if e.MarginAvailable {
			row.marginAvailable++
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := l.summaryPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(SummaryHeaders); err != nil {
		return "", err
	}
	for _, k := range keys {
		r := aggs[k]
		rec := []string{
			r.ticker,
			r.side,
			strconv.Itoa(r.analyses),
			strconv.Itoa(r.noResults),
			strconv.Itoa(r.engineErrors),
			strconv.Itoa(r.marginAvailable),
			fmt.Sprintf("%.1f", float64(r.rows)/float64(r.analyses)),
			r.lastMargin,
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}

type gzipFileReader struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFileReader) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// openDay opens the day's log, falling back to the copy CompressOlder left.
func (l *Log) openDay(t time.Time) (io.ReadCloser, error) {
	p := l.filepath(t)
	f, err := os.Open(p)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	f, err = os.Open(p + ".gz")
	if err != nil {
		return nil, err
	}
	gr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open %s.gz: %w", p, err)
	}
	return gzipFileReader{Reader: gr, f: f}, nil
}

func (l *Log) SummarizeToday() (string, error) {
	return l.SummarizeDay(l.now())
}
