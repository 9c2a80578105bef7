package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vegaedge/internal/interfaces"
	"vegaedge/internal/types"
)

// StaticEngine serves saved reports from <dir>/<TICKER>_<side>.txt. It is used
// for offline runs and demos.
type StaticEngine struct {
	dir string
}

var _ interfaces.ReportEngine = (*StaticEngine)(nil)

func NewStaticEngine(dir string) *StaticEngine {
	return &StaticEngine{dir: dir}
}

func (e *StaticEngine) Run(ctx context.Context, req types.AnalysisRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := e.path(req)
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrReportNotFound, p)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", ErrEmptyReport
	}
	return string(b), nil
}

func (e *StaticEngine) path(req types.AnalysisRequest) string {
	name := fmt.Sprintf("%s_%s.txt", strings.ToUpper(req.Ticker), req.Side.Slug())
	return filepath.Join(e.dir, name)
}
