package interfaces

import (
	"context"

	"vegaedge/internal/types"
)

// ReportEngine produces the raw text report for a ticker, DTE window and
// strategy side. The text is opaque until report.Parse sees it.
type ReportEngine interface {
	Run(ctx context.Context, req types.AnalysisRequest) (string, error)
}
