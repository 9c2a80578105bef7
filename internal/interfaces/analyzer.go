package interfaces

import (
	"context"

	"vegaedge/internal/types"
)

type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResult, error)
}
