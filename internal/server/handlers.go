package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"vegaedge/internal/analysis"
	"vegaedge/internal/logger"
	"vegaedge/internal/types"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// analyzeBody uses pointers so a missing DTE is told apart from zero.
type analyzeBody struct {
	Ticker string `json:"ticker"`
	MinDTE *int   `json:"min_dte"`
	MaxDTE *int   `json:"max_dte"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg, Details: details})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeBody
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	var missing []string
	if body.Ticker == "" {
		missing = append(missing, "ticker")
	}
	if body.MinDTE == nil {
		missing = append(missing, "min_dte")
	}
	if body.MaxDTE == nil {
		missing = append(missing, "max_dte")
	}
	if len(missing) > 0 {
		writeError(w, r, http.StatusBadRequest, "Missing required parameters", missing)
		return
	}

	req := types.AnalysisRequest{
		Ticker: body.Ticker,
		MinDTE: *body.MinDTE,
		MaxDTE: *body.MaxDTE,
		Side:   types.StrategySide(chi.URLParam(r, "side")),
	}

	res, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		var rerr *analysis.RequestError
		if errors.As(err, &rerr) {
			writeError(w, r, http.StatusBadRequest, rerr.Message, rerr.Fields)
			return
		}
		logger.ErrorWithErr(r.Context(), "Analysis failed", err, "ticker", req.Ticker)
		writeError(w, r, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	render.JSON(w, r, res)
}
