package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vegaedge/internal/api"
	"vegaedge/internal/interfaces"
	"vegaedge/internal/types"
)

// HTTPEngine asks a remote analysis backend for the report:
// POST <base>/analyze/<bullish|bearish> {"ticker","min_dte","max_dte"}.
type HTTPEngine struct {
	client *api.Client
	retry  *api.RetryConfig
}

var _ interfaces.ReportEngine = (*HTTPEngine)(nil)

type backendRequest struct {
	Ticker string `json:"ticker"`
	MinDTE int    `json:"min_dte"`
	MaxDTE int    `json:"max_dte"`
}

// backendResponse covers the JSON shapes the backend has used for the report.
type backendResponse struct {
	Report string `json:"report"`
	Result string `json:"result"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// NewHTTPEngine returns an engine using client. A nil retry config means one attempt.
func NewHTTPEngine(client *api.Client, retry *api.RetryConfig) *HTTPEngine {
	if retry == nil {
		retry = &api.RetryConfig{MaxAttempts: 1}
	}
	return &HTTPEngine{client: client, retry: retry}
}

func (e *HTTPEngine) Run(ctx context.Context, req types.AnalysisRequest) (string, error) {
	r := api.NewRequest(http.MethodPost, "/analyze/"+req.Side.Slug()).
		WithContext(ctx).
		WithBody(backendRequest{Ticker: req.Ticker, MinDTE: req.MinDTE, MaxDTE: req.MaxDTE}).
		WithHeader("Accept", "application/json, text/plain, text/html")

	resp, err := e.client.DoWithRetry(r, e.retry)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			return "", fmt.Errorf("Backend error: %d", se.StatusCode)
		}
		return "", err
	}
	return extractReport(resp)
}

func extractReport(resp *api.Response) (string, error) {
	mediaType, _, err := mime.ParseMediaType(resp.Headers.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	var text string
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		var br backendResponse
		if err := resp.ParseJSON(&br); err != nil {
			return "", err
		}
		if br.Error != "" {
			return "", errors.New(br.Error)
		}
		text = firstNonEmpty(br.Report, br.Result, br.Text)
	case mediaType == "text/html":
		text, err = htmlReportText(resp.Body)
		if err != nil {
			return "", err
		}
	default:
		text = resp.String()
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReport
	}
	return text, nil
}

// htmlReportText returns the text of the page's <pre> blocks, or of the
// whole body when there are none.
func htmlReportText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse HTML report: %w", err)
	}
	pre := doc.Find("pre")
	if pre.Length() == 0 {
		return doc.Find("body").Text(), nil
	}
	blocks := make([]string, 0, pre.Length())
	pre.Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	return strings.Join(blocks, "\n"), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
