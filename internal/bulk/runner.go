// Package bulk submits link requests one at a time, in input order, and
// collects a per-row outcome for each.
package bulk

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
)

// DefaultDelay is the pause between consecutive rows.
const DefaultDelay = 100 * time.Millisecond

// Submitter adds one link. A returned error and an unsuccessful response
// both count as a failed row.
type Submitter interface {
	AddLink(ctx context.Context, req models.LinkRequest) (models.LinkResponse, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req models.LinkRequest) (models.LinkResponse, error)

// AddLink calls f.
func (f SubmitterFunc) AddLink(ctx context.Context, req models.LinkRequest) (models.LinkResponse, error) {
	return f(ctx, req)
}

// RowResult is the outcome of one submitted row.
type RowResult struct {
	Index      int    `json:"index"`
	Line       int    `json:"line,omitempty"`
	WebsiteURL string `json:"website_url"`
	LinkURL    string `json:"link_url"`
	Success    bool   `json:"success"`
	LinkAdded  bool   `json:"link_added"`
	Message    string `json:"message"`
}

// Summary aggregates the outcomes of a run in input order.
type Summary struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Results   []RowResult `json:"results"`
}

// FailedWebsites lists the website URLs of failed rows in order.
func (s *Summary) FailedWebsites() []string {
	var out []string
	for _, r := range s.Results {
		if !r.Success {
			out = append(out, r.WebsiteURL)
		}
	}
	return out
}

// Progress is reported after every row.
type Progress struct {
	Done  int
	Total int
	Row   RowResult
}

// Row is one link request and the input line it came from.
type Row struct {
	Line    int
	Request models.LinkRequest
}

// Rows converts parsed import rows into submissions against the matched
// website.
func Rows(links []models.ParsedLink) []Row {
	rows := make([]Row, 0, len(links))
	for _, l := range links {
		req := models.LinkRequest{
			WebsiteURL: l.WebsiteURL,
			AnchorText: l.AnchorText,
			LinkURL:    l.TargetURL,
		}
		if id, err := strconv.Atoi(l.PageID); err == nil && id > 0 {
			req.PageID = &id
		}
		rows = append(rows, Row{Line: l.Line, Request: req})
	}
	return rows
}

// Runner submits rows one at a time with optional pacing.
type Runner struct {
	submitter Submitter
	limiter   *rate.Limiter
	logger    infralogger.Logger
}

// NewRunner paces rows delay apart. delay <= 0 disables pacing.
func NewRunner(s Submitter, delay time.Duration, log infralogger.Logger) *Runner {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Runner{submitter: s, limiter: rate.NewLimiter(limit, 1), logger: log}
}

// Run submits every row sequentially and never retries. Once started, a run
// attempts every row: cancellation of ctx is ignored, its values are kept.
func (r *Runner) Run(ctx context.Context, rows []Row, onProgress func(Progress)) *Summary {
	ctx = context.WithoutCancel(ctx)
	summary := &Summary{Total: len(rows), Results: make([]RowResult, 0, len(rows))}

	for i, row := range rows {
		result := RowResult{
			Index:      i,
			Line:       row.Line,
			WebsiteURL: row.Request.WebsiteURL,
			LinkURL:    row.Request.LinkURL,
		}

		if err := r.limiter.Wait(ctx); err != nil {
			// Only a burst-exceeding wait fails on a detached context.
			r.logger.Warn("Bulk pacing skipped", infralogger.Error(err))
		}
		resp, err := r.submitter.AddLink(ctx, row.Request)
		if err != nil {
			result.Message = err.Error()
		} else {
			result.Success = resp.Success
			result.LinkAdded = resp.LinkAdded
			result.Message = resp.Message
		}

		if result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)

		r.logger.Debug("Bulk row processed",
			infralogger.Int("row", i+1),
			infralogger.String("website_url", result.WebsiteURL),
			infralogger.Bool("success", result.Success),
			infralogger.String("message", result.Message),
		)
		if onProgress != nil {
			onProgress(Progress{Done: i + 1, Total: len(rows), Row: result})
		}
	}

	return summary
}
