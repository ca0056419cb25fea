package intents

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const (
	threeOneOneCardTitle = "Latest 311 Reports"

	defaultReportCount = 3
	maxReportCount     = 10
)

// ReportSource returns the latest 311 service requests.
type ReportSource interface {
	Latest(ctx context.Context, n int) ([]clients.Report311, error)
}

// ThreeOneOneHandler reads out the latest 311 service requests.
type ThreeOneOneHandler struct {
	Source ReportSource
	Logger *zap.Logger
}

// Handle implements Handler.
func (h *ThreeOneOneHandler) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	resp := types.NewResponse(req)
	resp.CardTitle = threeOneOneCardTitle
	resp.ShouldEndSession = true

	n := reportCount(req)
	reports, err := h.Source.Latest(ctx, n)
	if err != nil {
		h.Logger.Warn("311 query failed", zap.Error(err))
		resp.OutputSpeech = BadAPIResponseSpeech
		return resp, nil
	}

	speech := fmt.Sprintf("Here are the latest %d three one one reports. ", len(reports))
	for _, report := range reports {
		speech += fmt.Sprintf("A %s report: %s. ", report.Reason, report.Type)
	}
	resp.OutputSpeech = speech
	return resp, nil
}

// reportCount reads the report-count slot, clamped to the maximum, falling
// back to the default for missing or unparsable values.
func reportCount(req *types.Request) int {
	value, ok := req.Slot(NumberReportsSlot)
	if !ok {
		return defaultReportCount
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return defaultReportCount
	}
	if n > maxReportCount {
		return maxReportCount
	}
	return n
}
