package intents

import (
	"context"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const feedbackCardTitle = "Feedback"

// FeedbackSink delivers user feedback to the team.
type FeedbackSink interface {
	PostFeedback(ctx context.Context, kind, text string) error
}

// FeedbackHandler collects bug reports and suggestions from users. When
// the Feedback slot is unfilled the dialog is delegated back to the
// platform to collect it.
type FeedbackHandler struct {
	Sink   FeedbackSink
	Logger *zap.Logger
}

// Handle implements Handler.
func (h *FeedbackHandler) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	resp := types.NewResponse(req)
	resp.CardTitle = feedbackCardTitle
	resp.ShouldEndSession = false

	text, ok := req.Slot(FeedbackSlot)
	if !ok {
		resp.OutputSpeech = FeedbackPromptSpeech
		resp.DialogDirective = types.DirectiveDelegate
		return resp, nil
	}

	if err := h.Sink.PostFeedback(ctx, "Feedback", text); err != nil {
		h.Logger.Warn("feedback delivery failed", zap.Error(err))
		resp.OutputSpeech = FeedbackFailedSpeech
		return resp, nil
	}
	resp.OutputSpeech = FeedbackThanksSpeech
	return resp, nil
}
