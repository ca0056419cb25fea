package intents

import (
	"context"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

// FallbackHandler reprompts the user when the platform could not map their
// utterance to any intent.
type FallbackHandler struct{}

// Handle implements Handler.
func (FallbackHandler) Handle(_ context.Context, req *types.Request) (*types.Response, error) {
	resp := types.NewResponse(req)
	resp.CardTitle = "Boston Info"
	resp.OutputSpeech = FallbackSpeech
	resp.ShouldEndSession = false
	return resp.Reprompt(FallbackRepromptSpeech), nil
}
