// Package intents holds the domain handlers the request router dispatches
// to: trash day, snow-emergency parking, crime reports, city alerts,
// latest 311, closest-facility lookups, feedback, and the address get/set
// flow.
package intents

import (
	"context"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

// Handler answers one intent invocation with a complete response.
type Handler interface {
	Handle(ctx context.Context, req *types.Request) (*types.Response, error)
}

// GeolocationUser marks handlers that can answer from device coordinates
// instead of a street address.
type GeolocationUser interface {
	UsesGeolocation() bool
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *types.Request) (*types.Response, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	return f(ctx, req)
}

// Slot names shared between handlers and the router.
const (
	AddressSlot       = "Address"
	ZipcodeSlot       = "Zipcode"
	NeighborhoodSlot  = "Neighborhood"
	FeedbackSlot      = "Feedback"
	NumberReportsSlot = "NumberReports"
)
