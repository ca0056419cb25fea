// Package controller routes normalized requests to domain handlers. It is
// the skill's state machine: it captures address and zip slots into the
// session, enforces the address precondition before dispatch, and resumes
// an interrupted intent once the user supplies an address.
package controller

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/internal/intents"
	"github.com/codeforboston/voiceapp311-sub000/internal/session"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

// Intent names owned by the router itself.
const (
	SetAddressIntent = "SetAddressIntent"
	GetAddressIntent = "GetAddressIntent"

	helpIntent     = "AMAZON.HelpIntent"
	stopIntent     = "AMAZON.StopIntent"
	cancelIntent   = "AMAZON.CancelIntent"
	fallbackIntent = "AMAZON.FallbackIntent"
)

const (
	launchSpeech = "Welcome to the Boston Info skill. You can ask for help " +
		"at any time, and I'll let you know what information I can provide. " +
		"How can I help you?"

	launchRepromptSpeech = "You can ask me about Boston city services, " +
		"such as \"are there any city alerts\"?"

	helpSpeech = "You are using Boston Info, a skill that provides information " +
		"about Boston services and alerts. You can ask about your trash " +
		"pickup schedule, city alerts, the locations of food trucks " +
		"and farmers markets, info about snow emergencies, the latest " +
		"three one one reports, and the latest crime reports! " +
		"If you have feedback for the skill, say, 'I have a suggestion.'"

	farewellSpeech = "Thank you for using the Boston Info skill. " +
		"See you next time!"
)

// DeviceAddressSource fetches the device's registered street address.
type DeviceAddressSource interface {
	Address(ctx context.Context, deviceID, accessToken string) (string, error)
}

// Controller dispatches one request per turn.
type Controller struct {
	handlers        map[string]intents.Handler
	requiresAddress map[string]bool
	device          DeviceAddressSource
	logger          *zap.Logger
}

// New creates a Controller. Handlers are registered afterwards; the
// built-in launch, help, stop and address intents need no registration.
func New(device DeviceAddressSource, logger *zap.Logger) *Controller {
	c := &Controller{
		handlers:        make(map[string]intents.Handler),
		requiresAddress: make(map[string]bool),
		device:          device,
		logger:          logger,
	}
	c.handlers[GetAddressIntent] = intents.GetAddressHandler{}
	c.handlers[fallbackIntent] = intents.FallbackHandler{}
	return c
}

// Register adds a domain handler for an intent name. Handlers registered
// with needsAddress are only invoked once the session holds an address;
// until then the router answers with an address elicitation.
func (c *Controller) Register(intent string, h intents.Handler, needsAddress bool) {
	c.handlers[intent] = h
	if needsAddress {
		c.requiresAddress[intent] = true
	}
}

// Execute routes one normalized request and returns the response for this
// turn. An unrecognized intent name is a configuration defect and returns
// an error rather than a user-facing response.
func (c *Controller) Execute(ctx context.Context, req *types.Request) (*types.Response, error) {
	if req.SessionAttributes == nil {
		req.SessionAttributes = make(map[string]any)
	}

	if req.IsNewSession {
		c.onSessionStarted(ctx, req)
	}

	switch req.Kind {
	case types.LaunchRequest:
		return c.welcome(req), nil
	case types.IntentRequest:
		return c.onIntent(ctx, req)
	case types.SessionEndedRequest:
		return &types.Response{SessionAttributes: req.SessionAttributes}, nil
	default:
		return nil, fmt.Errorf("unsupported request kind %q", req.Kind)
	}
}

// onSessionStarted silently seeds the session with the device's
// registered address. Failure leaves the session without an address and
// is never surfaced to the user.
func (c *Controller) onSessionStarted(ctx context.Context, req *types.Request) {
	if req.DeviceID == "" || req.APIAccessToken == "" {
		return
	}
	addr, err := c.device.Address(ctx, req.DeviceID, req.APIAccessToken)
	if err != nil {
		if !errors.Is(err, clients.ErrNoPermission) {
			c.logger.Debug("device address lookup failed", zap.Error(err))
		}
		return
	}
	if addr != "" {
		session.Wrap(req.SessionAttributes).SetCurrentAddress(addr)
		c.logger.Debug("seeded session with device address")
	}
}

func (c *Controller) onIntent(ctx context.Context, req *types.Request) (*types.Response, error) {
	attrs := session.Wrap(req.SessionAttributes)

	// Any intent may carry an address or zip code alongside its real
	// request; capture them before routing.
	if addr, ok := req.Slot(intents.AddressSlot); ok {
		attrs.SetCurrentAddress(addr)
	}
	if zip, ok := req.Slot(intents.ZipcodeSlot); ok {
		attrs.SetZipCode(zip)
	}

	intentName := req.IntentName

	switch intentName {
	case helpIntent:
		return c.help(req), nil
	case stopIntent, cancelIntent:
		return c.farewell(req), nil
	case SetAddressIntent:
		// If another intent was interrupted to collect this address,
		// resume it instead of replying to the address itself.
		if origin, ok := attrs.PromptedFromIntent(); ok {
			attrs.ClearPromptedFromIntent()
			c.logger.Debug("resuming intent after address set",
				zap.String("intent", origin))
			intentName = origin
		} else {
			return intents.GetAddressHandler{}.Handle(ctx, req)
		}
	}

	handler, ok := c.handlers[intentName]
	if !ok {
		return nil, fmt.Errorf("unrecognized intent %q", intentName)
	}

	if c.requiresAddress[intentName] {
		if resp := c.acquireLocation(ctx, req, attrs, intentName, handler); resp != nil {
			return resp, nil
		}
	}

	return handler.Handle(ctx, req)
}

// acquireLocation enforces the address precondition. It returns nil when
// the session address or supplied coordinates can serve the intent, and
// otherwise the response that collects a location from the user: a
// geolocation permission card for sharing-capable devices, a device
// address permission card when reading the registered address is denied,
// and an address elicitation as the last resort.
func (c *Controller) acquireLocation(ctx context.Context, req *types.Request, attrs *session.Attributes, intentName string, handler intents.Handler) *types.Response {
	if _, haveAddress := attrs.CurrentAddress(); haveAddress {
		return nil
	}

	if g, ok := handler.(intents.GeolocationUser); ok && g.UsesGeolocation() {
		if req.GeolocationGiven && req.Geolocation != nil {
			return nil
		}
		if req.HasGeolocation {
			c.logger.Debug("requesting geolocation permission",
				zap.String("intent", intentName))
			return intents.RequestGeolocationPermission(req)
		}
	}

	if req.DeviceID != "" && req.APIAccessToken != "" {
		addr, err := c.device.Address(ctx, req.DeviceID, req.APIAccessToken)
		switch {
		case errors.Is(err, clients.ErrNoPermission):
			return intents.RequestDeviceAddressPermission(req)
		case err != nil:
			c.logger.Debug("device address lookup failed", zap.Error(err))
		case addr != "":
			attrs.SetCurrentAddress(addr)
			return nil
		}
	}

	c.logger.Debug("eliciting address before intent",
		zap.String("intent", intentName))
	attrs.SetPromptedFromIntent(intentName)
	return intents.RequestAddress(req)
}

func (c *Controller) welcome(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.CardTitle = "Welcome"
	resp.OutputSpeech = launchSpeech
	resp.ShouldEndSession = false
	return resp.Reprompt(launchRepromptSpeech)
}

func (c *Controller) help(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.CardTitle = "Help"
	resp.OutputSpeech = helpSpeech
	resp.ShouldEndSession = false
	return resp
}

func (c *Controller) farewell(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.CardTitle = "Boston Info - Thanks"
	resp.OutputSpeech = farewellSpeech
	resp.ShouldEndSession = true
	return resp
}
