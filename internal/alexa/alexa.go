// Package alexa translates between the Alexa Skills Kit webhook JSON and
// the platform-neutral request and response types the rest of the skill
// works with. Nothing outside this package sees the envelope format.
package alexa

import (
	"github.com/google/uuid"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const envelopeVersion = "1.0"

// RequestEnvelope is the raw webhook payload.
// https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type RequestEnvelope struct {
	Version string          `json:"version"`
	Session EnvelopeSession `json:"session"`
	Context EnvelopeContext `json:"context"`
	Request EnvelopeRequest `json:"request"`
}

type EnvelopeSession struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Attributes  map[string]any `json:"attributes"`
	Application Application    `json:"application"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type EnvelopeContext struct {
	System      System       `json:"System"`
	Geolocation *Geolocation `json:"Geolocation"`
}

type System struct {
	Device         Device `json:"device"`
	APIAccessToken string `json:"apiAccessToken"`
}

type Device struct {
	DeviceID            string                    `json:"deviceId"`
	SupportedInterfaces map[string]map[string]any `json:"supportedInterfaces"`
}

type Geolocation struct {
	Coordinate *Coordinate `json:"coordinate"`
}

type Coordinate struct {
	LatitudeInDegrees  float64 `json:"latitudeInDegrees"`
	LongitudeInDegrees float64 `json:"longitudeInDegrees"`
}

type EnvelopeRequest struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Intent    *Intent `json:"intent"`
}

type Intent struct {
	Name  string                `json:"name"`
	Slots map[string]types.Slot `json:"slots"`
}

// ToRequest converts a decoded envelope into the normalized request. A
// missing session id gets a generated one so logs stay correlatable.
func ToRequest(env *RequestEnvelope) *types.Request {
	req := &types.Request{
		Kind:              types.RequestKind(env.Request.Type),
		RequestID:         env.Request.RequestID,
		IsNewSession:      env.Session.New,
		SessionID:         env.Session.SessionID,
		SessionAttributes: env.Session.Attributes,
		ApplicationID:     env.Session.Application.ApplicationID,
		DeviceID:          env.Context.System.Device.DeviceID,
		APIAccessToken:    env.Context.System.APIAccessToken,
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.SessionAttributes == nil {
		req.SessionAttributes = make(map[string]any)
	}

	if env.Request.Intent != nil {
		req.IntentName = env.Request.Intent.Name
		req.IntentSlots = env.Request.Intent.Slots
	}

	_, req.HasGeolocation = env.Context.System.Device.SupportedInterfaces["Geolocation"]
	if geo := env.Context.Geolocation; geo != nil {
		req.GeolocationGiven = true
		if geo.Coordinate != nil {
			req.Geolocation = &types.Coordinates{
				X: geo.Coordinate.LongitudeInDegrees,
				Y: geo.Coordinate.LatitudeInDegrees,
			}
		}
	}
	return req
}

// ResponseEnvelope is the webhook reply payload.
type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes"`
	Response          ResponseBody   `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Card struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Content     string   `json:"content,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

type Directive struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// Slot names the elicitation directives collect.
const (
	neighborhoodSlot = "Neighborhood"
	addressSlot      = "Address"
)

// FromResponse converts a normalized response into the reply envelope.
func FromResponse(resp *types.Response) *ResponseEnvelope {
	env := &ResponseEnvelope{
		Version:           envelopeVersion,
		SessionAttributes: resp.SessionAttributes,
		Response: ResponseBody{
			ShouldEndSession: resp.ShouldEndSession,
		},
	}

	cardType := resp.CardType
	if cardType == "" {
		cardType = "Simple"
	}
	env.Response.Card = &Card{
		Type:        cardType,
		Title:       resp.CardTitle,
		Content:     resp.OutputSpeech,
		Permissions: resp.CardPermissions,
	}

	// A delegated dialog hands the turn to the platform; speech and
	// reprompt are omitted from the reply.
	if resp.DialogDirective == types.DirectiveDelegate {
		env.Response.Directives = []Directive{{Type: "Dialog.Delegate"}}
		return env
	}

	env.Response.OutputSpeech = &OutputSpeech{Type: "PlainText", Text: resp.OutputSpeech}
	if resp.RepromptText != nil {
		env.Response.Reprompt = &Reprompt{
			OutputSpeech: OutputSpeech{Type: "PlainText", Text: *resp.RepromptText},
		}
	}

	switch resp.DialogDirective {
	case types.DirectiveElicitNeighborhood:
		env.Response.Directives = []Directive{{Type: "Dialog.ElicitSlot", SlotToElicit: neighborhoodSlot}}
	case types.DirectiveElicitTrashAddress:
		env.Response.Directives = []Directive{{Type: "Dialog.ElicitSlot", SlotToElicit: addressSlot}}
	}
	return env
}
