package intents

import (
	"context"

	"github.com/codeforboston/voiceapp311-sub000/internal/session"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const addressCardTitle = "Address"

// GetAddressHandler reports the address currently stored in the session,
// or explains how to set one. Also used to confirm a freshly set address.
type GetAddressHandler struct{}

// Handle implements Handler.
func (GetAddressHandler) Handle(_ context.Context, req *types.Request) (*types.Response, error) {
	attrs := session.Wrap(req.SessionAttributes)

	resp := types.NewResponse(req)
	resp.CardTitle = addressCardTitle
	resp.ShouldEndSession = false

	if addr, ok := attrs.CurrentAddress(); ok {
		resp.OutputSpeech = "Your address is " + addr + "."
	} else {
		resp.OutputSpeech = "I'm not sure what your address is. " +
			"You can tell me your address by saying, " +
			"\"my address is\" followed by your address."
	}
	return resp, nil
}

// RequestAddress builds the elicitation response sent when a handler needs
// an address that the session does not have. The platform is delegated the
// job of collecting the Address slot.
func RequestAddress(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.CardTitle = addressCardTitle
	resp.OutputSpeech = RequestAddressSpeech
	resp.DialogDirective = types.DirectiveDelegate
	resp.ShouldEndSession = false
	return resp
}

// RequestGeolocationPermission builds the permission-consent card response
// for geolocation access.
func RequestGeolocationPermission(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.OutputSpeech = GeolocationPermissionSpeech
	resp.CardType = "AskForPermissionsConsent"
	resp.CardPermissions = []string{"alexa::devices:all:geolocation:read"}
	resp.ShouldEndSession = true
	return resp
}

// RequestDeviceAddressPermission builds the permission-consent card
// response for reading the device's registered address.
func RequestDeviceAddressPermission(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.OutputSpeech = DeviceAddressPermissionSpeech
	resp.CardType = "AskForPermissionsConsent"
	resp.CardPermissions = []string{"read::alexa:device:all:address"}
	resp.ShouldEndSession = true
	return resp
}
