package controller

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/internal/intents"
	"github.com/codeforboston/voiceapp311-sub000/internal/location"
	"github.com/codeforboston/voiceapp311-sub000/internal/resolver"
	"github.com/codeforboston/voiceapp311-sub000/internal/session"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

type stubDevice struct {
	address string
	err     error
	calls   int
}

func (d *stubDevice) Address(_ context.Context, _, _ string) (string, error) {
	d.calls++
	return d.address, d.err
}

type recordingHandler struct {
	calls int
	resp  *types.Response
}

func (h *recordingHandler) Handle(_ context.Context, req *types.Request) (*types.Response, error) {
	h.calls++
	if h.resp != nil {
		return h.resp, nil
	}
	resp := types.NewResponse(req)
	resp.OutputSpeech = "handled"
	return resp, nil
}

func newController() *Controller {
	return New(&stubDevice{}, zap.NewNop())
}

func intentRequest(name string) *types.Request {
	return &types.Request{
		Kind:              types.IntentRequest,
		IntentName:        name,
		SessionAttributes: map[string]any{},
	}
}

func TestLaunchRequest(t *testing.T) {
	c := newController()
	resp, err := c.Execute(context.Background(), &types.Request{
		Kind:              types.LaunchRequest,
		SessionAttributes: map[string]any{},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.OutputSpeech != launchSpeech {
		t.Errorf("Expected welcome speech, got %q", resp.OutputSpeech)
	}
	if resp.RepromptText == nil || *resp.RepromptText != launchRepromptSpeech {
		t.Error("Launch response should carry the reprompt")
	}
	if resp.ShouldEndSession {
		t.Error("Launch should keep the session open")
	}
}

func TestStopIntent(t *testing.T) {
	for _, name := range []string{stopIntent, cancelIntent} {
		c := newController()
		resp, err := c.Execute(context.Background(), intentRequest(name))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if resp.OutputSpeech != farewellSpeech {
			t.Errorf("%s: expected farewell, got %q", name, resp.OutputSpeech)
		}
		if !resp.ShouldEndSession {
			t.Errorf("%s: expected session to end", name)
		}
		if resp.RepromptText != nil {
			t.Errorf("%s: expected no reprompt", name)
		}
	}
}

func TestHelpIntent(t *testing.T) {
	c := newController()
	resp, err := c.Execute(context.Background(), intentRequest(helpIntent))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.OutputSpeech != helpSpeech {
		t.Errorf("Expected help speech, got %q", resp.OutputSpeech)
	}
	if resp.ShouldEndSession {
		t.Error("Help should keep the session open")
	}
}

func TestSessionEndedRequest(t *testing.T) {
	c := newController()
	resp, err := c.Execute(context.Background(), &types.Request{
		Kind:              types.SessionEndedRequest,
		SessionAttributes: map[string]any{},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.OutputSpeech != "" {
		t.Errorf("Session end should be silent, got %q", resp.OutputSpeech)
	}
}

func TestUnrecognizedIntentFails(t *testing.T) {
	c := newController()
	if _, err := c.Execute(context.Background(), intentRequest("NoSuchIntent")); err == nil {
		t.Fatal("Expected an error for an unregistered intent")
	}
}

func TestSlotCapture(t *testing.T) {
	c := newController()
	h := &recordingHandler{}
	c.Register("TestIntent", h, false)

	req := intentRequest("TestIntent")
	req.IntentSlots = map[string]types.Slot{
		intents.AddressSlot: {Name: intents.AddressSlot, Value: "46 Everdean St"},
		intents.ZipcodeSlot: {Name: intents.ZipcodeSlot, Value: "2122"},
	}
	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	attrs := session.Wrap(req.SessionAttributes)
	if addr, _ := attrs.CurrentAddress(); addr != "46 Everdean St" {
		t.Errorf("Address slot not captured, got %q", addr)
	}
	if zip, _ := attrs.ZipCode(); zip != "02122" {
		t.Errorf("Zip slot not captured and padded, got %q", zip)
	}
	if h.calls != 1 {
		t.Errorf("Handler should run once, ran %d times", h.calls)
	}
}

func TestAddressPreconditionElicits(t *testing.T) {
	c := newController()
	h := &recordingHandler{}
	c.Register("TrashDayIntent", h, true)

	req := intentRequest("TrashDayIntent")
	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if h.calls != 0 {
		t.Error("Handler must not run without an address")
	}
	if resp.DialogDirective != types.DirectiveDelegate {
		t.Errorf("Expected Delegate directive, got %q", resp.DialogDirective)
	}
	if intent, ok := session.Wrap(req.SessionAttributes).PromptedFromIntent(); !ok || intent != "TrashDayIntent" {
		t.Errorf("Expected resume marker for TrashDayIntent, got %q", intent)
	}
}

func TestSetAddressResumesInterruptedIntent(t *testing.T) {
	c := newController()
	h := &recordingHandler{}
	c.Register("TrashDayIntent", h, true)

	req := intentRequest(SetAddressIntent)
	session.Wrap(req.SessionAttributes).SetPromptedFromIntent("TrashDayIntent")
	req.IntentSlots = map[string]types.Slot{
		intents.AddressSlot: {Name: intents.AddressSlot, Value: "46 Everdean St"},
	}

	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("Expected the interrupted handler to run, ran %d times", h.calls)
	}
	if resp.OutputSpeech != "handled" {
		t.Errorf("Expected the handler's response, got %q", resp.OutputSpeech)
	}
	if _, ok := session.Wrap(req.SessionAttributes).PromptedFromIntent(); ok {
		t.Error("Resume marker should be cleared after the redirect")
	}
}

func TestSetAddressWithoutMarkerConfirms(t *testing.T) {
	c := newController()
	req := intentRequest(SetAddressIntent)
	req.IntentSlots = map[string]types.Slot{
		intents.AddressSlot: {Name: intents.AddressSlot, Value: "46 Everdean St"},
	}
	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.OutputSpeech != "Your address is 46 Everdean St." {
		t.Errorf("Expected address confirmation, got %q", resp.OutputSpeech)
	}
}

func TestNewSessionSeedsDeviceAddress(t *testing.T) {
	device := &stubDevice{address: "46 Everdean St"}
	c := New(device, zap.NewNop())

	req := intentRequest("AMAZON.HelpIntent")
	req.IsNewSession = true
	req.DeviceID = "device-1"
	req.APIAccessToken = "token-1"

	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if device.calls != 1 {
		t.Errorf("Expected one device address lookup, got %d", device.calls)
	}
	if addr, _ := session.Wrap(req.SessionAttributes).CurrentAddress(); addr != "46 Everdean St" {
		t.Errorf("Expected seeded address, got %q", addr)
	}
}

func TestNewSessionDeviceAddressFailureIsNonFatal(t *testing.T) {
	device := &stubDevice{err: clients.ErrNoPermission}
	c := New(device, zap.NewNop())

	req := intentRequest("AMAZON.HelpIntent")
	req.IsNewSession = true
	req.DeviceID = "device-1"
	req.APIAccessToken = "token-1"

	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("Device failure must not fail the request: %v", err)
	}
	if _, ok := session.Wrap(req.SessionAttributes).CurrentAddress(); ok {
		t.Error("No address should be stored when the lookup fails")
	}
}

func TestNewSessionWithoutTokenSkipsLookup(t *testing.T) {
	device := &stubDevice{address: "46 Everdean St"}
	c := New(device, zap.NewNop())

	req := intentRequest("AMAZON.HelpIntent")
	req.IsNewSession = true

	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if device.calls != 0 {
		t.Error("Lookup should be skipped without device id and token")
	}
}

type geoHandler struct{ recordingHandler }

func (*geoHandler) UsesGeolocation() bool { return true }

func TestGeolocationSatisfiesAddressPrecondition(t *testing.T) {
	c := newController()
	h := &geoHandler{}
	c.Register("FoodTruckIntent", h, true)

	req := intentRequest("FoodTruckIntent")
	req.HasGeolocation = true
	req.GeolocationGiven = true
	req.Geolocation = &types.Coordinates{X: -71.0589, Y: 42.3601}

	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("Handler should run on shared coordinates, ran %d times", h.calls)
	}
	if resp.DialogDirective != "" {
		t.Errorf("Expected no elicitation, got directive %q", resp.DialogDirective)
	}
	if _, ok := session.Wrap(req.SessionAttributes).PromptedFromIntent(); ok {
		t.Error("No resume marker should be set when coordinates serve the intent")
	}
}

func TestGeolocationCapableDeviceGetsPermissionCard(t *testing.T) {
	c := newController()
	h := &geoHandler{}
	c.Register("FoodTruckIntent", h, true)

	req := intentRequest("FoodTruckIntent")
	req.HasGeolocation = true

	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if h.calls != 0 {
		t.Error("Handler must not run before geolocation is shared")
	}
	if resp.CardType != "AskForPermissionsConsent" {
		t.Errorf("Expected a permission consent card, got %q", resp.CardType)
	}
	if len(resp.CardPermissions) != 1 || resp.CardPermissions[0] != "alexa::devices:all:geolocation:read" {
		t.Errorf("Expected the geolocation read permission, got %v", resp.CardPermissions)
	}
}

func TestDeniedDeviceAddressGetsPermissionCard(t *testing.T) {
	device := &stubDevice{err: clients.ErrNoPermission}
	c := New(device, zap.NewNop())
	h := &recordingHandler{}
	c.Register("TrashDayIntent", h, true)

	req := intentRequest("TrashDayIntent")
	req.DeviceID = "device-1"
	req.APIAccessToken = "token-1"

	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if h.calls != 0 {
		t.Error("Handler must not run without an address")
	}
	if resp.CardType != "AskForPermissionsConsent" {
		t.Errorf("Expected a permission consent card, got %q", resp.CardType)
	}
	if len(resp.CardPermissions) != 1 || resp.CardPermissions[0] != "read::alexa:device:all:address" {
		t.Errorf("Expected the device address permission, got %v", resp.CardPermissions)
	}
}

func TestDeviceAddressFillsPreconditionMidSession(t *testing.T) {
	device := &stubDevice{address: "46 Everdean St"}
	c := New(device, zap.NewNop())
	h := &recordingHandler{}
	c.Register("TrashDayIntent", h, true)

	req := intentRequest("TrashDayIntent")
	req.DeviceID = "device-1"
	req.APIAccessToken = "token-1"

	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("Handler should run with the registered address, ran %d times", h.calls)
	}
	if addr, _ := session.Wrap(req.SessionAttributes).CurrentAddress(); addr != "46 Everdean St" {
		t.Errorf("Expected the registered address in the session, got %q", addr)
	}
}

// End-to-end routing through the real trash pipeline with stubbed
// external services.

type e2eSuggest struct{ candidates []clients.Candidate }

func (s e2eSuggest) Suggest(_ context.Context, _ string) ([]clients.Candidate, error) {
	return s.candidates, nil
}

type e2ePickup struct{ days []string }

func (s e2ePickup) PickupDays(_ context.Context, _ clients.Candidate) ([]string, error) {
	return s.days, nil
}

type e2eReverse struct{}

func (e2eReverse) ReverseGeocode(_ context.Context, _ types.Coordinates) (clients.Place, error) {
	return clients.Place{}, nil
}

func newTrashController(suggest e2eSuggest, pickup e2ePickup) *Controller {
	logger := zap.NewNop()
	c := New(&stubDevice{}, logger)
	c.Register("TrashDayIntent", &intents.TrashHandler{
		Resolver: resolver.New(suggest, logger),
		Pickup:   pickup,
		Checker:  location.NewChecker("Boston", "MA", e2eReverse{}, logger),
		Logger:   logger,
	}, true)
	return c
}

func TestTrashDayEndToEnd(t *testing.T) {
	c := newTrashController(
		e2eSuggest{candidates: []clients.Candidate{{Name: "46 Everdean St, Dorchester 02122"}}},
		e2ePickup{days: []string{"Friday"}},
	)

	req := intentRequest("TrashDayIntent")
	req.IntentSlots = map[string]types.Slot{
		intents.AddressSlot: {Name: intents.AddressSlot, Value: "46 Everdean St"},
	}
	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := "Trash and recycling is picked up on Friday."
	if resp.OutputSpeech != want {
		t.Errorf("Expected %q, got %q", want, resp.OutputSpeech)
	}
	if !resp.ShouldEndSession {
		t.Error("Completed answer should end the session")
	}
}

func TestTrashDayOutOfCityEndToEnd(t *testing.T) {
	c := newTrashController(e2eSuggest{}, e2ePickup{})

	req := intentRequest("TrashDayIntent")
	req.IntentSlots = map[string]types.Slot{
		intents.AddressSlot: {Name: intents.AddressSlot, Value: "10 Main Street New York NY"},
	}
	resp, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.OutputSpeech != intents.NotInBostonSpeech {
		t.Errorf("Expected not-in-Boston refusal, got %q", resp.OutputSpeech)
	}
	if !resp.ShouldEndSession {
		t.Error("Refusal should end the session")
	}
}
