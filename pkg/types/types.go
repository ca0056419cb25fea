package types

// RequestKind identifies the type of an inbound turn.
type RequestKind string

const (
	LaunchRequest       RequestKind = "LaunchRequest"
	IntentRequest       RequestKind = "IntentRequest"
	SessionEndedRequest RequestKind = "SessionEndedRequest"
)

// DialogDirective instructs the platform to keep collecting a slot
// rather than ending the turn.
type DialogDirective string

const (
	DirectiveNone               DialogDirective = ""
	DirectiveDelegate           DialogDirective = "Delegate"
	DirectiveElicitNeighborhood DialogDirective = "ElicitSlotNeighborhood"
	DirectiveElicitTrashAddress DialogDirective = "ElicitSlotTrash"
)

// Coordinates is an (x, y) pair as returned by the geocoder, with x as
// longitude and y as latitude.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Slot is a named variable captured from user speech by the platform.
// Value is empty for unfilled slots.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Request is one normalized inbound turn from the voice platform.
// The platform adapter fills it in; SessionAttributes is the only field
// mutated during routing.
type Request struct {
	Kind              RequestKind
	RequestID         string
	IsNewSession      bool
	SessionID         string
	SessionAttributes map[string]any
	ApplicationID     string
	IntentName        string
	IntentSlots       map[string]Slot
	DeviceID          string
	APIAccessToken    string
	HasGeolocation    bool
	GeolocationGiven  bool
	Geolocation       *Coordinates
}

// Slot returns the value of the named slot and whether it was filled.
func (r *Request) Slot(name string) (string, bool) {
	s, ok := r.IntentSlots[name]
	if !ok || s.Value == "" {
		return "", false
	}
	return s.Value, true
}

// Response is one normalized outbound turn. A nil RepromptText means the
// platform should not reprompt; the session returns to the top level.
type Response struct {
	SessionAttributes map[string]any
	CardTitle         string
	CardType          string
	CardPermissions   []string
	OutputSpeech      string
	RepromptText      *string
	ShouldEndSession  bool
	DialogDirective   DialogDirective
}

// NewResponse returns a Response carrying over the request's session
// attributes, the way every handler starts one.
func NewResponse(req *Request) *Response {
	return &Response{SessionAttributes: req.SessionAttributes}
}

// Reprompt sets the reprompt text.
func (r *Response) Reprompt(text string) *Response {
	r.RepromptText = &text
	return r
}
