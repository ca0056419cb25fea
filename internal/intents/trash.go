package intents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/address"
	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/internal/location"
	"github.com/codeforboston/voiceapp311-sub000/internal/resolver"
	"github.com/codeforboston/voiceapp311-sub000/internal/session"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const trashCardTitle = "Trash Day"

var zipSuffix = regexp.MustCompile(` \d{5}`)

// PickupSource returns the trash and recycling pickup days for a resolved
// directory candidate.
type PickupSource interface {
	PickupDays(ctx context.Context, cand clients.Candidate) ([]string, error)
}

// TrashHandler answers trash-day inquiries for the session's address.
type TrashHandler struct {
	Resolver *resolver.Resolver
	Pickup   PickupSource
	Checker  *location.Checker
	Logger   *zap.Logger
}

// Handle implements Handler.
func (h *TrashHandler) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	attrs := session.Wrap(req.SessionAttributes)

	currentAddress, ok := attrs.CurrentAddress()
	if !ok {
		return RequestAddress(req), nil
	}

	parsed := address.Parse(currentAddress)
	if !parsed.IsValid() {
		return h.rejectAddress(req, attrs, AddressNotUnderstoodSpeech), nil
	}

	inCity, err := h.Checker.IsInCity(ctx, currentAddress, nil)
	if err != nil {
		return h.apiFailure(req), nil
	}
	if !inCity {
		resp := types.NewResponse(req)
		resp.CardTitle = trashCardTitle
		resp.OutputSpeech = NotInBostonSpeech
		resp.ShouldEndSession = true
		return resp, nil
	}

	// Pickup day is assumed to be the same for every unit at a street
	// address, so the query drops unit and trailing tokens.
	query := parsed.HouseNumber + " " + parsed.StreetFull()
	hint := h.disambiguationHint(req, attrs, parsed)

	res, err := h.Resolver.Resolve(ctx, query, hint)
	if err != nil {
		h.Logger.Warn("address resolution failed", zap.Error(err))
		return h.apiFailure(req), nil
	}

	resp := types.NewResponse(req)
	resp.CardTitle = trashCardTitle

	switch res.Outcome {
	case resolver.Invalid:
		return h.rejectAddress(req, attrs, fmt.Sprintf(AddressNotFoundSpeech, query)), nil

	case resolver.Ambiguous:
		// Zip codes in the candidate names add nothing when read aloud.
		names := make([]string, len(res.Candidates))
		for i, name := range res.Candidates {
			names[i] = zipSuffix.ReplaceAllString(name, "")
		}
		resp.OutputSpeech = fmt.Sprintf(MultipleAddressSpeech, strings.Join(names, ", "))
		resp.DialogDirective = types.DirectiveElicitNeighborhood
		resp.ShouldEndSession = false
		return resp, nil
	}

	days, err := h.Pickup.PickupDays(ctx, res.Candidate)
	if err != nil {
		if errors.Is(err, clients.ErrBadAPIResponse) {
			return h.apiFailure(req), nil
		}
		return nil, err
	}

	resp.OutputSpeech = fmt.Sprintf(PickUpDaySpeech, JoinForSpeech(days))
	resp.ShouldEndSession = true
	return resp, nil
}

// disambiguationHint picks the strongest available hint for narrowing an
// ambiguous address: an explicit Neighborhood slot, then a session zip
// code, then a non-numeric trailing token from the spoken address.
func (h *TrashHandler) disambiguationHint(req *types.Request, attrs *session.Attributes, parsed address.Parsed) string {
	if neighborhood, ok := req.Slot(NeighborhoodSlot); ok {
		return neighborhood
	}
	if zip, ok := attrs.ZipCode(); ok {
		return zip
	}
	if parsed.Other != "" && !parsed.OtherIsZip() {
		return parsed.Other
	}
	return ""
}

func (h *TrashHandler) rejectAddress(req *types.Request, attrs *session.Attributes, speech string) *types.Response {
	attrs.ClearAddress()
	resp := types.NewResponse(req)
	resp.CardTitle = trashCardTitle
	resp.OutputSpeech = speech
	resp.DialogDirective = types.DirectiveElicitTrashAddress
	resp.ShouldEndSession = false
	return resp
}

func (h *TrashHandler) apiFailure(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.CardTitle = trashCardTitle
	resp.OutputSpeech = BadAPIResponseSpeech
	resp.ShouldEndSession = true
	return resp
}

// JoinForSpeech joins a list of words for speaking, adding "and" before
// the last item.
func JoinForSpeech(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
