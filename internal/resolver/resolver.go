// Package resolver turns free-text addresses into disambiguated directory
// candidates, deciding between a single accepted match, an ambiguity that
// needs more information from the user, and no usable match at all.
package resolver

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/address"
	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
)

// Outcome is the three-way result of resolving an address.
type Outcome int

const (
	// Resolved means exactly one candidate matched and validated.
	Resolved Outcome = iota
	// Ambiguous means multiple distinct candidates matched; the user must
	// disambiguate with a zip code or neighborhood.
	Ambiguous
	// Invalid means no candidate matched, or the single candidate failed
	// validation against what the user said.
	Invalid
)

// Resolution carries the outcome of one resolve call. Candidate is set
// when Resolved; Candidates holds the distinct names when Ambiguous.
type Resolution struct {
	Outcome    Outcome
	Candidate  clients.Candidate
	Candidates []string
}

// Directory is the external address-suggestion service.
type Directory interface {
	Suggest(ctx context.Context, query string) ([]clients.Candidate, error)
}

// Resolver resolves free-text addresses against a Directory.
type Resolver struct {
	directory Directory
	logger    *zap.Logger
}

// New creates a Resolver.
func New(directory Directory, logger *zap.Logger) *Resolver {
	return &Resolver{directory: directory, logger: logger}
}

// Resolve looks up queryText, optionally narrowed by a zip code or
// neighborhood hint. Directory failures are returned as errors; every
// other case is expressed in the Resolution.
func (r *Resolver) Resolve(ctx context.Context, queryText, hint string) (Resolution, error) {
	query := queryText
	if hint != "" {
		query = queryText + " " + hint
	}

	candidates, err := r.directory.Suggest(ctx, query)
	if err != nil {
		return Resolution{}, err
	}
	if len(candidates) == 0 {
		r.logger.Debug("no directory candidates", zap.String("query", query))
		return Resolution{Outcome: Invalid}, nil
	}

	names := uniqueNames(candidates)
	if len(names) > 1 {
		r.logger.Debug("ambiguous address",
			zap.String("query", query), zap.Strings("candidates", names))
		return Resolution{Outcome: Ambiguous, Candidates: names}, nil
	}

	chosen := candidates[0]
	for _, c := range candidates {
		if c.Name == names[0] {
			chosen = c
			break
		}
	}

	if !foundAddressMatches(chosen.Name, queryText) {
		r.logger.Debug("candidate failed validation",
			zap.String("found", chosen.Name), zap.String("supplied", queryText))
		return Resolution{Outcome: Invalid}, nil
	}

	return Resolution{Outcome: Resolved, Candidate: chosen}, nil
}

// uniqueNames collapses the candidate list to distinct names, dropping any
// name that is a strict substring of a longer one. The directory returns
// unit-level variants of the same building; those should not count as
// genuine ambiguity.
func uniqueNames(candidates []clients.Candidate) []string {
	seen := make(map[string]bool, len(candidates))
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	kept := names[:0]
	for i, name := range names {
		contained := false
		for _, longer := range names[:i] {
			if len(longer) > len(name) && strings.Contains(longer, name) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, name)
		}
	}
	return kept
}

var (
	southPrefix = regexp.MustCompile(`^S\.? `)
	northPrefix = regexp.MustCompile(`^N\.? `)
)

// foundAddressMatches validates the directory's match against what the
// user said: exact house number, case-insensitive street name, and a fuzzy
// street-type comparison so "Ave" matches "Avenue" and "Rd" matches
// "Road". Partial matches are not valid.
func foundAddressMatches(found, supplied string) bool {
	foundAddr := address.Parse(found)
	suppliedAddr := address.Parse(supplied)

	if foundAddr.HouseNumber != suppliedAddr.HouseNumber {
		return false
	}

	// The directory abbreviates South and North street-name prefixes.
	foundStreet := southPrefix.ReplaceAllString(foundAddr.StreetName, "South ")
	foundStreet = northPrefix.ReplaceAllString(foundStreet, "North ")

	if !strings.EqualFold(foundStreet, suppliedAddr.StreetName) {
		return false
	}

	foundType := strings.ToLower(foundAddr.StreetType)
	suppliedType := strings.ToLower(suppliedAddr.StreetType)
	if foundType == "" || suppliedType == "" {
		return true
	}
	if strings.Contains(foundType, "rd") && strings.Contains(suppliedType, "road") {
		return true
	}
	if strings.Contains(foundType, "road") && strings.Contains(suppliedType, "rd") {
		return true
	}
	return strings.Contains(foundType, suppliedType) || strings.Contains(suppliedType, foundType)
}
