// Package address parses free-text US street addresses into components
// usable by the lookup pipeline. Parsing never fails; callers gate on
// IsValid before spending a network round trip.
package address

import "strings"

// streetTypes maps recognized street-type suffixes to their short
// normalized form. Long and short spellings normalize to the same value.
var streetTypes = map[string]string{
	"st": "St", "street": "St",
	"ave": "Ave", "avenue": "Ave", "av": "Ave",
	"rd": "Rd", "road": "Rd",
	"dr": "Dr", "drive": "Dr",
	"blvd": "Blvd", "boulevard": "Blvd",
	"ln": "Ln", "lane": "Ln",
	"ct": "Ct", "court": "Ct",
	"pl": "Pl", "place": "Pl",
	"sq": "Sq", "square": "Sq",
	"ter": "Ter", "terrace": "Ter",
	"pkwy": "Pkwy", "parkway": "Pkwy",
	"cir": "Cir", "circle": "Cir",
	"hwy": "Hwy", "highway": "Hwy",
	"way": "Way",
	"row": "Row",
}

// unitDesignators start a secondary-unit segment.
var unitDesignators = map[string]bool{
	"unit": true, "apt": true, "apartment": true,
	"suite": true, "ste": true, "#": true, "floor": true, "fl": true,
}

// Parsed is the structured decomposition of a free-text address.
// Missing components are empty strings. Other holds whatever trails the
// street segment: a zip code, a neighborhood, or a "city state" pair.
type Parsed struct {
	HouseNumber string
	StreetName  string
	StreetType  string
	Unit        string
	Other       string
}

// StreetFull is the street name with its type suffix, e.g. "Everdean St".
func (p Parsed) StreetFull() string {
	if p.StreetType == "" {
		return p.StreetName
	}
	return p.StreetName + " " + p.StreetType
}

// IsValid reports whether the address carries enough information to be
// worth querying externally: a house number and a street name.
func (p Parsed) IsValid() bool {
	return p.HouseNumber != "" && p.StreetName != ""
}

// OtherIsZip reports whether the trailing token looks like a zip code
// rather than a neighborhood name. All-numeric is the only signal; names
// that merely contain digits stay neighborhoods.
func (p Parsed) OtherIsZip() bool {
	if p.Other == "" {
		return false
	}
	for _, r := range p.Other {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Parse decomposes raw into address components. Malformed input yields a
// Parsed with empty fields rather than an error.
func Parse(raw string) Parsed {
	var p Parsed

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return p
	}

	head := raw
	if i := strings.IndexByte(raw, ','); i >= 0 {
		head = raw[:i]
		p.Other = strings.TrimSpace(raw[i+1:])
	}

	tokens := strings.Fields(head)
	i := 0

	// First all-digit token is the house number. Anything before it is
	// noise from the speech platform and is skipped.
	for ; i < len(tokens); i++ {
		if isDigits(tokens[i]) {
			p.HouseNumber = tokens[i]
			i++
			break
		}
	}
	if p.HouseNumber == "" {
		i = 0
	}

	// Street name runs up to a recognized street-type suffix.
	var name []string
	for ; i < len(tokens); i++ {
		tok := tokens[i]
		if norm, ok := streetTypes[strings.ToLower(strings.TrimRight(tok, "."))]; ok && len(name) > 0 {
			p.StreetType = norm
			i++
			break
		}
		if unitDesignators[strings.ToLower(tok)] {
			break
		}
		name = append(name, tok)
	}
	p.StreetName = strings.Join(name, " ")

	// Optional unit segment.
	if i < len(tokens) && unitDesignators[strings.ToLower(tokens[i])] {
		i++
		if i < len(tokens) {
			p.Unit = tokens[i]
			i++
		}
	}

	// Whatever trails the street segment is the "other" token.
	if i < len(tokens) {
		trailing := strings.Join(tokens[i:], " ")
		if p.Other == "" {
			p.Other = trailing
		} else {
			p.Other = trailing + " " + p.Other
		}
	}

	return p
}

// BuildOrigin assembles a geocodable address string from a parsed address,
// assuming the configured city and state when none was spoken.
func BuildOrigin(p Parsed, city, state string) string {
	origin := strings.TrimSpace(p.HouseNumber + " " + p.StreetFull())
	if p.Other != "" {
		return origin + " " + p.Other
	}
	return origin + " " + city + " " + state
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
