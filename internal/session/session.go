// Package session wraps the opaque attribute map the platform round-trips
// between turns with a fixed, documented key set so handlers cannot drift
// on key spelling or meaning.
package session

import "strings"

// Attribute keys recognized by the skill. Values outside this set are
// handler-transient and round-trip untouched.
const (
	// CurrentAddressKey holds the free-text address last accepted from
	// the user. Once set it persists until explicitly cleared or
	// overwritten.
	CurrentAddressKey = "currentAddress"

	// ZipCodeKey holds a five-digit zip code used to disambiguate the
	// current address.
	ZipCodeKey = "Zipcode"

	// PromptedFromIntentKey records which intent originally needed an
	// address so routing can resume it after the address is supplied.
	PromptedFromIntentKey = "addressPromptedFromIntent"
)

// Attributes is a view over the platform-provided attribute map. It shares
// the underlying map with the request so mutations are visible to the
// response built from the same turn.
type Attributes struct {
	m map[string]any
}

// Wrap returns an Attributes view over m. A nil map yields an empty,
// writable store.
func Wrap(m map[string]any) *Attributes {
	if m == nil {
		m = make(map[string]any)
	}
	return &Attributes{m: m}
}

// Map returns the underlying attribute map for echoing into a response.
func (a *Attributes) Map() map[string]any { return a.m }

// CurrentAddress returns the stored address and whether one is known.
func (a *Attributes) CurrentAddress() (string, bool) {
	return a.getString(CurrentAddressKey)
}

// SetCurrentAddress stores a new address. Any saved zip code is cleared,
// since it disambiguated the previous address.
func (a *Attributes) SetCurrentAddress(addr string) {
	a.m[CurrentAddressKey] = addr
	delete(a.m, ZipCodeKey)
}

// ClearAddress removes the stored address and zip code, for use after a
// resolution failure.
func (a *Attributes) ClearAddress() {
	delete(a.m, CurrentAddressKey)
	delete(a.m, ZipCodeKey)
}

// ZipCode returns the stored disambiguating zip code, if any.
func (a *Attributes) ZipCode() (string, bool) {
	return a.getString(ZipCodeKey)
}

// SetZipCode stores a zip code, left-padded with zeros to five digits.
func (a *Attributes) SetZipCode(zip string) {
	if len(zip) < 5 {
		zip = strings.Repeat("0", 5-len(zip)) + zip
	}
	a.m[ZipCodeKey] = zip
}

// PromptedFromIntent returns the intent that was interrupted to collect an
// address, if any.
func (a *Attributes) PromptedFromIntent() (string, bool) {
	return a.getString(PromptedFromIntentKey)
}

// SetPromptedFromIntent records the intent to resume once an address is
// supplied.
func (a *Attributes) SetPromptedFromIntent(intent string) {
	a.m[PromptedFromIntentKey] = intent
}

// ClearPromptedFromIntent removes the resume marker.
func (a *Attributes) ClearPromptedFromIntent() {
	delete(a.m, PromptedFromIntentKey)
}

func (a *Attributes) getString(key string) (string, bool) {
	v, ok := a.m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
