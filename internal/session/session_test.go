package session

import "testing"

func TestWrapNilMap(t *testing.T) {
	attrs := Wrap(nil)
	if attrs.Map() == nil {
		t.Fatal("Wrap(nil) should yield a writable map")
	}
	attrs.SetCurrentAddress("46 Everdean St")
	if addr, ok := attrs.CurrentAddress(); !ok || addr != "46 Everdean St" {
		t.Errorf("CurrentAddress() = %q, %v after set", addr, ok)
	}
}

func TestWrapSharesUnderlyingMap(t *testing.T) {
	m := map[string]any{}
	Wrap(m).SetCurrentAddress("46 Everdean St")
	if m[CurrentAddressKey] != "46 Everdean St" {
		t.Error("mutation through the wrapper should be visible in the source map")
	}
}

func TestSetCurrentAddressClearsZip(t *testing.T) {
	attrs := Wrap(map[string]any{})
	attrs.SetZipCode("02122")
	attrs.SetCurrentAddress("46 Everdean St")
	if zip, ok := attrs.ZipCode(); ok {
		t.Errorf("zip %q should be cleared when the address changes", zip)
	}
}

func TestSetZipCodePadsToFiveDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2122", "02122"},
		{"02122", "02122"},
		{"21", "00021"},
	}
	for _, tt := range tests {
		attrs := Wrap(map[string]any{})
		attrs.SetZipCode(tt.in)
		if zip, _ := attrs.ZipCode(); zip != tt.want {
			t.Errorf("SetZipCode(%q) stored %q, want %q", tt.in, zip, tt.want)
		}
	}
}

func TestClearAddress(t *testing.T) {
	attrs := Wrap(map[string]any{})
	attrs.SetCurrentAddress("46 Everdean St")
	attrs.SetZipCode("02122")
	attrs.ClearAddress()
	if _, ok := attrs.CurrentAddress(); ok {
		t.Error("address should be gone after ClearAddress")
	}
	if _, ok := attrs.ZipCode(); ok {
		t.Error("zip should be gone after ClearAddress")
	}
}

func TestPromptedFromIntent(t *testing.T) {
	attrs := Wrap(map[string]any{})
	if _, ok := attrs.PromptedFromIntent(); ok {
		t.Error("no marker expected on a fresh session")
	}
	attrs.SetPromptedFromIntent("TrashDayIntent")
	if intent, ok := attrs.PromptedFromIntent(); !ok || intent != "TrashDayIntent" {
		t.Errorf("PromptedFromIntent() = %q, %v", intent, ok)
	}
	attrs.ClearPromptedFromIntent()
	if _, ok := attrs.PromptedFromIntent(); ok {
		t.Error("marker should be gone after clear")
	}
}

func TestNonStringValueIgnored(t *testing.T) {
	attrs := Wrap(map[string]any{CurrentAddressKey: 42})
	if _, ok := attrs.CurrentAddress(); ok {
		t.Error("non-string attribute value should read as absent")
	}
}
