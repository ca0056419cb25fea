package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestReCollectSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/areas/Boston/services/310/address-suggest" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "46 Everdean St" {
			t.Errorf("Unexpected query %q", q)
		}
		if locale := r.URL.Query().Get("locale"); locale != "en-US" {
			t.Errorf("Unexpected locale %q", locale)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name": "46 Everdean St, Dorchester 02122", "area_name": "Boston",
			 "area_id": 310, "parcel_id": "p1", "service_id": "310", "place_id": "ABC-DEF"}
		]`))
	}))
	defer srv.Close()

	c := NewReCollect(srv.URL, "Boston", "310", srv.Client(), zap.NewNop())
	candidates, err := c.Suggest(context.Background(), "46 Everdean St")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Name != "46 Everdean St, Dorchester 02122" {
		t.Errorf("Unexpected candidate name %q", candidates[0].Name)
	}
	if candidates[0].PlaceID != "ABC-DEF" {
		t.Errorf("Unexpected place id %q", candidates[0].PlaceID)
	}
}

func TestReCollectSuggestBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewReCollect(srv.URL, "Boston", "310", srv.Client(), zap.NewNop())
	if _, err := c.Suggest(context.Background(), "46 Everdean St"); err == nil {
		t.Fatal("Expected an error for a non-200 status")
	}
}

func TestReCollectPickupDays(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"zone code stripped", "3A - Tue & Fri", []string{"Tue", "Fri"}},
		{"numeric zone code", "16 - Friday", []string{"Friday"}},
		{"plain day name", "Friday", []string{"Friday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/places/ABC-DEF/services/310/events" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"next_event": {"zone": {"title": "` + tt.title + `"}}}`))
			}))
			defer srv.Close()

			c := NewReCollect(srv.URL, "Boston", "310", srv.Client(), zap.NewNop())
			days, err := c.PickupDays(context.Background(), Candidate{
				PlaceID: "ABC-DEF", ServiceID: "310", AreaID: 310,
			})
			if err != nil {
				t.Fatalf("PickupDays failed: %v", err)
			}
			if len(days) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, days)
			}
			for i := range days {
				if days[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, days)
				}
			}
		})
	}
}

func TestReCollectPickupDaysMissingTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewReCollect(srv.URL, "Boston", "310", srv.Client(), zap.NewNop())
	if _, err := c.PickupDays(context.Background(), Candidate{PlaceID: "x", ServiceID: "310"}); err == nil {
		t.Fatal("Expected an error for a missing zone title")
	}
}
