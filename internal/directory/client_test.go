package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/slotbook/internal/provider"
	"github.com/example/slotbook/internal/schedule"
)

func TestProviders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/doctor/list" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"doctors": []map[string]any{{
				"_id":             "p1",
				"name":            "Jane Doe",
				"speciality":      "Event Photography",
				"fees":            150,
				"available_slots": []string{"10:00 AM", "2:30 PM"},
			}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ps, err := c.Providers(context.Background())
	if err != nil {
		t.Fatalf("Providers: %v", err)
	}
	if len(ps) != 1 || ps[0].ID != "p1" || len(ps[0].AvailableSlots) != 2 {
		t.Fatalf("unexpected snapshot: %+v", ps)
	}
}

func TestBookSlotWireFormat(t *testing.T) {
	var got struct {
		DocID    string `json:"docId"`
		SlotDate string `json:"slotDate"`
		SlotTime string `json:"slotTime"`
	}
	var tokenHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/book-appointment" {
			t.Errorf("path = %s", r.URL.Path)
		}
		tokenHeader = r.Header.Get("token")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Appointment booked"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	msg, err := c.BookSlot(context.Background(), "p1", schedule.DateKey("5_2_2024"), "2:30 PM", "tok-123")
	if err != nil {
		t.Fatalf("BookSlot: %v", err)
	}
	if msg != "Appointment booked" {
		t.Errorf("message = %q", msg)
	}
	if got.DocID != "p1" || got.SlotDate != "5_2_2024" || got.SlotTime != "2:30 PM" {
		t.Errorf("wire body = %+v", got)
	}
	if tokenHeader != "tok-123" {
		t.Errorf("token header = %q", tokenHeader)
	}
}

func TestBookSlotRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Slot not available"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.BookSlot(context.Background(), "p1", "5_2_2024", "2:30 PM", "tok")
	var rej *RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("want RejectedError, got %v", err)
	}
	if rej.Message != "Slot not available" {
		t.Errorf("message = %q", rej.Message)
	}
}

func TestAddProviderMultipart(t *testing.T) {
	var seen struct {
		aToken   string
		fields   map[string]string
		filename string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/add-doctor" {
			t.Errorf("path = %s", r.URL.Path)
		}
		seen.aToken = r.Header.Get("aToken")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		seen.fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			seen.fields[k] = v[0]
		}
		if fhs := r.MultipartForm.File["image"]; len(fhs) == 1 {
			seen.filename = fhs[0].Filename
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Provider added"})
	}))
	defer srv.Close()

	reg := provider.Registration{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Password:   "secret",
		Experience: "3 Year",
		Fee:        150,
		About:      "About text",
		Speciality: "Event Photography",
		Degree:     "BFA",
		Address:    provider.Address{Line1: "1 Main St", Line2: "Suite 2"},
		Slots:      provider.SlotList{"10:00 AM", "11:00 AM"},
	}

	c := New(srv.URL, nil)
	msg, err := c.AddProvider(context.Background(), reg, strings.NewReader("fake-image-bytes"), "jane.jpg", "admin-tok")
	if err != nil {
		t.Fatalf("AddProvider: %v", err)
	}
	if msg != "Provider added" {
		t.Errorf("message = %q", msg)
	}
	if seen.aToken != "admin-tok" {
		t.Errorf("aToken header = %q", seen.aToken)
	}
	if seen.filename != "jane.jpg" {
		t.Errorf("image filename = %q", seen.filename)
	}
	if seen.fields["fees"] != "150" {
		t.Errorf("fees field = %q", seen.fields["fees"])
	}
	if seen.fields["address"] != `{"line1":"1 Main St","line2":"Suite 2"}` {
		t.Errorf("address field = %q", seen.fields["address"])
	}
	if seen.fields["slots"] != `["10:00 AM","11:00 AM"]` {
		t.Errorf("slots field = %q", seen.fields["slots"])
	}
}
