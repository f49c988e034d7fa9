package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/slotbook/internal/directory"
	"github.com/example/slotbook/internal/schedule"
)

type fakeTransport struct {
	calls   atomic.Int64
	message string
	err     error

	// when set, BookSlot blocks until the context is cancelled or the
	// channel is closed
	block chan struct{}

	mu       sync.Mutex
	lastDate schedule.DateKey
}

func (f *fakeTransport) BookSlot(ctx context.Context, providerID string, date schedule.DateKey, slotLabel, token string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastDate = date
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-f.block:
		}
	}
	return f.message, f.err
}

var someDate = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func TestSubmitValidatesBeforeNetwork(t *testing.T) {
	cases := []struct {
		name                  string
		date                  time.Time
		slot, token           string
		want                  error
	}{
		{"no token", someDate, "2:30 PM", "", ErrNotAuthenticated},
		{"no slot", someDate, "", "tok", ErrNoSlotSelected},
		{"no date", time.Time{}, "2:30 PM", "tok", ErrNoDateSelected},
	}
	for _, c := range cases {
		ft := &fakeTransport{}
		s := NewSubmitter(ft, nil)
		_, err := s.Submit(context.Background(), "p1", c.date, c.slot, c.token)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
		if n := ft.calls.Load(); n != 0 {
			t.Errorf("%s: transport invoked %d times, want 0", c.name, n)
		}
		if !IsValidationError(err) {
			t.Errorf("%s: %v not classified as validation error", c.name, err)
		}
	}
}

func TestSubmitEncodesDateKey(t *testing.T) {
	ft := &fakeTransport{message: "booked"}
	s := NewSubmitter(ft, nil)
	if _, err := s.Submit(context.Background(), "p1", someDate, "2:30 PM", "tok"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ft.lastDate != "5_2_2024" {
		t.Fatalf("date key = %q, want 5_2_2024", ft.lastDate)
	}
}

func TestSubmitSurfacesRejectionVerbatim(t *testing.T) {
	ft := &fakeTransport{err: &directory.RejectedError{Message: "Slot not available"}}
	s := NewSubmitter(ft, nil)
	_, err := s.Submit(context.Background(), "p1", someDate, "2:30 PM", "tok")
	var rej *directory.RejectedError
	if !errors.As(err, &rej) || rej.Message != "Slot not available" {
		t.Fatalf("got %v, want verbatim rejection", err)
	}
}

func TestSubmitTransportFailureIsGeneric(t *testing.T) {
	ft := &fakeTransport{err: fmt.Errorf("connection reset")}
	s := NewSubmitter(ft, nil)
	_, err := s.Submit(context.Background(), "p1", someDate, "2:30 PM", "tok")
	if !errors.Is(err, ErrBookingFailed) {
		t.Fatalf("got %v, want ErrBookingFailed", err)
	}
}

func TestSubmitDoesNotDeduplicate(t *testing.T) {
	// Duplicate prevention is the directory service's job; two identical
	// submissions must both go out and both report success.
	ft := &fakeTransport{message: "booked"}
	s := NewSubmitter(ft, nil)
	for i := 0; i < 2; i++ {
		msg, err := s.Submit(context.Background(), "p1", someDate, "2:30 PM", "tok")
		if err != nil || msg != "booked" {
			t.Fatalf("submit %d: msg=%q err=%v", i, msg, err)
		}
	}
	if n := ft.calls.Load(); n != 2 {
		t.Fatalf("transport invoked %d times, want 2", n)
	}
}

func TestSubmitCancelsSupersededInflight(t *testing.T) {
	ft := &fakeTransport{message: "booked", block: make(chan struct{})}
	s := NewSubmitter(ft, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "p1", someDate, "2:00 PM", "tok")
		firstDone <- err
	}()

	// wait for the first submission to reach the transport
	deadline := time.After(2 * time.Second)
	for ft.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first submission never reached transport")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// the superseding submission cancels the stale one before sending
	secondDone := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "p1", someDate, "2:30 PM", "tok")
		secondDone <- err
	}()

	select {
	case err := <-firstDone:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("superseded submit returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded submit never returned")
	}

	// release the transport so the live submission completes normally
	close(ft.block)
	select {
	case err := <-secondDone:
		if err != nil {
			t.Fatalf("live submit returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("live submit never returned")
	}
}
