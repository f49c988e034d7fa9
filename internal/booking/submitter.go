package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/slotbook/internal/directory"
	"github.com/example/slotbook/internal/schedule"
)

// Local validation failures. These never reach the network; the caller shows
// them immediately (and, for ErrNotAuthenticated, redirects to login).
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoSlotSelected   = errors.New("no slot selected")
	ErrNoDateSelected   = errors.New("no date selected")
)

// ErrBookingFailed is the generic user-facing message for transport-level
// failures. Details go to the log, not to the user.
var ErrBookingFailed = errors.New("booking failed, please try again")

// Transport is the slice of the directory client a submitter needs.
type Transport interface {
	BookSlot(ctx context.Context, providerID string, date schedule.DateKey, slotLabel, token string) (string, error)
}

// Submitter sends booking requests for one user session. Submissions are not
// idempotent here: a repeated Submit produces a second booking, and the
// directory service alone decides whether to reject it. Starting a new
// submission cancels the previous in-flight one, so a late response for a
// superseded selection can never land.
type Submitter struct {
	transport Transport
	log       *zap.Logger

	mu       sync.Mutex
	gen      uint64
	inflight context.CancelFunc
}

func NewSubmitter(t Transport, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{transport: t, log: log}
}

// Submit validates the selection locally, then sends exactly one booking
// request. On a well-formed refusal the directory's own message comes back as
// a *directory.RejectedError; on a transport failure the caller gets
// ErrBookingFailed.
func (s *Submitter) Submit(ctx context.Context, providerID string, selectedDate time.Time, slotLabel, token string) (string, error) {
	if token == "" {
		return "", ErrNotAuthenticated
	}
	if slotLabel == "" {
		return "", ErrNoSlotSelected
	}
	if selectedDate.IsZero() {
		return "", ErrNoDateSelected
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.inflight != nil {
		s.inflight()
	}
	s.gen++
	gen := s.gen
	s.inflight = cancel
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		if s.gen == gen {
			s.inflight = nil
		}
		s.mu.Unlock()
	}()

	msg, err := s.transport.BookSlot(ctx, providerID, schedule.EncodeDateKey(selectedDate), slotLabel, token)
	if err == nil {
		return msg, nil
	}

	var rej *directory.RejectedError
	if errors.As(err, &rej) {
		return "", err
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return "", context.Canceled
	}
	s.log.Warn("booking request failed",
		zap.String("provider_id", providerID),
		zap.String("slot", slotLabel),
		zap.Error(err))
	return "", ErrBookingFailed
}

// IsValidationError reports whether err is a local precondition failure, i.e.
// one that was surfaced before any network call.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrNoSlotSelected) ||
		errors.Is(err, ErrNoDateSelected)
}
