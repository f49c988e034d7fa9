package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/slotbook/internal/db"
	"github.com/example/slotbook/internal/schedule"
)

// Entry is one booking submission that the directory service accepted. The
// log is purely local: it feeds the bookings view, it is not a retry queue
// and it is never consulted before sending a request.
type Entry struct {
	ID           string
	UserID       string
	ProviderID   string
	ProviderName string
	SlotDate     schedule.DateKey
	SlotTime     string
	Message      string
	CreatedAt    time.Time
}

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

func (r *Repo) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return r.db.Exec(ctx, `
		INSERT INTO bookings (id, user_id, provider_id, provider_name, slot_date, slot_time, message)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, e.ID, e.UserID, e.ProviderID, e.ProviderName, string(e.SlotDate), e.SlotTime, e.Message)
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, provider_id, provider_name, slot_date, slot_time, message, created_at
		FROM bookings
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var slotDate string
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProviderID, &e.ProviderName, &slotDate, &e.SlotTime, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.SlotDate = schedule.DateKey(slotDate)
		out = append(out, e)
	}
	return out, rows.Err()
}
