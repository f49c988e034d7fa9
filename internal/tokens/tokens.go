package tokens

import (
	"context"
	"time"

	"github.com/example/slotbook/internal/crypto"
	"github.com/example/slotbook/internal/db"
)

// Tokens holds a user's credentials for the directory service: the booking
// token sent as the `token` header and, for admins, the `aToken` header value.
// Both are stored encrypted at rest.
type Tokens struct {
	UserID         string
	DirectoryToken string
	AdminToken     string
	UpdatedAt      time.Time
}

func (t Tokens) HasDirectory() bool { return t.DirectoryToken != "" }
func (t Tokens) HasAdmin() bool     { return t.AdminToken != "" }

type Service struct {
	db   *db.DB
	aead *crypto.AEAD
}

func NewService(d *db.DB, aead *crypto.AEAD) *Service {
	return &Service{db: d, aead: aead}
}

func (s *Service) Get(ctx context.Context, userID string) (Tokens, error) {
	var t Tokens
	err := s.db.QueryRow(ctx, `
		SELECT user_id, directory_token, admin_token, updated_at
		FROM tokens WHERE user_id=$1
	`, userID).Scan(&t.UserID, &t.DirectoryToken, &t.AdminToken, &t.UpdatedAt)
	if err != nil {
		return Tokens{}, db.WrapNotFound(err)
	}
	if t.DirectoryToken != "" {
		if v, err := s.aead.DecryptString(t.DirectoryToken); err == nil {
			t.DirectoryToken = v
		}
	}
	if t.AdminToken != "" {
		if v, err := s.aead.DecryptString(t.AdminToken); err == nil {
			t.AdminToken = v
		}
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, t Tokens) error {
	var err error
	if t.DirectoryToken != "" {
		if t.DirectoryToken, err = s.aead.EncryptToString(t.DirectoryToken); err != nil {
			return err
		}
	}
	if t.AdminToken != "" {
		if t.AdminToken, err = s.aead.EncryptToString(t.AdminToken); err != nil {
			return err
		}
	}
	return s.db.Exec(ctx, `
		INSERT INTO tokens (user_id, directory_token, admin_token, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE
		SET directory_token=$2, admin_token=$3, updated_at=$4
	`, t.UserID, t.DirectoryToken, t.AdminToken, time.Now().UTC())
}
