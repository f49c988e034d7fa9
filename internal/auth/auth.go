package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/slotbook/internal/db"
)

// Store manages local UI users and their cookie sessions. These accounts are
// local to this deployment; the directory service has its own auth, reached
// through the per-user tokens kept by the tokens package.
type Store struct {
	sc *securecookie.SecureCookie
	db *db.DB
}

type ctxKey string

const userIDKey ctxKey = "userID"

const cookieName = "slotbook_session"

func NewStore(d *db.DB, hashKey, blockKey []byte) *Store {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int((14 * 24 * time.Hour).Seconds()))
	return &Store{sc: sc, db: d}
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func (s *Store) CreateUser(ctx context.Context, username, password string) (string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.db.Exec(ctx,
		`INSERT INTO users(id, username, password_bcrypt) VALUES ($1,$2,$3)`,
		id, username, hash); err != nil {
		return "", err
	}
	if err := s.db.Exec(ctx,
		`INSERT INTO tokens(user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Authenticate(ctx context.Context, username, password string) (string, error) {
	var id, hash string
	err := s.db.QueryRow(ctx,
		`SELECT id, password_bcrypt FROM users WHERE username=$1`, username).Scan(&id, &hash)
	if err != nil {
		return "", db.WrapNotFound(err)
	}
	if !CheckPassword(hash, password) {
		return "", errors.New("invalid credentials")
	}
	return id, nil
}

func (s *Store) SetSession(w http.ResponseWriter, r *http.Request, userID string) error {
	encoded, err := s.sc.Encode(cookieName, map[string]string{"uid": userID})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int((14 * 24 * time.Hour).Seconds()),
	})
	return nil
}

func (s *Store) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (s *Store) SessionUserID(r *http.Request) (string, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	val := map[string]string{}
	if err := s.sc.Decode(cookieName, c.Value, &val); err != nil {
		return "", false
	}
	uid := val["uid"]
	return uid, uid != ""
}

// RequireAuth redirects unauthenticated requests to the login page and stores
// the user id on the request context otherwise.
func (s *Store) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := s.SessionUserID(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	})
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok && uid != ""
}
