package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/slotbook/internal/auth"
	"github.com/example/slotbook/internal/booking"
	"github.com/example/slotbook/internal/cache"
	"github.com/example/slotbook/internal/db"
	"github.com/example/slotbook/internal/directory"
	"github.com/example/slotbook/internal/history"
	"github.com/example/slotbook/internal/provider"
	"github.com/example/slotbook/internal/schedule"
	"github.com/example/slotbook/internal/tokens"
)

//go:embed templates/*.html
var fs embed.FS

// Server renders the booking UI. Each authenticated user gets their own
// submitter, so a superseding booking cancels only that user's in-flight
// request.
type Server struct {
	Auth      *auth.Store
	Tokens    *tokens.Service
	History   *history.Repo
	Directory *directory.Client
	Cache     *cache.Snapshot
	Log       *zap.Logger

	BaseURL string

	mu         sync.Mutex
	submitters map[string]*booking.Submitter
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.Handle("GET /{$}", s.Auth.RequireAuth(http.HandlerFunc(s.handleProviders)))
	mux.Handle("GET /providers/{id}", s.Auth.RequireAuth(http.HandlerFunc(s.handleProvider)))
	mux.Handle("POST /providers/{id}/book", s.Auth.RequireAuth(http.HandlerFunc(s.handleBook)))
	mux.Handle("GET /bookings", s.Auth.RequireAuth(http.HandlerFunc(s.handleBookings)))
	mux.Handle("/tokens", s.Auth.RequireAuth(http.HandlerFunc(s.handleTokens)))
	mux.Handle("GET /admin/providers/new", s.Auth.RequireAuth(http.HandlerFunc(s.handleAdminNew)))
	mux.Handle("POST /admin/providers", s.Auth.RequireAuth(http.HandlerFunc(s.handleAdminCreate)))

	return s.logging(mux)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) submitterFor(userID string) *booking.Submitter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitters == nil {
		s.submitters = make(map[string]*booking.Submitter)
	}
	sub, ok := s.submitters[userID]
	if !ok {
		sub = booking.NewSubmitter(s.Directory, s.Log)
		s.submitters[userID] = sub
	}
	return sub
}

// providers returns the directory snapshot, preferring the cache when one is
// configured.
func (s *Server) providers(ctx context.Context) ([]provider.Provider, error) {
	if ps, ok := s.Cache.Get(ctx); ok {
		return ps, nil
	}
	ps, err := s.Directory.Providers(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, ps)
	return ps, nil
}

func (s *Server) providerByID(ctx context.Context, id string) (provider.Provider, error) {
	ps, err := s.providers(ctx)
	if err != nil {
		return provider.Provider{}, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p, nil
		}
	}
	return provider.Provider{}, errors.New("provider not found")
}

// --- auth pages ---

type loginData struct {
	Title    string
	Flash    string
	Username string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login.html", loginData{Title: "Login"})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		id, err := s.Auth.Authenticate(r.Context(), username, r.FormValue("password"))
		if err != nil {
			s.render(w, "login.html", loginData{Title: "Login", Flash: "Invalid username or password", Username: username})
			return
		}
		if err := s.Auth.SetSession(w, r, id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// --- provider list and profile ---

type providersData struct {
	Title     string
	Flash     string
	Providers []provider.Provider
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	ps, err := s.providers(r.Context())
	if err != nil {
		s.render(w, "providers.html", providersData{Title: "Providers", Flash: userMessage(err)})
		return
	}
	s.render(w, "providers.html", providersData{Title: "Providers", Providers: ps})
}

type windowDay struct {
	Key      schedule.DateKey
	Label    string
	Selected bool
}

type providerData struct {
	Title       string
	Flash       string
	Provider    provider.Provider
	Days        []windowDay
	SelectedKey schedule.DateKey
	Slots       []string
}

func (s *Server) handleProvider(w http.ResponseWriter, r *http.Request) {
	p, err := s.providerByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.renderProvider(w, r, p, r.URL.Query().Get("date"), "")
}

// renderProvider recomputes the window and the filtered slots from scratch on
// every request; selection state lives in the URL, not on the server.
func (s *Server) renderProvider(w http.ResponseWriter, r *http.Request, p provider.Provider, dateParam, flash string) {
	now := time.Now()
	window := schedule.Window(now)

	selected := window[0]
	if dateParam != "" {
		if d, err := schedule.ParseDateKey(dateParam); err == nil {
			for _, wd := range window {
				if schedule.SameDay(wd, d) {
					selected = wd
					break
				}
			}
		}
	}

	days := make([]windowDay, 0, len(window))
	for _, wd := range window {
		days = append(days, windowDay{
			Key:      schedule.EncodeDateKey(wd),
			Label:    wd.Format("Mon Jan 2"),
			Selected: schedule.SameDay(wd, selected),
		})
	}

	s.render(w, "provider.html", providerData{
		Title:       p.Name,
		Flash:       flash,
		Provider:    p,
		Days:        days,
		SelectedKey: schedule.EncodeDateKey(selected),
		Slots:       schedule.FilterAvailable(p.AvailableSlots, selected, now),
	})
}

// --- booking ---

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	p, err := s.providerByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dateParam := r.FormValue("date")
	slot := r.FormValue("slot")

	var selectedDate time.Time
	if dateParam != "" {
		if d, perr := schedule.ParseDateKey(dateParam); perr == nil {
			selectedDate = d
		}
	}

	tok, err := s.Tokens.Get(r.Context(), uid)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.Log.Warn("token lookup failed", zap.Error(err))
	}

	msg, err := s.submitterFor(uid).Submit(r.Context(), p.ID, selectedDate, slot, tok.DirectoryToken)
	if err != nil {
		if errors.Is(err, booking.ErrNotAuthenticated) {
			// no directory token on file; send the user to set one up
			http.Redirect(w, r, "/tokens", http.StatusFound)
			return
		}
		if errors.Is(err, context.Canceled) {
			// superseded by a newer submission; nothing to show
			http.Redirect(w, r, "/providers/"+p.ID+"?date="+dateParam, http.StatusFound)
			return
		}
		s.renderProvider(w, r, p, dateParam, userMessage(err))
		return
	}

	_ = s.History.Record(r.Context(), history.Entry{
		UserID:       uid,
		ProviderID:   p.ID,
		ProviderName: p.Name,
		SlotDate:     schedule.EncodeDateKey(selectedDate),
		SlotTime:     slot,
		Message:      msg,
	})

	// the booking changed availability server-side; drop the snapshot so the
	// next view re-reads the directory
	s.Cache.Invalidate(r.Context())

	http.Redirect(w, r, "/bookings?m="+url.QueryEscape(msg), http.StatusFound)
}

type bookingsData struct {
	Title   string
	Flash   string
	Entries []history.Entry
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	entries, err := s.History.ListByUser(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "bookings.html", bookingsData{
		Title:   "My Bookings",
		Flash:   r.URL.Query().Get("m"),
		Entries: entries,
	})
}

// --- tokens page ---

type tokensData struct {
	Title        string
	Flash        string
	Saved        bool
	HasDirectory bool
	HasAdmin     bool
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	cur, _ := s.Tokens.Get(r.Context(), uid)

	switch r.Method {
	case http.MethodGet:
		s.render(w, "tokens.html", tokensData{
			Title:        "Directory Tokens",
			Saved:        r.URL.Query().Get("saved") == "1",
			HasDirectory: cur.HasDirectory(),
			HasAdmin:     cur.HasAdmin(),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		next := tokens.Tokens{
			UserID:         uid,
			DirectoryToken: cur.DirectoryToken,
			AdminToken:     cur.AdminToken,
		}
		if v := strings.TrimSpace(r.FormValue("directory_token")); v != "" {
			next.DirectoryToken = v
		}
		if v := strings.TrimSpace(r.FormValue("admin_token")); v != "" {
			next.AdminToken = v
		}
		if err := s.Tokens.Update(r.Context(), next); err != nil {
			s.render(w, "tokens.html", tokensData{Title: "Directory Tokens", Flash: err.Error()})
			return
		}
		http.Redirect(w, r, "/tokens?saved=1", http.StatusFound)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	t, err := template.ParseFS(fs, "templates/base.html", "templates/"+name)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		s.Log.Warn("render failed", zap.String("template", name), zap.Error(err))
	}
}

// userMessage maps an error to what the user should see: rejections verbatim,
// validation errors as-is, anything else generically.
func userMessage(err error) string {
	var rej *directory.RejectedError
	if errors.As(err, &rej) {
		return rej.Message
	}
	if booking.IsValidationError(err) || errors.Is(err, booking.ErrBookingFailed) {
		return capitalize(err.Error())
	}
	return "Something went wrong, please try again"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Start runs the server with graceful shutdown tied to ctx.
func Start(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
