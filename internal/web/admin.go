package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/slotbook/internal/auth"
	"github.com/example/slotbook/internal/provider"
)

// The registration form is stateless: the accumulated slot list rides along
// as hidden fields, and add/remove/submit are distinguished by the pressed
// button. The image only has to be attached for the final submit.

type adminFormData struct {
	Title string
	Flash string
	Saved string

	Form  provider.Registration
	Slots provider.SlotList

	Specialities     []string
	ExperienceLevels []string
}

func newAdminFormData() adminFormData {
	return adminFormData{
		Title: "Register Provider",
		Form: provider.Registration{
			Experience: provider.ExperienceLevels[0],
			Speciality: provider.Specialities[0],
		},
		Specialities:     provider.Specialities,
		ExperienceLevels: provider.ExperienceLevels,
	}
}

func (s *Server) handleAdminNew(w http.ResponseWriter, r *http.Request) {
	d := newAdminFormData()
	d.Saved = r.URL.Query().Get("m")
	s.render(w, "admin_new_provider.html", d)
}

func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	// 8 MiB is plenty for a profile image
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d := newAdminFormData()
	d.Form = registrationFromForm(r)
	d.Slots = provider.SlotList(r.Form["slots"])
	d.Form.Slots = d.Slots

	switch r.FormValue("action") {
	case "add_slot":
		next, err := d.Slots.Add(r.FormValue("slot_input"))
		if err != nil {
			d.Flash = "Invalid or duplicate slot"
		} else {
			d.Slots = next
			d.Form.Slots = next
		}
		s.render(w, "admin_new_provider.html", d)
		return

	case "remove_slot":
		idx, err := strconv.Atoi(r.FormValue("slot_index"))
		if err == nil {
			d.Slots = d.Slots.Remove(idx)
			d.Form.Slots = d.Slots
		}
		s.render(w, "admin_new_provider.html", d)
		return
	}

	// final submit
	if err := d.Form.Validate(); err != nil {
		d.Flash = capitalize(err.Error())
		s.render(w, "admin_new_provider.html", d)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		d.Flash = "Image not selected"
		s.render(w, "admin_new_provider.html", d)
		return
	}
	defer file.Close()

	tok, terr := s.Tokens.Get(r.Context(), uid)
	if terr != nil || !tok.HasAdmin() {
		http.Redirect(w, r, "/tokens", http.StatusFound)
		return
	}

	msg, err := s.Directory.AddProvider(r.Context(), d.Form, file, header.Filename, tok.AdminToken)
	if err != nil {
		d.Flash = userMessage(err)
		s.render(w, "admin_new_provider.html", d)
		return
	}

	s.Log.Info("provider registered",
		zap.String("name", d.Form.Name),
		zap.String("speciality", d.Form.Speciality))
	s.Cache.Invalidate(r.Context())
	http.Redirect(w, r, "/admin/providers/new?m="+url.QueryEscape(msg), http.StatusFound)
}

func registrationFromForm(r *http.Request) provider.Registration {
	fee, _ := strconv.ParseFloat(strings.TrimSpace(r.FormValue("fee")), 64)
	return provider.Registration{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Email:      strings.TrimSpace(r.FormValue("email")),
		Password:   r.FormValue("password"),
		Experience: r.FormValue("experience"),
		Fee:        fee,
		About:      r.FormValue("about"),
		Speciality: r.FormValue("speciality"),
		Degree:     strings.TrimSpace(r.FormValue("degree")),
		Address: provider.Address{
			Line1: strings.TrimSpace(r.FormValue("address1")),
			Line2: strings.TrimSpace(r.FormValue("address2")),
		},
	}
}
