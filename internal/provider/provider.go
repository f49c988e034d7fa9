package provider

import (
	"fmt"
	"strings"
)

// Provider is the bookable entity as served by the directory service. The
// booking side only ever reads a snapshot of it; creation and mutation happen
// through the admin registration endpoint. JSON tags match the directory
// service's own field names.
type Provider struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	Image          string   `json:"image"`
	Speciality     string   `json:"speciality"`
	Degree         string   `json:"degree"`
	Experience     string   `json:"experience"`
	About          string   `json:"about"`
	Fee            float64  `json:"fees"`
	Address        Address  `json:"address"`
	AvailableSlots []string `json:"available_slots"`
}

type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// Specialities is the fixed set the directory service accepts.
var Specialities = []string{
	"Wildlife Photography",
	"Fashion Photography",
	"Landscape Photography",
	"Concert Photography",
	"Advertising Photography",
	"Event Photography",
}

// ExperienceLevels mirrors the labels the directory service enumerates.
var ExperienceLevels = []string{
	"1 Year", "2 Year", "3 Year", "4 Year", "5 Year",
	"6 Year", "8 Year", "9 Year", "10 Year",
}

func ValidSpeciality(s string) bool { return contains(Specialities, s) }
func ValidExperience(s string) bool { return contains(ExperienceLevels, s) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Registration is the admin-side payload for creating a provider. It is sent
// to the directory service as one multipart transaction together with the
// profile image.
type Registration struct {
	Name       string
	Email      string
	Password   string
	Experience string
	Fee        float64
	About      string
	Speciality string
	Degree     string
	Address    Address
	Slots      SlotList
}

func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email required")
	}
	if r.Password == "" {
		return fmt.Errorf("password required")
	}
	if !ValidExperience(r.Experience) {
		return fmt.Errorf("unknown experience %q", r.Experience)
	}
	if r.Fee < 0 {
		return fmt.Errorf("fee must be non-negative")
	}
	if !ValidSpeciality(r.Speciality) {
		return fmt.Errorf("unknown speciality %q", r.Speciality)
	}
	if strings.TrimSpace(r.Degree) == "" {
		return fmt.Errorf("degree required")
	}
	if strings.TrimSpace(r.Address.Line1) == "" {
		return fmt.Errorf("address line1 required")
	}
	for _, s := range r.Slots {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("blank slot label")
		}
	}
	return nil
}
