package availability

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	// slotMinutes is the length of a bookable slot
	slotMinutes = 30

	// wrapGuardHour bounds the after-midnight tail of a wrapped window.
	// Provider-local hours in [0,3) may belong to the previous day's window
	// (EndHour up to 27); hours in [3, StartHour) are always closed.
	wrapGuardHour = 3

	hoursPerDay = 24
	slotsPerDay = hoursPerDay * 60 / slotMinutes
)

// Slot is a half-hour boundary expressed in the visitor's local time.
// Minute is always 0 or 30.
type Slot struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// String renders the slot as HH:MM wall-clock time.
func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Date is a plain calendar date with no time or zone attached. It is
// interpreted in the visitor's location when combined with a slot.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf extracts the calendar date of t in the given location.
func DateOf(t time.Time, loc *time.Location) Date {
	local := t.In(loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// Window is the provider's fixed working window. EndHour may exceed 24 to
// express wraparound past midnight (26 means 02:00 the next day).
type Window struct {
	ProviderUTCOffset int `yaml:"provider_utc_offset"`
	StartHour         int `yaml:"start_hour"`
	EndHour           int `yaml:"end_hour"`
	LeadTimeMinutes   int `yaml:"lead_time_minutes"`
}

// DefaultWindow returns the provider's standard booking window:
// 09:00 to 02:00 next day in WAT (UTC+1), one hour minimum lead time.
func DefaultWindow() Window {
	return Window{
		ProviderUTCOffset: 1,
		StartHour:         9,
		EndHour:           26,
		LeadTimeMinutes:   60,
	}
}

// Validate checks the window invariants: 0 <= StartHour < 24 and
// StartHour < EndHour <= 48.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour >= 24 {
		return fmt.Errorf("start hour must be in [0,24), got %d", w.StartHour)
	}
	if w.EndHour <= w.StartHour || w.EndHour > 48 {
		return fmt.Errorf("end hour must be in (start,48], got %d", w.EndHour)
	}
	if w.LeadTimeMinutes < 0 {
		return fmt.Errorf("lead time must be non-negative, got %d", w.LeadTimeMinutes)
	}
	return nil
}

// LeadTime returns the minimum interval between now and a same-day slot.
func (w Window) LeadTime() time.Duration {
	return time.Duration(w.LeadTimeMinutes) * time.Minute
}

// LoadWindow reads a booking window from a YAML file. A missing file is not
// an error: the default window is returned so deployments without a config
// file keep the standard hours.
func LoadWindow(path string) (Window, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultWindow(), nil
		}
		return Window{}, fmt.Errorf("failed to read booking window config: %w", err)
	}

	w := DefaultWindow()
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Window{}, fmt.Errorf("failed to parse booking window config: %w", err)
	}
	if err := w.Validate(); err != nil {
		return Window{}, fmt.Errorf("invalid booking window config: %w", err)
	}
	return w, nil
}

// SlotsFor computes the bookable half-hour slots for a calendar date as seen
// from the visitor's location. Slots are returned in ascending order as
// visitor-local wall-clock times.
//
// A slot is offered when its absolute moment falls inside the provider's
// working window, and, when the target date is the visitor's current date,
// when it is strictly later than now plus the lead time. The computation is
// pure: identical inputs always produce identical output.
func (w Window) SlotsFor(date Date, now time.Time, loc *time.Location) []Slot {
	slots := make([]Slot, 0, slotsPerDay)

	nowLocal := now.In(loc)
	sameDay := nowLocal.Year() == date.Year &&
		nowLocal.Month() == date.Month &&
		nowLocal.Day() == date.Day
	cutoff := now.Add(w.LeadTime())

	for hour := 0; hour < hoursPerDay; hour++ {
		for _, minute := range []int{0, slotMinutes} {
			moment := time.Date(date.Year, date.Month, date.Day, hour, minute, 0, 0, loc)

			if !w.contains(moment) {
				continue
			}
			if sameDay && !moment.After(cutoff) {
				continue
			}
			slots = append(slots, Slot{Hour: hour, Minute: minute})
		}
	}

	return slots
}

// contains reports whether the absolute moment falls inside the provider's
// working window, applying the wraparound normalization for windows that
// extend past provider-local midnight.
func (w Window) contains(moment time.Time) bool {
	utc := moment.UTC()
	providerHour := float64(utc.Hour()) + float64(utc.Minute())/60 + float64(w.ProviderUTCOffset)

	// normalize into [0,24)
	for providerHour >= hoursPerDay {
		providerHour -= hoursPerDay
	}
	for providerHour < 0 {
		providerHour += hoursPerDay
	}

	// hours before the guard may be the previous day's wrapped tail;
	// hours in [wrapGuardHour, StartHour) are definitely closed
	if providerHour < float64(w.StartHour) && providerHour < wrapGuardHour {
		providerHour += hoursPerDay
	}

	return providerHour >= float64(w.StartHour) && providerHour < float64(w.EndHour)
}
