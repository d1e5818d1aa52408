package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Maintenance represents a single service event or a future appointment for
// a vehicle. Records are immutable after creation; to change one, remove it
// and add a replacement.
type Maintenance struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	ServiceType string    `json:"service_type"`
	Cost        float64   `json:"cost"` // in BRL
	Description string    `json:"description"`
}

// StoredMaintenance is the storable form of a maintenance record. The date
// travels as an RFC 3339 string so the payload stays unambiguous.
type StoredMaintenance struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	ServiceType string  `json:"service_type"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
}

var currencyPrinter = message.NewPrinter(language.BrazilianPortuguese)

// NewMaintenance validates and creates a maintenance record with a fresh id.
// The date may be in the past or the future.
func NewMaintenance(date time.Time, serviceType string, cost float64, description string) (*Maintenance, error) {
	if date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "must be a valid instant"}
	}
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" {
		return nil, &ValidationError{Field: "service_type", Reason: "must not be blank"}
	}
	if cost < 0 {
		return nil, &ValidationError{Field: "cost", Reason: "must be a non-negative number"}
	}

	return &Maintenance{
		ID:          uuid.NewString(),
		Date:        date,
		ServiceType: serviceType,
		Cost:        cost,
		Description: strings.TrimSpace(description),
	}, nil
}

// StartOfToday returns today's date at midnight in local time. This is the
// sole boundary between past and scheduled maintenance: records dated at or
// before it count as past.
func StartOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// IsPast reports whether the record falls on or before the start of today.
func (m *Maintenance) IsPast() bool {
	return !m.Date.After(StartOfToday())
}

// Format renders the record for display, e.g.
// "Oil change on 12/03/2026 - R$ 1.150,00 (filter included) at 14:30".
// The cost is appended only when positive and the time-of-day suffix only
// for appointments still in the future.
func (m *Maintenance) Format() string {
	str := fmt.Sprintf("%s on %s", m.ServiceType, m.Date.Format("02/01/2006"))
	if m.Cost > 0 {
		str += currencyPrinter.Sprintf(" - R$ %.2f", m.Cost)
	}
	if m.Description != "" {
		str += fmt.Sprintf(" (%s)", m.Description)
	}
	if m.Date.After(time.Now()) {
		str += " at " + m.Date.Format("15:04")
	}
	return str
}

// Stored converts the record to its storable form.
func (m *Maintenance) Stored() StoredMaintenance {
	return StoredMaintenance{
		ID:          m.ID,
		Date:        m.Date.Format(time.RFC3339),
		ServiceType: m.ServiceType,
		Cost:        m.Cost,
		Description: m.Description,
	}
}

// MaintenanceFromStored rebuilds a record from its stored form. It fails
// soft: a malformed entry yields nil and a log line, never an error, so one
// bad record cannot block loading the rest of a history. An unparsable date
// falls back to the start of today and a missing id is regenerated.
func MaintenanceFromStored(stored StoredMaintenance) *Maintenance {
	date, err := time.Parse(time.RFC3339, stored.Date)
	if err != nil {
		log.WithFields(log.Fields{"id": stored.ID, "date": stored.Date}).
			Warn("Maintenance record has an unparsable date, defaulting to start of today")
		date = StartOfToday()
	}

	m, err := NewMaintenance(date, stored.ServiceType, stored.Cost, stored.Description)
	if err != nil {
		log.WithError(err).WithField("id", stored.ID).
			Warn("Discarding stored maintenance record that failed validation")
		return nil
	}
	if stored.ID != "" {
		m.ID = stored.ID
	}
	return m
}
