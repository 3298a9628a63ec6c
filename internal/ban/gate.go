// Package ban decides whether a customer is currently blocked from
// transacting. Ban rows are append-only history: unbanning flips
// is_active off, and a timed ban expires passively the moment
// banned_until passes, with no background sweep.
package ban

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownReason      = errors.New("unknown ban reason")
	ErrCustomReasonNeeded = errors.New("custom reason text is required for reason \"other\"")
)

type Reason string

const (
	ReasonFraud          Reason = "fraud"
	ReasonAbuse          Reason = "abuse"
	ReasonChargeback     Reason = "chargeback"
	ReasonRepeatedNoShow Reason = "repeated_no_show"
	ReasonOther          Reason = "other"
)

func ParseReason(raw string) (Reason, error) {
	switch r := Reason(raw); r {
	case ReasonFraud, ReasonAbuse, ReasonChargeback, ReasonRepeatedNoShow, ReasonOther:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReason, raw)
}

type Record struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	Reason       Reason     `json:"ban_reason"`
	CustomReason string     `json:"custom_reason,omitempty"`
	BannedAt     time.Time  `json:"banned_at"`
	BannedBy     string     `json:"banned_by"`
	BannedUntil  *time.Time `json:"banned_until,omitempty"`
	IsActive     bool       `json:"is_active"`
	Notes        string     `json:"notes,omitempty"`
}

// New builds a ban record. A nil until means the ban is permanent.
func New(customerID string, reason Reason, customReason, bannedBy string, until *time.Time, notes string, now time.Time) (Record, error) {
	if _, err := ParseReason(string(reason)); err != nil {
		return Record{}, err
	}
	if reason == ReasonOther && customReason == "" {
		return Record{}, ErrCustomReasonNeeded
	}
	return Record{
		CustomerID:   customerID,
		Reason:       reason,
		CustomReason: customReason,
		BannedAt:     now,
		BannedBy:     bannedBy,
		BannedUntil:  until,
		IsActive:     true,
		Notes:        notes,
	}, nil
}

// IsBanned reports whether the record blocks the customer at now.
// Expiry is evaluated live on every check: a past banned_until means not
// banned even if nobody ever called Lift on the row.
func IsBanned(rec Record, now time.Time) bool {
	if !rec.IsActive {
		return false
	}
	if rec.BannedUntil == nil {
		return true
	}
	return rec.BannedUntil.After(now)
}

// IsBannedAny checks a customer's full ban history.
func IsBannedAny(recs []Record, now time.Time) bool {
	for _, rec := range recs {
		if IsBanned(rec, now) {
			return true
		}
	}
	return false
}

// Lift deactivates the ban. The row is kept for history, never deleted.
func Lift(rec Record) Record {
	rec.IsActive = false
	return rec
}
