package orderlogic

import (
	"time"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"golang.org/x/text/language"
)

// Reason explains why an order is not accepting new participants.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonOrderEnded      Reason = "order_ended"
	ReasonCapacityReached Reason = "capacity_reached"
	ReasonDeadlinePassed  Reason = "deadline_passed"
)

var reasonKeys = map[Reason]string{
	ReasonOrderEnded:      locale.KeyOrderEnded,
	ReasonCapacityReached: locale.KeyCapacityReached,
	ReasonDeadlinePassed:  locale.KeyDeadlinePassed,
}

// Message renders the reason for display in the given language.
func (r Reason) Message(tag language.Tag) string {
	key, ok := reasonKeys[r]
	if !ok {
		return ""
	}
	return locale.T(tag, key)
}

// String renders the reason in the default language.
func (r Reason) String() string {
	return r.Message(locale.Default)
}

// Eligibility is the outcome of an open check. Reason is empty when IsOpen.
type Eligibility struct {
	IsOpen bool   `json:"is_open"`
	Reason Reason `json:"reason,omitempty"`
}

// Err returns nil for an open order and an *EligibilityError otherwise.
func (e Eligibility) Err() error {
	if e.IsOpen {
		return nil
	}
	return &EligibilityError{Reason: e.Reason}
}

// EligibilityError reports a join attempt against an order that is not open.
type EligibilityError struct {
	Reason Reason
}

func (e *EligibilityError) Error() string {
	return e.Reason.String()
}

// Evaluate decides whether doc accepts new participants at now.
//
// Checks run in a fixed order and stop at the first failure: status,
// then capacity, then deadline. participantCount is the number of
// participant records, which is the authoritative count.
func Evaluate(doc models.OrderDoc, participantCount int, now time.Time) Eligibility {
	if doc.Status != models.StatusOpen {
		return Eligibility{Reason: ReasonOrderEnded}
	}
	if doc.MaxParticipants != nil && participantCount >= *doc.MaxParticipants {
		return Eligibility{Reason: ReasonCapacityReached}
	}
	if doc.Deadline != nil && now.After(*doc.Deadline) {
		return Eligibility{Reason: ReasonDeadlinePassed}
	}
	return Eligibility{IsOpen: true}
}

// IsOrderOpen evaluates a composed order using its hydrated participants.
func IsOrderOpen(o models.Order, now time.Time) Eligibility {
	return Evaluate(o.OrderDoc, len(o.Participants), now)
}
