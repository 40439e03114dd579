package constants

import (
	"database/sql/driver"
	"fmt"
)

// OfferStatus is the lifecycle state of an offer.
type OfferStatus uint8

const (
	OfferStatusPending OfferStatus = iota + 1
	OfferStatusAccepted
	OfferStatusRejected
	OfferStatusWithdrawn
	// OfferStatusCounterOffered is reserved for negotiation. No transition
	// produces or consumes it.
	OfferStatusCounterOffered
	OfferStatusPendingCompletionApproval
	OfferStatusCompletionAccepted
	OfferStatusCompletionRejected
)

var offerStatusNames = map[OfferStatus]string{
	OfferStatusPending:                   "pending",
	OfferStatusAccepted:                  "accepted",
	OfferStatusRejected:                  "rejected",
	OfferStatusWithdrawn:                 "withdrawn",
	OfferStatusCounterOffered:            "counter_offered",
	OfferStatusPendingCompletionApproval: "pending_completion_approval",
	OfferStatusCompletionAccepted:        "completion_accepted",
	OfferStatusCompletionRejected:        "completion_rejected",
}

// EngagedOfferStatuses are the statuses held by the one offer a task was
// awarded to: ACCEPTED and its completion-cycle successors.
func EngagedOfferStatuses() []OfferStatus {
	return []OfferStatus{
		OfferStatusAccepted,
		OfferStatusPendingCompletionApproval,
		OfferStatusCompletionAccepted,
		OfferStatusCompletionRejected,
	}
}

func ParseOfferStatus(raw string) (OfferStatus, error) {
	for status, name := range offerStatusNames {
		if name == raw {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown offer status %q", raw)
}

func (s OfferStatus) Valid() bool {
	_, ok := offerStatusNames[s]
	return ok
}

func (s OfferStatus) String() string {
	if name, ok := offerStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OfferStatus(%d)", uint8(s))
}

func (s OfferStatus) IsEngaged() bool {
	for _, engaged := range EngagedOfferStatuses() {
		if s == engaged {
			return true
		}
	}
	return false
}

func (s OfferStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid offer status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *OfferStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseOfferStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s OfferStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid offer status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *OfferStatus) Scan(src any) error {
	raw, err := scanText(src)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}
