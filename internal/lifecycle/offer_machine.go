package lifecycle

import (
	"fmt"

	"task-marketplace.com/task-marketplace/internal/constants"
)

type OfferEvent uint8

const (
	OfferEdit OfferEvent = iota + 1
	OfferWithdraw
	OfferAccept
	OfferReject
	// OfferSiblingAccepted fires on every other pending offer of a task when
	// one offer is accepted.
	OfferSiblingAccepted
	OfferSubmitCompletion
	OfferCompletionApproved
	OfferCompletionRejected
)

func (e OfferEvent) String() string {
	switch e {
	case OfferEdit:
		return "edit"
	case OfferWithdraw:
		return "withdraw"
	case OfferAccept:
		return "accept"
	case OfferReject:
		return "reject"
	case OfferSiblingAccepted:
		return "sibling_accepted"
	case OfferSubmitCompletion:
		return "submit_completion"
	case OfferCompletionApproved:
		return "completion_approved"
	case OfferCompletionRejected:
		return "completion_rejected"
	default:
		return fmt.Sprintf("OfferEvent(%d)", uint8(e))
	}
}

// COUNTER_OFFERED and COMPLETION_ACCEPTED have no outgoing edges.
var offerTransitions = map[constants.OfferStatus]map[OfferEvent]constants.OfferStatus{
	constants.OfferStatusPending: {
		OfferEdit:            constants.OfferStatusPending,
		OfferWithdraw:        constants.OfferStatusWithdrawn,
		OfferAccept:          constants.OfferStatusAccepted,
		OfferReject:          constants.OfferStatusRejected,
		OfferSiblingAccepted: constants.OfferStatusRejected,
	},
	constants.OfferStatusAccepted: {
		OfferSubmitCompletion: constants.OfferStatusPendingCompletionApproval,
	},
	constants.OfferStatusCompletionRejected: {
		OfferSubmitCompletion: constants.OfferStatusPendingCompletionApproval,
	},
	constants.OfferStatusPendingCompletionApproval: {
		OfferCompletionApproved: constants.OfferStatusCompletionAccepted,
		OfferCompletionRejected: constants.OfferStatusCompletionRejected,
	},
}

func NextOfferStatus(from constants.OfferStatus, event OfferEvent) (constants.OfferStatus, error) {
	if next, ok := offerTransitions[from][event]; ok {
		return next, nil
	}
	return 0, &TransitionError{Entity: "offer", From: from.String(), Event: event.String()}
}

// OfferSourceStatuses lists the statuses that accept event, ordered by
// status value so the result is stable for query building.
func OfferSourceStatuses(event OfferEvent) []constants.OfferStatus {
	var sources []constants.OfferStatus
	for status := constants.OfferStatusPending; status <= constants.OfferStatusCompletionRejected; status++ {
		if _, ok := offerTransitions[status][event]; ok {
			sources = append(sources, status)
		}
	}
	return sources
}

// OfferTarget returns the single status event leads to, regardless of source.
func OfferTarget(event OfferEvent) (constants.OfferStatus, bool) {
	sources := OfferSourceStatuses(event)
	if len(sources) == 0 {
		return 0, false
	}
	target := offerTransitions[sources[0]][event]
	for _, from := range sources[1:] {
		if offerTransitions[from][event] != target {
			return 0, false
		}
	}
	return target, true
}
