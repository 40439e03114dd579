package errors

import "net/http"

var ErrOfferNotFound = &Exception{
	Kind:       KindNotFound,
	Code:       "OFFER_NOT_FOUND",
	Message:    "offer not found",
	StatusCode: http.StatusNotFound,
}

var ErrDuplicateOffer = &Exception{
	Kind:       KindDuplicate,
	Code:       "DUPLICATE_OFFER",
	Message:    "you have already made an offer for this task",
	StatusCode: http.StatusConflict,
}

var ErrOfferNotPending = &Exception{
	Kind:       KindInvalidState,
	Code:       "OFFER_NOT_PENDING",
	Message:    "offer is not pending",
	StatusCode: http.StatusConflict,
}

// ErrOfferNotEngaged means the task has no offer in a state the completion
// handshake can move.
var ErrOfferNotEngaged = &Exception{
	Kind:       KindInvalidState,
	Code:       "OFFER_NOT_ENGAGED",
	Message:    "no accepted offer is awaiting this transition",
	StatusCode: http.StatusConflict,
}

var ErrNotTaskOwner = &Exception{
	Kind:       KindForbidden,
	Code:       "NOT_TASK_OWNER",
	Message:    "you do not own this task",
	StatusCode: http.StatusForbidden,
}

var ErrOfferIDRequired = &Exception{
	Kind:       KindValidation,
	Code:       "OFFER_ID_REQUIRED",
	Message:    "offer id is required",
	StatusCode: http.StatusBadRequest,
}
