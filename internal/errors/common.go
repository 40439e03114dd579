package errors

import "net/http"

var ErrValidation = &Exception{
	Kind:       KindValidation,
	Code:       "VALIDATION_FAILED",
	Message:    "invalid request",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidJSON = &Exception{
	Kind:       KindValidation,
	Code:       "INVALID_JSON",
	Message:    "invalid JSON payload",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidLimit = &Exception{
	Kind:       KindValidation,
	Code:       "INVALID_LIMIT",
	Message:    "limit must be between 1 and 100",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidPage = &Exception{
	Kind:       KindValidation,
	Code:       "INVALID_PAGE",
	Message:    "page must be positive",
	StatusCode: http.StatusBadRequest,
}

var ErrUnauthorized = &Exception{
	Kind:       KindUnauthorized,
	Code:       "UNAUTHORIZED",
	Message:    "missing or invalid credentials",
	StatusCode: http.StatusUnauthorized,
}

var ErrForbiddenRole = &Exception{
	Kind:       KindForbidden,
	Code:       "FORBIDDEN_ROLE",
	Message:    "this action is not available to your account type",
	StatusCode: http.StatusForbidden,
}

var ErrTaskBusy = &Exception{
	Kind:       KindConflict,
	Code:       "TASK_BUSY",
	Message:    "task is being modified by another request, retry later",
	StatusCode: http.StatusConflict,
}

var ErrRateLimited = &Exception{
	Kind:       KindRateLimited,
	Code:       "RATE_LIMITED",
	Message:    "rate limit exceeded",
	StatusCode: http.StatusTooManyRequests,
}
