package errors

import "net/http"

var ErrTaskIDRequired = &Exception{
	Kind:       KindValidation,
	Code:       "TASK_ID_REQUIRED",
	Message:    "task id is required",
	StatusCode: http.StatusBadRequest,
}

var ErrTaskNotFound = &Exception{
	Kind:       KindNotFound,
	Code:       "TASK_NOT_FOUND",
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrTaskNotAssigned = &Exception{
	Kind:       KindNotFound,
	Code:       "TASK_NOT_ASSIGNED",
	Message:    "task not found or you are not assigned to this task",
	StatusCode: http.StatusNotFound,
}

var ErrTaskNotEditable = &Exception{
	Kind:       KindInvalidState,
	Code:       "TASK_NOT_EDITABLE",
	Message:    "cannot update task that is not open",
	StatusCode: http.StatusConflict,
}

var ErrTaskNotDeletable = &Exception{
	Kind:       KindInvalidState,
	Code:       "TASK_NOT_DELETABLE",
	Message:    "cannot delete task that is not open",
	StatusCode: http.StatusConflict,
}

var ErrTaskNotOpen = &Exception{
	Kind:       KindInvalidState,
	Code:       "TASK_NOT_OPEN",
	Message:    "task is not open",
	StatusCode: http.StatusConflict,
}

var ErrTaskNotInProgress = &Exception{
	Kind:       KindInvalidState,
	Code:       "TASK_NOT_IN_PROGRESS",
	Message:    "task is not in progress",
	StatusCode: http.StatusConflict,
}

var ErrTaskNotPendingApproval = &Exception{
	Kind:       KindInvalidState,
	Code:       "TASK_NOT_PENDING_APPROVAL",
	Message:    "task is not pending approval",
	StatusCode: http.StatusConflict,
}
