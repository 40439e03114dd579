package lifecycle

import (
	"fmt"

	"task-marketplace.com/task-marketplace/internal/constants"
)

type TaskEvent uint8

const (
	TaskEdit TaskEvent = iota + 1
	TaskDelete
	TaskAcceptOffer
	TaskRecordProgress
	TaskSubmitForApproval
	TaskApproveCompletion
	TaskRejectCompletion
)

func (e TaskEvent) String() string {
	switch e {
	case TaskEdit:
		return "edit"
	case TaskDelete:
		return "delete"
	case TaskAcceptOffer:
		return "accept_offer"
	case TaskRecordProgress:
		return "record_progress"
	case TaskSubmitForApproval:
		return "submit_for_approval"
	case TaskApproveCompletion:
		return "approve_completion"
	case TaskRejectCompletion:
		return "reject_completion"
	default:
		return fmt.Sprintf("TaskEvent(%d)", uint8(e))
	}
}

var taskTransitions = map[constants.TaskStatus]map[TaskEvent]constants.TaskStatus{
	constants.TaskStatusOpen: {
		TaskEdit:        constants.TaskStatusOpen,
		TaskDelete:      constants.TaskStatusCancelled,
		TaskAcceptOffer: constants.TaskStatusInProgress,
	},
	constants.TaskStatusInProgress: {
		TaskRecordProgress:    constants.TaskStatusInProgress,
		TaskSubmitForApproval: constants.TaskStatusPendingApproval,
	},
	constants.TaskStatusPendingApproval: {
		TaskApproveCompletion: constants.TaskStatusCompleted,
		TaskRejectCompletion:  constants.TaskStatusInProgress,
	},
}

// NextTaskStatus returns the status a task in from moves to when event fires.
func NextTaskStatus(from constants.TaskStatus, event TaskEvent) (constants.TaskStatus, error) {
	if next, ok := taskTransitions[from][event]; ok {
		return next, nil
	}
	return 0, &TransitionError{Entity: "task", From: from.String(), Event: event.String()}
}
