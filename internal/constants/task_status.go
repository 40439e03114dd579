package constants

import (
	"database/sql/driver"
	"fmt"
)

// TaskStatus is the lifecycle state of a task. The zero value is not a valid
// status, so a TaskStatus can only come from the constants below or from
// ParseTaskStatus.
type TaskStatus uint8

const (
	TaskStatusOpen TaskStatus = iota + 1
	TaskStatusInProgress
	TaskStatusPendingApproval
	TaskStatusCompleted
	TaskStatusCancelled
)

var taskStatusNames = map[TaskStatus]string{
	TaskStatusOpen:            "open",
	TaskStatusInProgress:      "in_progress",
	TaskStatusPendingApproval: "pending_approval",
	TaskStatusCompleted:       "completed",
	TaskStatusCancelled:       "cancelled",
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	for status, name := range taskStatusNames {
		if name == raw {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown task status %q", raw)
}

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusNames[s]
	return ok
}

func (s TaskStatus) String() string {
	if name, ok := taskStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TaskStatus(%d)", uint8(s))
}

// HasAcceptedProvider reports whether a task in this status must carry an
// accepted provider.
func (s TaskStatus) HasAcceptedProvider() bool {
	switch s {
	case TaskStatusInProgress, TaskStatusPendingApproval, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid task status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *TaskStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s TaskStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid task status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *TaskStatus) Scan(src any) error {
	raw, err := scanText(src)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}
