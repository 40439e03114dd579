package model

import "time"

type TaskProgress struct {
	ID          string `gorm:"primaryKey;size:36"`
	TaskID      string `gorm:"size:36;not null;index"`
	ProviderID  string `gorm:"size:36;not null"`
	Description string `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

func (TaskProgress) TableName() string {
	return "task_progress"
}
