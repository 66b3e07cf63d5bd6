package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_notifications_event_user"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_notifications_event_user;index"`
	Kind      string     `gorm:"type:varchar(50);not null"`
	Title     string     `gorm:"type:varchar(200);not null"`
	Body      string     `gorm:"type:text"`
	RequestID *uuid.UUID `gorm:"type:uuid"`
	ReadAt    *time.Time
	CreatedAt time.Time
}
