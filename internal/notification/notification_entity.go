package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_user"`

	Title    string `gorm:"type:varchar(200);not null"`
	Message  string `gorm:"type:text;not null"`
	Category string `gorm:"type:varchar(50);not null;default:'general'"`
	Link     string `gorm:"type:varchar(500)"`

	IsRead bool `gorm:"not null;default:false;index:idx_notifications_user"`
	ReadAt *time.Time

	CreatedAt time.Time
}
