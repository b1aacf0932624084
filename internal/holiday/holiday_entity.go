package holiday

import (
	"time"

	"github.com/google/uuid"
)

type Holiday struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(150);not null"`
	Date time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_date"`

	// Recurring holidays repeat on the same month and day every year.
	IsRecurring bool `gorm:"not null;default:false"`
	IsActive    bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
