package employee

import (
	"time"

	"leavedesk/internal/domain"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`

	// PasswordHash is bcrypt; only the auth module reads it.
	PasswordHash string `gorm:"type:varchar(100);not null"`

	Department string      `gorm:"type:varchar(100)"`
	Position   string      `gorm:"type:varchar(100)"`
	Role       domain.Role `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`

	// ManagerID is the approval-chain link; nil for top-level employees.
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`

	HireDate time.Time `gorm:"type:date"`
	IsActive bool      `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
