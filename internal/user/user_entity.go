package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the read-only directory entry of a person who can request or
// approve leave. Accounts are provisioned by the identity provider.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string     `gorm:"column:name;type:varchar(255)"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Role         string     `gorm:"column:role;type:varchar(50);not null;default:staff"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid;index"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
