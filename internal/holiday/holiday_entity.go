package holiday

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindPublic   = "public"
	KindAcademic = "academic"
)

type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_holidays_date"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Kind      string    `gorm:"type:varchar(20);not null;default:'public'"`
	CreatedAt time.Time
}
