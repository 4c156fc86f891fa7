package registration

import (
	"time"

	"github.com/uptrace/bun"
)

// Registration is unique per (student, event)
type Registration struct {
	bun.BaseModel `bun:"table:registrations,alias:r"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	StudentID int       `bun:"student_id,notnull,unique:registrations_student_event" json:"student_id"`
	EventID   int       `bun:"event_id,notnull,unique:registrations_student_event" json:"event_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type CreateRequest struct {
	EventID int `json:"event_id" validate:"required,gt=0"`
}
