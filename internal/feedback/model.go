package feedback

import (
	"time"

	"github.com/uptrace/bun"
)

// Feedback is not unique per (student, event); repeated submissions are kept
type Feedback struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	ID             int       `bun:"id,pk,autoincrement" json:"id"`
	RegistrationID int       `bun:"registration_id,notnull" json:"registration_id"`
	StudentID      int       `bun:"student_id,notnull" json:"student_id"`
	EventID        int       `bun:"event_id,notnull" json:"event_id"`
	Rating         int       `bun:"rating,notnull" json:"rating"`
	Comment        *string   `bun:"comment" json:"comment"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type SubmitRequest struct {
	RegistrationID int     `json:"registration_id" validate:"required,gt=0"`
	EventID        int     `json:"event_id" validate:"required,gt=0"`
	Rating         int     `json:"rating" validate:"min=1,max=5"`
	Comment        *string `json:"comment" validate:"omitnil,max=2000"`
}

type AverageRating struct {
	EventID       int     `json:"event_id"`
	AverageRating float64 `json:"average_rating"`
}
