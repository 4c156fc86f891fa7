package event

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID           int       `bun:"id,pk,autoincrement" json:"id"`
	Title        string    `bun:"title,notnull" json:"title"`
	Description  *string   `bun:"description" json:"description"`
	Type         string    `bun:"type,notnull" json:"type"`
	Date         time.Time `bun:"date,notnull" json:"date"`
	Location     *string   `bun:"location" json:"location"`
	MaxAttendees *int      `bun:"max_attendees" json:"max_attendees"`
	CollegeID    int       `bun:"college_id,notnull" json:"college_id"`
	CreatedBy    int       `bun:"created_by,notnull" json:"created_by"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	// AverageRating is computed on read
	AverageRating float64 `bun:"-" json:"average_rating"`
}

type CreateRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  *string   `json:"description"`
	Type         string    `json:"type" validate:"required,max=50"`
	Date         time.Time `json:"date" validate:"required"`
	Location     *string   `json:"location"`
	MaxAttendees *int      `json:"max_attendees" validate:"omitnil,gt=0"`
	CollegeID    int       `json:"college_id" validate:"required,gt=0"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title        *string    `json:"title" validate:"omitnil,min=1,max=200"`
	Description  *string    `json:"description"`
	Type         *string    `json:"type" validate:"omitnil,min=1,max=50"`
	Date         *time.Time `json:"date"`
	Location     *string    `json:"location"`
	MaxAttendees *int       `json:"max_attendees" validate:"omitnil,gt=0"`
	CollegeID    *int       `json:"college_id" validate:"omitnil,gt=0"`
}

// Apply copies every provided field onto e
func (p Patch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.MaxAttendees != nil {
		e.MaxAttendees = p.MaxAttendees
	}
	if p.CollegeID != nil {
		e.CollegeID = *p.CollegeID
	}
}
