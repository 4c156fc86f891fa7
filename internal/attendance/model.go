package attendance

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendance is unique per (student, event) and always backed by the
// registration of that same pair.
type Attendance struct {
	bun.BaseModel `bun:"table:attendance,alias:a"`

	ID             int       `bun:"id,pk,autoincrement" json:"id"`
	RegistrationID int       `bun:"registration_id,notnull" json:"registration_id"`
	StudentID      int       `bun:"student_id,notnull,unique:attendance_student_event" json:"student_id"`
	EventID        int       `bun:"event_id,notnull,unique:attendance_student_event" json:"event_id"`
	CheckInTime    time.Time `bun:"check_in_time,notnull,default:current_timestamp" json:"check_in_time"`
}

// CheckInRequest is a direct check-in for the caller. RegistrationID is
// optional; when set it must match the caller's registration for EventID.
type CheckInRequest struct {
	RegistrationID int `json:"registration_id" validate:"gte=0"`
	EventID        int `json:"event_id" validate:"required,gt=0"`
}

type QRRequest struct {
	EventID int    `json:"event_id" validate:"required,gt=0"`
	QRData  string `json:"qr_data"`
}

// CheckInResult is returned for both a fresh check-in and a repeated one.
// A repeat is not an error: Success is false and Message says so.
type CheckInResult struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	AttendanceID *int        `json:"attendance_id,omitempty"`
	StudentName  *string     `json:"student_name,omitempty"`
	EventTitle   *string     `json:"event_title,omitempty"`
	Attendance   *Attendance `json:"attendance,omitempty"`
}

const (
	MessageMarked        = "attendance marked successfully"
	MessageAlreadyMarked = "already marked"
)
